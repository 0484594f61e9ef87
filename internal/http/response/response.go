// Package response содержит типы и функции для формирования JSON‑ответов
// HTTP‑обработчиков в едином формате.
package response

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator"
)

// ErrorResponse — тело ответа с ошибкой: {"error": "..."}.
type ErrorResponse struct {
	Error string `json:"error" example:"User exists"`
}

// UserResponse — тело успешного ответа регистрации и входа.
type UserResponse struct {
	Message  string `json:"message" example:"User created"`
	Username string `json:"username" example:"alice"`
}

// StatusResponse — тело ответа проверки состояния.
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Error: msg,
	}
}

// User возвращает UserResponse с сообщением и именем пользователя.
func User(msg, username string) UserResponse {
	return UserResponse{
		Message:  msg,
		Username: username,
	}
}

// ValidationError формирует ErrorResponse на основе ошибок валидации.
// Каждое нарушение превращается в человеко‑читаемый текст, тексты объединяются через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be at most %s characters long", err.Field(), err.Param()))
		case "printascii":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s can contain only printable characters", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return ErrorResponse{
		Error: strings.Join(errsMsgs, ", "),
	}
}
