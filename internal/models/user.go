// Package models содержит доменную модель пользователя системы
// и событие о его регистрации.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UUID         string    `json:"uid"`           // Уникальный идентификатор пользователя
	Username     string    `json:"username"`      // Имя пользователя (уникальное)
	Email        string    `json:"email"`         // Электронная почта, может быть пустой
	PasswordHash string    `json:"password_hash"` // Хэш пароля пользователя
	DateJoined   time.Time `json:"date_joined"`   // Момент регистрации, UTC
}

// UserRegistered публикуется после успешной регистрации пользователя.
type UserRegistered struct {
	UUID       string    `json:"uid"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	DateJoined time.Time `json:"date_joined"`
}

// RegisteredEvent собирает событие регистрации из сохранённого пользователя.
func (u *User) RegisteredEvent() UserRegistered {
	return UserRegistered{
		UUID:       u.UUID,
		Username:   u.Username,
		Email:      u.Email,
		DateJoined: u.DateJoined,
	}
}
