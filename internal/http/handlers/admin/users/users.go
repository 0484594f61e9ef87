// Package users отдаёт администратору список зарегистрированных пользователей.
package users

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/chemical-visualizer/internal/http/response"
	"github.com/magabrotheeeer/chemical-visualizer/internal/lib/sl"
	"github.com/magabrotheeeer/chemical-visualizer/internal/models"
	"github.com/magabrotheeeer/chemical-visualizer/internal/storage"
)

// Lister возвращает страницу пользователей, упорядоченных по дате регистрации.
type Lister interface {
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
}

// User — запись пользователя без хеша пароля.
type User struct {
	UUID       string    `json:"uid"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	DateJoined time.Time `json:"date_joined"`
}

// Response — страница пользователей.
type Response struct {
	Count int    `json:"count"`
	Users []User `json:"users"`
}

// New возвращает обработчик GET /admin/users.
// @Summary Список пользователей
// @Description Возвращает пользователей в порядке регистрации. Требует HTTP Basic.
// @Tags admin
// @Produce json
// @Param limit query int false "Размер страницы (по умолчанию 50, не больше 500)"
// @Param offset query int false "Смещение"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {string} string "Unauthorized"
// @Failure 500 {object} response.ErrorResponse
// @Security BasicAuth
// @Router /admin/users [get]
func New(log *slog.Logger, lister Lister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.users"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		limit, err := queryInt(r, "limit")
		if err != nil {
			log.Info("bad limit", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid limit"))
			return
		}
		offset, err := queryInt(r, "offset")
		if err != nil {
			log.Info("bad offset", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Error("invalid offset"))
			return
		}
		limit, offset = storage.NormalizePage(limit, offset)

		list, err := lister.ListUsers(r.Context(), limit, offset)
		if err != nil {
			log.Error("failed to list users", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Error("internal error"))
			return
		}

		res := Response{
			Count: len(list),
			Users: make([]User, 0, len(list)),
		}
		for _, u := range list {
			res.Users = append(res.Users, User{
				UUID:       u.UUID,
				Username:   u.Username,
				Email:      u.Email,
				DateJoined: u.DateJoined,
			})
		}

		log.Debug("users listed", slog.Int("count", res.Count))
		render.JSON(w, r, res)
	}
}

// queryInt читает неотрицательное целое из query; пустое значение даёт 0.
func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, strconv.ErrRange
	}
	return v, nil
}
