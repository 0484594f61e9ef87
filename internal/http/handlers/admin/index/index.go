// Package index отдаёт оглавление административного интерфейса.
package index

import (
	"net/http"

	"github.com/go-chi/render"
)

// Response — оглавление административных маршрутов.
type Response struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}

// New возвращает обработчик GET /admin/.
// @Summary Оглавление администратора
// @Tags admin
// @Produce json
// @Success 200 {object} Response
// @Failure 401 {string} string "Unauthorized"
// @Security BasicAuth
// @Router /admin/ [get]
func New() http.HandlerFunc {
	index := Response{
		Message: "Chemical Equipment Visualizer admin",
		Endpoints: map[string]string{
			"users": "/admin/users",
		},
	}
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, index)
	}
}
