// Package apiroot отдаёт оглавление API.
package apiroot

import (
	"net/http"

	"github.com/go-chi/render"
)

// Response — оглавление API.
type Response struct {
	Message   string            `json:"message"`
	Endpoints map[string]string `json:"endpoints"`
}

// Handler обрабатывает GET /api/.
type Handler struct {
	index Response
}

// New создаёт обработчик оглавления.
func New() *Handler {
	return &Handler{
		index: Response{
			Message: "Chemical Equipment Visualizer API",
			Endpoints: map[string]string{
				"register":       "/api/register/",
				"login":          "/api/login/",
				"datasets":       "/api/datasets/",
				"upload":         "/api/upload/",
				"dataset_detail": "/api/datasets/{id}/",
				"dataset_pdf":    "/api/datasets/{id}/pdf/",
			},
		},
	}
}

// ServeHTTP возвращает оглавление API.
// @Summary Оглавление API
// @Tags info
// @Produce json
// @Success 200 {object} Response
// @Router /api/ [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, h.index)
}
