// Package home отдаёт статус сервиса на корневом пути.
package home

import (
	"net/http"

	"github.com/go-chi/render"
)

// Endpoints — ссылки на основные разделы API.
type Endpoints struct {
	APIRoot  string `json:"api_root"`
	Datasets string `json:"datasets"`
	Upload   string `json:"upload"`
	Register string `json:"register"`
	Login    string `json:"login"`
}

// Response — фиксированный документ статуса.
type Response struct {
	Message       string    `json:"message"`
	Status        string    `json:"status"`
	Version       string    `json:"version"`
	Documentation string    `json:"documentation"`
	Admin         string    `json:"admin"`
	Endpoints     Endpoints `json:"endpoints"`
}

var status = Response{
	Message:       "🧪 Chemical Equipment Visualizer API",
	Status:        "running",
	Version:       "1.0",
	Documentation: "/api/",
	Admin:         "/admin/",
	Endpoints: Endpoints{
		APIRoot:  "/api/",
		Datasets: "/api/datasets/",
		Upload:   "/api/upload/",
		Register: "/api/register/",
		Login:    "/api/login/",
	},
}

// Handler обрабатывает GET /.
type Handler struct{}

// New создаёт обработчик статуса.
func New() *Handler {
	return &Handler{}
}

// ServeHTTP возвращает статус сервиса.
// @Summary Статус сервиса
// @Tags info
// @Produce json
// @Success 200 {object} Response
// @Router / [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, status)
}
