// Package health проверяет доступность хранилища пользователей.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/chemical-visualizer/internal/http/response"
	"github.com/magabrotheeeer/chemical-visualizer/internal/lib/sl"
)

// Pinger проверяет соединение с хранилищем.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler обрабатывает GET /health.
type Handler struct {
	log     *slog.Logger
	storage Pinger
}

// New создаёт обработчик проверки состояния.
func New(log *slog.Logger, storage Pinger) *Handler {
	return &Handler{
		log:     log,
		storage: storage,
	}
}

// ServeHTTP пингует хранилище.
// @Summary Проверка состояния
// @Tags info
// @Produce json
// @Success 200 {object} response.StatusResponse
// @Failure 503 {object} response.ErrorResponse
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	if err := h.storage.Ping(r.Context()); err != nil {
		h.log.Error("storage ping failed",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("storage unavailable"))
		return
	}
	render.JSON(w, r, response.StatusResponse{Status: "ok"})
}
