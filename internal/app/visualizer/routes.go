// Package visualizer собирает HTTP‑приложение сервиса учётных записей.
package visualizer

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/chemical-visualizer/internal/config"
	adminindex "github.com/magabrotheeeer/chemical-visualizer/internal/http/handlers/admin/index"
	"github.com/magabrotheeeer/chemical-visualizer/internal/http/handlers/admin/users"
	"github.com/magabrotheeeer/chemical-visualizer/internal/http/handlers/apiroot"
	"github.com/magabrotheeeer/chemical-visualizer/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/chemical-visualizer/internal/http/handlers/auth/register"
	"github.com/magabrotheeeer/chemical-visualizer/internal/http/handlers/health"
	"github.com/magabrotheeeer/chemical-visualizer/internal/http/handlers/home"
	"github.com/magabrotheeeer/chemical-visualizer/internal/http/middlewarectx"
	"github.com/magabrotheeeer/chemical-visualizer/internal/models"
	"github.com/magabrotheeeer/chemical-visualizer/internal/services/auth"
)

// UserStore — хранилище пользователей, общее для всех драйверов.
type UserStore interface {
	auth.UserRepository
	ListUsers(ctx context.Context, limit, offset int) ([]*models.User, error)
	Ping(ctx context.Context) error
}

// NewRouter создаёт роутер со всеми маршрутами и собственным реестром метрик.
func NewRouter(logger *slog.Logger, store UserStore, publisher auth.Publisher, admin config.Admin) http.Handler {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	authService := auth.NewService(store, publisher, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, store, admin, reg)
	return router
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *auth.Service, store UserStore, admin config.Admin, reg *prometheus.Registry) {
	metrics := middlewarectx.NewMetrics(reg)

	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.StripSlashes,
		metrics.Middleware,
	)

	r.Get("/", home.New().ServeHTTP)
	r.Get("/health", health.New(logger, store).ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", apiroot.New().ServeHTTP)
		r.Post("/register", register.New(logger, authService).ServeHTTP)
		r.Post("/login", login.New(logger, authService).ServeHTTP)
	})

	// Административные маршруты доступны только при заданном пароле
	if admin.AdminPassword != "" {
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.BasicAuth("admin", map[string]string{
				admin.AdminUser: admin.AdminPassword,
			}))
			r.Get("/", adminindex.New())
			r.Get("/users", users.New(logger, store))
		})
	}

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
