// Package main Chemical Equipment Visualizer API
//
// @title           Chemical Equipment Visualizer API
// @version         1.0
// @description     Регистрация и вход пользователей сервиса визуализации химического оборудования

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.basic BasicAuth
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/magabrotheeeer/chemical-visualizer/docs"
	"github.com/magabrotheeeer/chemical-visualizer/internal/app/visualizer"
	"github.com/magabrotheeeer/chemical-visualizer/internal/config"
	"github.com/magabrotheeeer/chemical-visualizer/internal/lib/sl"
)

func main() {
	cfg := config.MustLoad()
	logger := sl.New(cfg.Env, os.Stdout)

	logger.Info("starting chemical-visualizer", slog.String("env", cfg.Env))
	logger.Debug("config loaded", slog.String("config", cfg.String()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := visualizer.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", sl.Err(err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", sl.Err(err))
		os.Exit(1)
	}

	logger.Info("chemical-visualizer stopped gracefully")
}
