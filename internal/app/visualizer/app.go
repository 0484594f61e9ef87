package visualizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/chemical-visualizer/internal/config"
	"github.com/magabrotheeeer/chemical-visualizer/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/chemical-visualizer/internal/lib/sl"
	"github.com/magabrotheeeer/chemical-visualizer/internal/migrations"
	"github.com/magabrotheeeer/chemical-visualizer/internal/services/auth"
	"github.com/magabrotheeeer/chemical-visualizer/internal/storage/memory"
	"github.com/magabrotheeeer/chemical-visualizer/internal/storage/postgresql"
	"github.com/magabrotheeeer/chemical-visualizer/internal/storage/redisstore"
)

const shutdownTimeout = 15 * time.Second

// App — HTTP‑сервер вместе с хранилищем и подключением к брокеру.
type App struct {
	server  *http.Server
	logger  *slog.Logger
	closers []func() error
}

// New подключает хранилище выбранного драйвера, при необходимости брокер,
// и собирает HTTP‑сервер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "app.visualizer.New"

	a := &App{logger: logger}

	store, err := a.openStore(ctx, cfg)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	// Пустой интерфейс, а не типизированный nil, отключает публикацию.
	var publisher auth.Publisher
	if cfg.RabbitMQURL != "" {
		p, err := a.openPublisher(cfg.RabbitMQ)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		publisher = p
	}

	a.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      NewRouter(logger, store, publisher, cfg.Admin),
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return a, nil
}

func (a *App) openStore(ctx context.Context, cfg *config.Config) (UserStore, error) {
	switch cfg.StorageDriver {
	case config.StorageDriverPostgres:
		db, err := postgresql.New(ctx, cfg.StorageConnectionString)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		if err := migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
			return nil, err
		}
		a.logger.Info("postgres storage ready")
		return db, nil
	case config.StorageDriverRedis:
		rdb, err := redisstore.New(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, rdb.Close)
		a.logger.Info("redis storage ready", slog.String("address", cfg.AddressRedis))
		return rdb, nil
	case config.StorageDriverMemory:
		a.logger.Warn("using in-memory storage, users are lost on restart")
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

func (a *App) openPublisher(cfg config.RabbitMQ) (*rabbitmq.Publisher, error) {
	conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeIgnoringClosed(conn.Close))

	ch, err := rabbitmq.SetupChannel(conn, rabbitmq.GetUserQueues())
	if err != nil {
		return nil, err
	}
	// Канал закрывается раньше соединения.
	a.closers = append(a.closers, closeIgnoringClosed(ch.Close))

	a.logger.Info("rabbitmq publisher ready", slog.String("exchange", rabbitmq.UsersExchange))
	return rabbitmq.NewPublisher(ch), nil
}

// Run запускает сервер и останавливает его при отмене ctx.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

// close освобождает ресурсы в обратном порядке открытия.
func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Error("failed to release resource", sl.Err(err))
		}
	}
	a.closers = nil
}

func closeIgnoringClosed(fn func() error) func() error {
	return func() error {
		if err := fn(); err != nil && !errors.Is(err, amqp.ErrClosed) {
			return err
		}
		return nil
	}
}
