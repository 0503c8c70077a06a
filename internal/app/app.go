package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/Freeeeeet/tutoring_scheduler/internal/config"
	"github.com/Freeeeeet/tutoring_scheduler/internal/controller"
	"github.com/Freeeeeet/tutoring_scheduler/internal/controller/handlers"
	"github.com/Freeeeeet/tutoring_scheduler/internal/location"
	"github.com/Freeeeeet/tutoring_scheduler/internal/notify"
	"github.com/Freeeeeet/tutoring_scheduler/internal/repository"
	"github.com/Freeeeeet/tutoring_scheduler/internal/repository/memory"
	"github.com/Freeeeeet/tutoring_scheduler/internal/service"
)

const shutdownTimeout = 10 * time.Second

// App собранное приложение: хранилище, сервисы и HTTP сервер
type App struct {
	cfg            *config.Config
	logger         *zap.Logger
	pool           *pgxpool.Pool
	server         *http.Server
	shutdownTracer func(context.Context) error
}

// New подключает хранилище, применяет миграции и собирает HTTP сервер
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	shutdown, err := SetupTracing(ctx, cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("setup tracing: %w", err)
	}
	a.shutdownTracer = shutdown

	store, err := a.openStore(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	dispatcher, err := a.newDispatcher()
	if err != nil {
		a.Close()
		return nil, err
	}

	h := handlers.NewHandlers(
		service.NewBookingService(store, notify.NewEmitter(location.Default), dispatcher, logger),
		service.NewAvailabilityService(store, logger),
		service.NewNotificationService(store, logger),
		service.NewSearchService(store, location.Default, logger),
		service.NewSubjectService(store, logger),
		store,
		logger,
	)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	httpController := controller.NewHTTPController(h, cfg.QueryTimeout, logger)

	a.server = &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(httpController.Engine(), "http"),
		ReadHeaderTimeout: 5 * time.Second,
	}

	return a, nil
}

func (a *App) openStore(ctx context.Context) (repository.Store, error) {
	if a.cfg.Store == config.StoreMemory {
		a.logger.Warn("Using in-memory store, data is lost on restart")
		return memory.New(), nil
	}

	pool, err := OpenPool(ctx, a.cfg.DBDSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.pool = pool

	if a.cfg.AutoMigrate {
		migrator, err := NewMigrator(pool, a.cfg.MigrationsDir, a.logger)
		if err != nil {
			return nil, err
		}
		defer migrator.Close()

		if err := migrator.Run(ctx); err != nil {
			return nil, err
		}
	}

	return repository.NewPgStore(pool), nil
}

func (a *App) newDispatcher() (notify.Dispatcher, error) {
	if a.cfg.TelegramToken == "" {
		a.logger.Info("TELEGRAM_TOKEN not set, push notifications disabled")
		return notify.NopDispatcher{}, nil
	}

	d, err := notify.NewTelegramDispatcher(a.cfg.TelegramToken, a.logger)
	if err != nil {
		return nil, err
	}
	return d, nil
}

// Run обслуживает HTTP до отмены ctx, затем корректно останавливает сервер
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server listening", zap.String("addr", a.cfg.HTTPAddr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

// Close освобождает пул и сбрасывает трейсы
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
	if a.shutdownTracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := a.shutdownTracer(ctx); err != nil {
			a.logger.Warn("Failed to flush traces", zap.Error(err))
		}
	}
}
