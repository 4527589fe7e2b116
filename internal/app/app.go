// Package app wires configuration, database, services, and HTTP transport
// together and owns the server lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/fluentdeck/fluentdeck-backend/internal/adapter/postgres"
	"github.com/fluentdeck/fluentdeck-backend/internal/adapter/postgres/card"
	"github.com/fluentdeck/fluentdeck-backend/internal/adapter/postgres/reviewlog"
	"github.com/fluentdeck/fluentdeck-backend/internal/config"
	"github.com/fluentdeck/fluentdeck-backend/internal/service/study"
	"github.com/fluentdeck/fluentdeck-backend/internal/transport/rest"
)

// Run starts the application and blocks until ctx is cancelled or a fatal
// error occurs. On cancellation it shuts the HTTP server down gracefully
// within the configured shutdown timeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log := NewLogger(cfg.Log)
	log.Info("starting",
		slog.String("version", BuildVersion()),
		slog.Int("port", cfg.Server.Port),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	if cfg.Database.MigrateOnStart {
		if err := RunMigrations(ctx, pool); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}
		log.Info("migrations applied")
	}

	cardRepo := card.New(pool)
	reviewRepo := reviewlog.New(pool)
	txManager := postgres.NewTxManager(pool)

	studySvc := study.NewService(log, cardRepo, reviewRepo, txManager)

	healthH := rest.NewHealthHandler(pool, BuildVersion())
	studyH := rest.NewStudyHandler(studySvc)
	router := rest.NewRouter(log, cfg.CORS, healthH, studyH)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	log.Info("stopped")
	return nil
}
