package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/zhouzirui/person-registry/backend/internal/config"
	"github.com/zhouzirui/person-registry/backend/internal/handler"
	"github.com/zhouzirui/person-registry/backend/internal/logging"
	"github.com/zhouzirui/person-registry/backend/internal/metrics"
	"github.com/zhouzirui/person-registry/backend/internal/middleware"
	"github.com/zhouzirui/person-registry/backend/internal/model/person"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stderr, cfg.Log)
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Warn("failed to load .env file, continuing with system environment only", "error", envErr)
	}

	// Seed records come first, then the data file, in file order.
	loaded, err := person.LoadFile(cfg.Data.PersonsFile)
	if err != nil {
		logger.Error("failed to load persons data", "path", cfg.Data.PersonsFile, "error", err)
		os.Exit(1)
	}
	registry := person.NewRegistry(append(person.Seed(), loaded...))
	logger.Info("person registry loaded", "path", cfg.Data.PersonsFile, "persons", registry.Len())

	var requestLog *middleware.RequestLog
	if cfg.Data.RequestLogEnabled() {
		requestLog, err = middleware.OpenRequestLog(cfg.Data.RequestLogFile, logger)
		if err != nil {
			logger.Error("failed to open request log", "path", cfg.Data.RequestLogFile, "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := requestLog.Close(); err != nil {
				logger.Warn("failed to close request log", "error", err)
			}
		}()
		logger.Info("request log enabled", "path", cfg.Data.RequestLogFile)
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(registry)
	}

	router := handler.NewRouter(handler.Deps{
		Persons:        registry,
		RequestLog:     requestLog,
		Metrics:        m,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})

	if err := startServer(ctx, logger, cfg.Server, router); err != nil {
		logger.Error("server error", "error", err)
		stop()
		os.Exit(1)
	}
}

func startServer(ctx context.Context, logger *slog.Logger, serverCfg config.ServerConfig, router http.Handler) error {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("person registry listening", "addr", serverCfg.Addr)
	return runServer(ctx, srv)
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
