package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/JonMunkholm/dataprocess/internal/config"
	"github.com/JonMunkholm/dataprocess/internal/core"
	"github.com/JonMunkholm/dataprocess/internal/infer"
	"github.com/JonMunkholm/dataprocess/internal/logging"
	"github.com/JonMunkholm/dataprocess/internal/metrics"
	"github.com/JonMunkholm/dataprocess/internal/metrics/datadog"
	"github.com/JonMunkholm/dataprocess/internal/store"
	_ "github.com/JonMunkholm/dataprocess/internal/store/postgres" // Register backends
	_ "github.com/JonMunkholm/dataprocess/internal/store/sqlite"
	"github.com/JonMunkholm/dataprocess/internal/web"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	ctx := context.Background()

	st, err := store.Open(ctx, store.Config{
		Backend:  cfg.Store.Backend,
		DSN:      cfg.Store.DSN,
		MaxConns: cfg.Store.MaxConns,
	})
	if err != nil {
		slog.Error("failed to open dataset store", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer st.Close()
	slog.Info("dataset store ready", "backend", cfg.Store.Backend)

	var backend metrics.Backend = metrics.Nop{}
	var dd *datadog.Backend
	if cfg.Metrics.DatadogEnabled {
		dd, err = datadog.NewBackend(ctx, datadog.Options{
			JobName:    cfg.Metrics.JobName,
			Tags:       datadog.ParseTagsCSV(cfg.Metrics.Tags),
			FlushEvery: cfg.Metrics.FlushInterval,
		})
		if err != nil {
			slog.Error("failed to start datadog metrics", "error", err)
			os.Exit(1)
		}
		backend = dd
		slog.Info("datadog metrics enabled", "job", cfg.Metrics.JobName)
	}

	unit, err := infer.ParseDurationUnit(cfg.Inference.DurationUnit)
	if err != nil {
		slog.Error("invalid duration unit", "error", err)
		os.Exit(1)
	}
	sampler := infer.NewSampler()
	if cfg.Inference.Seed != 0 {
		sampler = infer.NewSeededSampler(cfg.Inference.Seed)
	}
	engine := infer.New(infer.Options{
		ErrorRate:       cfg.Inference.ErrorRate,
		CategoryPercent: cfg.Inference.CategoryPercent,
		SamplePercent:   cfg.Inference.SamplePercent,
		MinSamples:      cfg.Inference.MinSamples,
		DurationUnit:    unit,
		Sampler:         sampler,
		Logger:          logger.With("component", "infer"),
	})

	service := core.NewService(st, engine, backend, core.Config{
		MaxFileSize:   cfg.Upload.MaxFileSize,
		MaxConcurrent: cfg.Upload.MaxConcurrent,
		MaxWaitTime:   cfg.Upload.MaxWaitTime,
		Timeout:       cfg.Upload.Timeout,
	})
	server := web.NewServer(service, cfg)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	err = serve(server, service.Limiter(), sigCh, cfg.Server.ShutdownTimeout)
	if err != nil {
		slog.Error("server stopped", "error", err)
	}

	if dd != nil {
		if err := dd.Close(); err != nil {
			slog.Warn("final metrics flush failed", "error", err)
		}
	}
	if err != nil {
		st.Close()
		os.Exit(1)
	}
}

type httpServer interface {
	Start() error
	Shutdown(ctx context.Context) error
}

type drainer interface {
	Active() int
	WaitForDrain(ctx context.Context) error
}

// serve runs srv until it fails or a signal arrives. On a signal it lets
// in-flight conversions drain before shutting the server down.
func serve(srv httpServer, jobs drainer, sigCh <-chan os.Signal, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-sigCh:
	}

	slog.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if active := jobs.Active(); active > 0 {
		slog.Info("waiting for conversions to complete", "active", active)
		if err := jobs.WaitForDrain(shutdownCtx); err != nil {
			slog.Warn("conversions did not complete in time", "error", err)
		}
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
