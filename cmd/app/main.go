// @title Pot Settlement API
// @version 1.0
// @description Daily prediction pots: participation ledger, missed-prediction penalties, outcome consensus and winner settlement.
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key
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
	_ "time/tzdata"

	"github.com/osse101/PotSettle_Go/internal/bootstrap"
	"github.com/osse101/PotSettle_Go/internal/config"
	"github.com/osse101/PotSettle_Go/internal/server"
	"github.com/osse101/PotSettle_Go/internal/sse"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		return err
	}
	defer logFile.Close()

	for _, warning := range cfg.Warnings() {
		slog.Warn("Configuration warning", "detail", warning)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cal, err := bootstrap.NewCalendar(cfg)
	if err != nil {
		return err
	}

	storage, err := bootstrap.InitializeStorage(ctx, cfg)
	if err != nil {
		return err
	}

	eventBus, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		storage.Close()
		return err
	}

	services := bootstrap.InitializeServices(cfg, cal, storage, publisher, nil)

	streamHub := sse.NewHub()
	streamHub.Start()

	if err := bootstrap.RegisterEventHandlers(bootstrap.EventHandlerDependencies{
		EventBus:        eventBus,
		EventLogService: services.EventLog,
		StreamHub:       streamHub,
	}); err != nil {
		storage.Close()
		return err
	}

	workers, err := bootstrap.InitializeWorkers(cfg, cal, services)
	if err != nil {
		storage.Close()
		return err
	}
	workers.Start()

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		RequestTimeout: cfg.RequestTimeout,
		RateLimit: server.GuardLimits{
			Window:          cfg.RateLimitWindow,
			MaxRequests:     int64(cfg.RateLimitRequests),
			FailedAuthAlert: server.DefaultGuardFailedAuthAlert,
			MaxClients:      server.DefaultGuardMaxClients,
		},
	}, storage.Store, cal, services.HTTP(workers, streamHub))

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
		slog.Info("Shutdown signal received")
	case err = <-serverErr:
		if err != nil {
			slog.Error("Server failed", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		Workers:            workers,
		StreamHub:          streamHub,
		ResilientPublisher: publisher,
		Storage:            storage,
	})
	return err
}
