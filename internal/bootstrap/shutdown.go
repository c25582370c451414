package bootstrap

import (
	"context"
	"log/slog"

	"github.com/osse101/PotSettle_Go/internal/event"
	"github.com/osse101/PotSettle_Go/internal/server"
	"github.com/osse101/PotSettle_Go/internal/sse"
)

// ShutdownComponents holds all components that need graceful shutdown.
type ShutdownComponents struct {
	Server             *server.Server
	Workers            *Workers
	StreamHub          *sse.Hub
	ResilientPublisher *event.ResilientPublisher
	Storage            *Storage
}

// GracefulShutdown performs graceful shutdown of all application components.
// It shuts down in this order:
// 1. HTTP server (stop accepting new requests)
// 2. Scheduler and worker pool (finish the running sweep)
// 3. SSE hub (disconnect stream clients)
// 4. Event publisher (flush pending events)
// 5. Store (close the connection pool)
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, components ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if components.Server != nil {
		if err := components.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if components.Workers != nil {
		slog.Info(LogMsgShuttingDownWorkers)
		components.Workers.Stop()
	}

	if components.StreamHub != nil {
		components.StreamHub.Stop()
	}

	if components.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := components.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if components.Storage != nil {
		components.Storage.Close()
	}

	slog.Info(LogMsgServerStopped)
}
