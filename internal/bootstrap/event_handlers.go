package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/PotSettle_Go/internal/event"
	"github.com/osse101/PotSettle_Go/internal/eventlog"
	"github.com/osse101/PotSettle_Go/internal/metrics"
	"github.com/osse101/PotSettle_Go/internal/sse"
)

// EventHandlerDependencies holds the dependencies needed for event handler registration.
type EventHandlerDependencies struct {
	EventBus        event.Bus
	EventLogService eventlog.Service
	StreamHub       *sse.Hub // optional
}

// RegisterEventHandlers sets up the bus subscribers:
// - Metrics collector (domain counters per event type)
// - Event logger (persists events to the audit log)
// - SSE subscriber (live stream to connected clients)
func RegisterEventHandlers(deps EventHandlerDependencies) error {
	metricsCollector := metrics.NewEventMetricsCollector()
	metricsCollector.Register(deps.EventBus)
	slog.Info(LogMsgMetricsCollectorRegistered)

	if err := deps.EventLogService.Subscribe(deps.EventBus); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedSubscribeEventLogger, err)
	}
	slog.Info(LogMsgEventLoggerInitialized)

	if deps.StreamHub != nil {
		sse.NewSubscriber(deps.StreamHub).Subscribe(deps.EventBus)
	}

	return nil
}
