package metrics

import (
	"context"

	"github.com/osse101/PotSettle_Go/internal/event"
	"github.com/osse101/PotSettle_Go/internal/logger"
)

// EventMetricsCollector subscribes to events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to all pot events
func (e *EventMetricsCollector) Register(bus event.Bus) {
	for _, eventType := range event.AllTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
}

// HandleEvent processes events and updates metrics
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	var err error
	switch evt.Type {
	case event.ParticipationLogged:
		var p event.ParticipationPayloadV1
		if p, err = event.DecodePayload[event.ParticipationPayloadV1](evt.Payload); err == nil {
			ParticipationEvents.WithLabelValues(p.EventType).Inc()
		}

	case event.PredictionSubmitted:
		var p event.PredictionPayloadV1
		if p, err = event.DecodePayload[event.PredictionPayloadV1](evt.Payload); err == nil {
			PredictionsSubmitted.WithLabelValues(p.Direction).Inc()
		}

	case event.OutcomeVoteCast:
		var p event.OutcomeVotePayloadV1
		if p, err = event.DecodePayload[event.OutcomeVotePayloadV1](evt.Payload); err == nil {
			OutcomeVotes.WithLabelValues(p.Vote).Inc()
		}

	case event.SettlementComputed:
		var p event.SettlementPayloadV1
		if p, err = event.DecodePayload[event.SettlementPayloadV1](evt.Payload); err == nil {
			SettlementsComputed.WithLabelValues(p.Outcome).Inc()
			SettlementWinners.Observe(float64(len(p.Winners)))
		}
	}

	if err != nil {
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		log.Debug(LogMsgEventPayloadDecode, "type", evt.Type, "error", err)
		return nil
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}
