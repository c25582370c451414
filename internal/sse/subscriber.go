package sse

import (
	"context"
	"log/slog"

	"github.com/osse101/PotSettle_Go/internal/event"
)

// Subscriber bridges the internal event bus to the SSE hub
type Subscriber struct {
	hub *Hub
}

// NewSubscriber creates a new SSE subscriber
func NewSubscriber(hub *Hub) *Subscriber {
	return &Subscriber{hub: hub}
}

// Subscribe forwards every pot event type to the hub
func (s *Subscriber) Subscribe(bus event.Bus) {
	for _, t := range event.AllTypes {
		bus.Subscribe(t, s.handleEvent)
	}
	slog.Info(LogMsgSubscribed, "types", len(event.AllTypes))
}

func (s *Subscriber) handleEvent(_ context.Context, evt event.Event) error {
	fields, err := event.DecodePayload[map[string]interface{}](evt.Payload)
	if err != nil {
		// The stream is best effort; never fail the publisher over it
		slog.Warn(LogMsgWriteError, "event_type", evt.Type, "error", err)
		return nil
	}

	potID, _ := fields["pot_id"].(string)
	s.hub.Broadcast(string(evt.Type), potID, fields)
	slog.Debug(LogMsgEventBroadcast, "event_type", evt.Type, "pot_id", potID)
	return nil
}
