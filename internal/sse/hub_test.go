package sse

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/PotSettle_Go/internal/domain"
	"github.com/osse101/PotSettle_Go/internal/event"
)

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case evt := <-c.Events():
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestHub_FiltersByPotAndType(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	all := hub.Register("", nil)
	onlyP1 := hub.Register("p1", nil)
	onlyVotes := hub.Register("", []string{string(event.OutcomeVoteCast)})
	require.Eventually(t, func() bool { return hub.ClientCount() == 3 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(string(event.PredictionSubmitted), "p2", nil)
	hub.Broadcast(string(event.OutcomeVoteCast), "p1", nil)

	assert.Equal(t, "p2", receive(t, all).PotID)
	assert.Equal(t, "p1", receive(t, all).PotID)

	evt := receive(t, onlyP1)
	assert.Equal(t, string(event.OutcomeVoteCast), evt.Type)

	evt = receive(t, onlyVotes)
	assert.Equal(t, "p1", evt.PotID)

	hub.Unregister(all.ID)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)
}

func TestHub_StopClosesClients(t *testing.T) {
	hub := NewHub()
	hub.Start()
	c := hub.Register("", nil)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Stop()
	hub.Stop()

	_, ok := <-c.Events()
	assert.False(t, ok)
}

func TestSubscriber_ForwardsBusEvents(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	bus := event.NewMemoryBus()
	NewSubscriber(hub).Subscribe(bus)

	c := hub.Register("pot-9", nil)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	require.NoError(t, bus.Publish(context.Background(), event.NewPredictionEvent(domain.Prediction{
		PotID:       "pot-9",
		Participant: "alice",
		Direction:   domain.DirectionPositive,
	})))

	evt := receive(t, c)
	assert.Equal(t, string(event.PredictionSubmitted), evt.Type)
	payload, ok := evt.Payload.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "alice", payload["participant"])
}

func TestHandler_StreamsFilteredEvents(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	srv := httptest.NewServer(Handler(hub))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"?pot_id=p1", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	next := func() Event {
		for {
			line, err := reader.ReadString('\n')
			require.NoError(t, err)
			if data, ok := strings.CutPrefix(line, "data: "); ok {
				var evt Event
				require.NoError(t, json.Unmarshal([]byte(data), &evt))
				return evt
			}
		}
	}

	assert.Equal(t, EventTypeConnected, next().Type)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	hub.Broadcast(string(event.PenaltyApplied), "p2", nil)
	hub.Broadcast(string(event.PenaltyApplied), "p1", map[string]string{"participant": "bob"})

	evt := next()
	assert.Equal(t, "p1", evt.PotID)
	assert.Equal(t, string(event.PenaltyApplied), evt.Type)
}

func TestHub_RegisterAfterStop(t *testing.T) {
	hub := NewHub()
	hub.Start()
	hub.Stop()

	c := hub.Register("p1", nil)
	_, ok := <-c.Events()
	assert.False(t, ok)
	assert.Zero(t, hub.ClientCount())
}

func TestHub_CountsDropsForSlowClient(t *testing.T) {
	hub := NewHub()
	hub.Start()
	defer hub.Stop()

	c := hub.Register("", nil)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 5*time.Millisecond)

	for i := 0; i < ClientEventBuffer+5; i++ {
		hub.Broadcast(string(event.ParticipationLogged), "p1", i)
	}

	require.Eventually(t, func() bool { return hub.Dropped() == 5 }, time.Second, 5*time.Millisecond)
	assert.Len(t, c.Events(), ClientEventBuffer)
}

func TestFormatSSEMessage(t *testing.T) {
	msg, err := FormatSSEMessage(Event{ID: "e1", Type: "pot_created", PotID: "p1", Timestamp: 1})
	require.NoError(t, err)
	assert.Equal(t,
		"id: e1\nevent: pot_created\ndata: {\"id\":\"e1\",\"type\":\"pot_created\",\"pot_id\":\"p1\",\"timestamp\":1,\"payload\":null}\n\n",
		string(msg))

	msg, err = FormatSSEMessage(Event{Type: EventTypeKeepalive})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(msg), "event: keepalive\n"))
}
