package sse

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Event is one message on the stream
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	PotID     string      `json:"pot_id,omitempty"`
	Timestamp int64       `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// Client is one open stream. An empty PotID follows every pot; a nil type
// set follows every event type.
type Client struct {
	ID     string
	PotID  string
	types  map[string]struct{}
	events chan Event
}

// Events delivers the client's messages and is closed when the client is
// unregistered or the hub stops
func (c *Client) Events() <-chan Event {
	return c.events
}

func (c *Client) follows(evt Event) bool {
	if c.types != nil {
		if _, ok := c.types[evt.Type]; !ok {
			return false
		}
	}
	return c.PotID == "" || c.PotID == evt.PotID
}

// Hub fans broadcast events out to registered clients from a single loop
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client

	broadcast  chan Event
	register   chan *Client
	unregister chan string

	dropped atomic.Int64

	shutdown chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewHub returns a hub that does nothing until Start
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan Event, BroadcastBufferSize),
		register:   make(chan *Client, ClientChannelBuffer),
		unregister: make(chan string, ClientChannelBuffer),
		shutdown:   make(chan struct{}),
	}
}

// Start runs the fan-out loop
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Stop ends the loop and closes every client. It is safe to call twice.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		close(h.shutdown)
		h.wg.Wait()

		h.mu.Lock()
		for id, c := range h.clients {
			close(c.events)
			delete(h.clients, id)
		}
		h.mu.Unlock()
	})
}

func (h *Hub) run() {
	defer h.wg.Done()

	for {
		select {
		case <-h.shutdown:
			return

		case c := <-h.register:
			h.mu.Lock()
			h.clients[c.ID] = c
			h.mu.Unlock()

		case id := <-h.unregister:
			h.mu.Lock()
			if c, ok := h.clients[id]; ok {
				close(c.events)
				delete(h.clients, id)
			}
			h.mu.Unlock()

		case evt := <-h.broadcast:
			h.fanOut(evt)
		}
	}
}

// fanOut never blocks on a slow client; its copy of the event is dropped
func (h *Hub) fanOut(evt Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		if !c.follows(evt) {
			continue
		}
		select {
		case c.events <- evt:
		default:
			h.dropped.Add(1)
		}
	}
}

// Register opens a client for potID and eventTypes. After Stop the returned
// client's channel is already closed.
func (h *Hub) Register(potID string, eventTypes []string) *Client {
	c := &Client{
		ID:     uuid.NewString(),
		PotID:  potID,
		events: make(chan Event, ClientEventBuffer),
	}
	if len(eventTypes) > 0 {
		c.types = make(map[string]struct{}, len(eventTypes))
		for _, t := range eventTypes {
			c.types[t] = struct{}{}
		}
	}

	select {
	case h.register <- c:
	case <-h.shutdown:
		close(c.events)
	}
	return c
}

// Unregister closes the client's channel
func (h *Hub) Unregister(clientID string) {
	select {
	case h.unregister <- clientID:
	case <-h.shutdown:
	}
}

// Broadcast queues an event for fan-out. A full queue drops it.
func (h *Hub) Broadcast(eventType, potID string, payload interface{}) {
	evt := Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		PotID:     potID,
		Timestamp: time.Now().Unix(),
		Payload:   payload,
	}

	select {
	case h.broadcast <- evt:
	default:
		h.dropped.Add(1)
		slog.Warn(LogMsgEventDropped, "event_type", eventType, "pot_id", potID)
	}
}

// ClientCount is the number of registered clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Dropped counts events lost to a full hub queue or a full client buffer
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}

// FormatSSEMessage renders evt in text/event-stream framing
func FormatSSEMessage(evt Event) ([]byte, error) {
	data, err := json.Marshal(evt)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if evt.ID != "" {
		buf.WriteString("id: " + evt.ID + "\n")
	}
	buf.WriteString("event: " + evt.Type + "\n")
	buf.WriteString("data: ")
	buf.Write(data)
	buf.WriteString("\n\n")
	return buf.Bytes(), nil
}
