package sse

import "time"

// Channel capacities
const (
	BroadcastBufferSize = 100
	ClientEventBuffer   = 50
	ClientChannelBuffer = 10
)

// KeepaliveInterval is how often an idle stream gets a keepalive event
const KeepaliveInterval = 30 * time.Second

// Stream event types that do not come from the bus
const (
	EventTypeConnected = "connected"
	EventTypeKeepalive = "keepalive"
)

// Query parameters accepted by Handler
const (
	QueryParamTypes = "types"
	QueryParamPotID = "pot_id"
)

const (
	LogMsgClientConnected    = "stream client connected"
	LogMsgClientDisconnected = "stream client disconnected"
	LogMsgEventBroadcast     = "forwarding event to stream"
	LogMsgEventDropped       = "stream queue full, event dropped"
	LogMsgWriteError         = "failed to write stream event"
	LogMsgSubscribed         = "stream subscribed to event bus"
)
