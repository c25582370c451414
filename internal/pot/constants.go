package pot

import "time"

// Cache defaults
const (
	DefaultCacheSize = 1024
	DefaultCacheTTL  = 5 * time.Minute
)

// Field limits
const (
	MaxNameLength        = 120
	MaxDescriptionLength = 2000
	DefaultListLimit     = 50
	MaxListLimit         = 500
)

// Log messages
const (
	LogMsgPotCreated   = "Pot created"
	LogMsgPotUpdated   = "Pot updated"
	LogMsgPotTornDown  = "Pot torn down"
	LogMsgCacheHit     = "Pot cache hit"
	LogMsgCreateFailed = "Failed to create pot"
)

// Error contexts
const (
	ErrContextCreate   = "failed to create pot"
	ErrContextGet      = "failed to get pot"
	ErrContextList     = "failed to list pots"
	ErrContextUpdate   = "failed to update pot"
	ErrContextTeardown = "failed to tear down pot"
)
