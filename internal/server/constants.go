package server

import "time"

// HTTP error messages for middleware responses
const (
	ErrMsgUnauthorized    = "Unauthorized"
	ErrMsgTooManyRequests = "Too Many Requests"
	ErrMsgBodyTooLarge    = "Request body too large"
)

// Security alert messages
const (
	SecurityAlertFailedAuth = "SECURITY ALERT: repeated failed authentication"
	SecurityAlertHighRate   = "SECURITY ALERT: client over request limit"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
	LogMsgAuthFailed       = "Authentication failed"
	LogMsgBadTrustedProxy  = "Ignoring unparsable trusted proxy"
)

// Listener limits
const (
	ReadHeaderTimeout   = 5 * time.Second
	MaxRequestBodyBytes = 1 << 20
	MaxRequestIDLength  = 64
)

// Client guard defaults
const (
	DefaultGuardWindow          = 5 * time.Minute
	DefaultGuardMaxRequests     = 1000
	DefaultGuardFailedAuthAlert = 5
	DefaultGuardMaxClients      = 10000
)

// HTTP header names
const (
	HeaderAPIKey        = "X-API-Key"
	HeaderAuthorization = "Authorization"
	HeaderForwardedFor  = "X-Forwarded-For"
	HeaderRequestID     = "X-Request-ID"
	HeaderRetryAfter    = "Retry-After"
)

// SecurityHeaders are set on every response
var SecurityHeaders = map[string]string{
	"X-Content-Type-Options": "nosniff",
	"X-Frame-Options":        "DENY",
	"Referrer-Policy":        "no-referrer",
	"Cache-Control":          "no-store",
}

// PublicPaths are path prefixes that bypass authentication
var PublicPaths = []string{
	"/swagger/",
	"/healthz",
	"/readyz",
	"/metrics",
	"/version",
}

// quietPaths are not logged per request
var quietPaths = []string{"/healthz", "/readyz", "/metrics"}

// RedactedValue replaces secret header values in logs
const RedactedValue = "[REDACTED]"
