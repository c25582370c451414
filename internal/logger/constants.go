package logger

// Context keys
const (
	ContextKeyRequestID = "request_id"
	ContextKeyLogger    = "logger"
)

// Log level string values
const (
	LogLevelDebug   = "debug"
	LogLevelInfo    = "info"
	LogLevelWarn    = "warn"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// Log format string values
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Service defaults
const (
	DefaultServiceName = "pot-settle"
	DefaultVersion     = "dev"
)

// Environment string values
const (
	EnvironmentDev        = "dev"
	EnvironmentProduction = "prod"
	EnvironmentTest       = "test"
	EnvironmentCLI        = "cli"
)

// Log attribute keys
const (
	AttrKeyService     = "service"
	AttrKeyVersion     = "version"
	AttrKeyEnvironment = "environment"
	AttrKeyRequestID   = "request_id"
	AttrKeyClientIP    = "client_ip"
	AttrKeyPotID       = "pot_id"
)
