package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Pot metric names
const (
	MetricNameParticipationEvents  = "pot_participation_events_total"
	MetricNamePredictionsSubmitted = "pot_predictions_submitted_total"
	MetricNamePenaltyChecks        = "pot_penalty_checks_total"
	MetricNameOutcomeVotes         = "pot_outcome_votes_total"
	MetricNameSettlementsComputed  = "pot_settlements_computed_total"
	MetricNameSettlementWinners    = "pot_settlement_winners"
	MetricNameSweepDuration        = "pot_penalty_sweep_duration_seconds"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Pot metric help text
const (
	HelpTextParticipationEvents  = "Total number of ledger events recorded"
	HelpTextPredictionsSubmitted = "Total number of predictions submitted"
	HelpTextPenaltyChecks        = "Total number of missed-prediction checks by result"
	HelpTextOutcomeVotes         = "Total number of outcome votes cast"
	HelpTextSettlementsComputed  = "Total number of settlement snapshots taken"
	HelpTextSettlementWinners    = "Number of winners per settlement snapshot"
	HelpTextSweepDuration        = "Duration of the scheduled penalty sweep in seconds"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod    = "method"
	LabelPath      = "path"
	LabelStatus    = "status"
	LabelType      = "type"
	LabelEventType = "event_type"
	LabelDirection = "direction"
	LabelResult    = "result"
	LabelOutcome   = "outcome"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgEventPayloadDecode = "Event payload could not be decoded"
	LogMsgMetricsRecorded    = "Metrics recorded for event"
)

// unmatchedRoute labels requests that did not match a chi route
const unmatchedRoute = "unmatched"
