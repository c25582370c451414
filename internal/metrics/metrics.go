package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Pot Metrics
var (
	ParticipationEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameParticipationEvents,
			Help: HelpTextParticipationEvents,
		},
		[]string{LabelEventType},
	)

	PredictionsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePredictionsSubmitted,
			Help: HelpTextPredictionsSubmitted,
		},
		[]string{LabelDirection},
	)

	PenaltyChecks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePenaltyChecks,
			Help: HelpTextPenaltyChecks,
		},
		[]string{LabelResult},
	)

	OutcomeVotes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameOutcomeVotes,
			Help: HelpTextOutcomeVotes,
		},
		[]string{LabelDirection},
	)

	SettlementsComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSettlementsComputed,
			Help: HelpTextSettlementsComputed,
		},
		[]string{LabelOutcome},
	)

	SettlementWinners = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameSettlementWinners,
			Help:    HelpTextSettlementWinners,
			Buckets: prometheus.ExponentialBuckets(1, 2, 10),
		},
	)

	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameSweepDuration,
			Help:    HelpTextSweepDuration,
			Buckets: prometheus.DefBuckets,
		},
	)
)
