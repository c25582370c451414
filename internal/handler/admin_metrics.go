package handler

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/osse101/PotSettle_Go/internal/metrics"
	"github.com/osse101/PotSettle_Go/internal/sse"
)

// AdminMetricsResponse contains JSON-formatted metrics for operators
type AdminMetricsResponse struct {
	HTTP   HTTPMetrics  `json:"http"`
	Events EventMetrics `json:"events"`
	Pots   PotMetrics   `json:"pots"`
	SSE    SSEMetrics   `json:"sse"`
}

type HTTPMetrics struct {
	RequestsTotalByStatus map[string]float64 `json:"requests_total_by_status"`
	AvgLatencyMs          float64            `json:"avg_latency_ms"`
	P95LatencyMs          float64            `json:"p95_latency_ms"`
	InFlight              float64            `json:"in_flight"`
}

type EventMetrics struct {
	PublishedTotalByType map[string]float64 `json:"published_total_by_type"`
	HandlerErrorsByType  map[string]float64 `json:"handler_errors_by_type"`
}

// PotMetrics summarizes settlement-engine activity since process start
type PotMetrics struct {
	LedgerEventsByType     map[string]float64 `json:"ledger_events_by_type"`
	PredictionsByDirection map[string]float64 `json:"predictions_by_direction"`
	PenaltyChecksByResult  map[string]float64 `json:"penalty_checks_by_result"`
	VotesByDirection       map[string]float64 `json:"votes_by_direction"`
	SettlementsByOutcome   map[string]float64 `json:"settlements_by_outcome"`
	AvgWinners             float64            `json:"avg_winners"`
	SweepsRun              uint64             `json:"sweeps_run"`
	AvgSweepMs             float64            `json:"avg_sweep_ms"`
}

// SSEMetrics reports the live event stream
type SSEMetrics struct {
	ClientCount   int   `json:"client_count"`
	DroppedEvents int64 `json:"dropped_events"`
}

// AdminMetricsHandler handles admin metrics requests
type AdminMetricsHandler struct {
	gatherer prometheus.Gatherer
	sseHub   *sse.Hub
}

// NewAdminMetricsHandler creates a new admin metrics handler. sseHub may be nil.
func NewAdminMetricsHandler(gatherer prometheus.Gatherer, sseHub *sse.Hub) *AdminMetricsHandler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &AdminMetricsHandler{gatherer: gatherer, sseHub: sseHub}
}

// HandleGetMetrics returns JSON-formatted metrics from Prometheus
// @Summary Metrics summary
// @Tags admin
// @Produce json
// @Success 200 {object} AdminMetricsResponse
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/admin/metrics [get]
func (h *AdminMetricsHandler) HandleGetMetrics(w http.ResponseWriter, r *http.Request) {
	resp, err := gatherMetrics(h.gatherer)
	if err != nil {
		respondError(w, http.StatusInternalServerError, ErrMsgMetricsFailed)
		return
	}

	if h.sseHub != nil {
		resp.SSE.ClientCount = h.sseHub.ClientCount()
		resp.SSE.DroppedEvents = h.sseHub.Dropped()
	}

	respondJSON(w, http.StatusOK, resp)
}

func gatherMetrics(gatherer prometheus.Gatherer) (*AdminMetricsResponse, error) {
	families, err := gatherer.Gather()
	if err != nil {
		return nil, err
	}

	resp := &AdminMetricsResponse{
		HTTP: HTTPMetrics{
			RequestsTotalByStatus: make(map[string]float64),
		},
		Events: EventMetrics{
			PublishedTotalByType: make(map[string]float64),
			HandlerErrorsByType:  make(map[string]float64),
		},
		Pots: PotMetrics{
			LedgerEventsByType:     make(map[string]float64),
			PredictionsByDirection: make(map[string]float64),
			PenaltyChecksByResult:  make(map[string]float64),
			VotesByDirection:       make(map[string]float64),
			SettlementsByOutcome:   make(map[string]float64),
		},
	}

	for _, mf := range families {
		switch mf.GetName() {
		case metrics.MetricNameHTTPRequestsTotal:
			sumCounterBy(mf, metrics.LabelStatus, resp.HTTP.RequestsTotalByStatus)
		case metrics.MetricNameHTTPRequestDuration:
			var count uint64
			var sum float64
			merged := &dto.Histogram{}
			for _, m := range mf.GetMetric() {
				hist := m.GetHistogram()
				if hist == nil {
					continue
				}
				count += hist.GetSampleCount()
				sum += hist.GetSampleSum()
				merged = mergeHistogram(merged, hist)
			}
			if count > 0 {
				resp.HTTP.AvgLatencyMs = sum / float64(count) * 1000
			}
			resp.HTTP.P95LatencyMs = estimateQuantile(merged, 0.95) * 1000
		case metrics.MetricNameHTTPRequestsInFlight:
			for _, m := range mf.GetMetric() {
				resp.HTTP.InFlight += m.GetGauge().GetValue()
			}
		case metrics.MetricNameEventsPublished:
			sumCounterBy(mf, metrics.LabelType, resp.Events.PublishedTotalByType)
		case metrics.MetricNameEventHandlerErrors:
			sumCounterBy(mf, metrics.LabelType, resp.Events.HandlerErrorsByType)
		case metrics.MetricNameParticipationEvents:
			sumCounterBy(mf, metrics.LabelEventType, resp.Pots.LedgerEventsByType)
		case metrics.MetricNamePredictionsSubmitted:
			sumCounterBy(mf, metrics.LabelDirection, resp.Pots.PredictionsByDirection)
		case metrics.MetricNamePenaltyChecks:
			sumCounterBy(mf, metrics.LabelResult, resp.Pots.PenaltyChecksByResult)
		case metrics.MetricNameOutcomeVotes:
			sumCounterBy(mf, metrics.LabelDirection, resp.Pots.VotesByDirection)
		case metrics.MetricNameSettlementsComputed:
			sumCounterBy(mf, metrics.LabelOutcome, resp.Pots.SettlementsByOutcome)
		case metrics.MetricNameSettlementWinners:
			if hist := firstHistogram(mf); hist != nil && hist.GetSampleCount() > 0 {
				resp.Pots.AvgWinners = hist.GetSampleSum() / float64(hist.GetSampleCount())
			}
		case metrics.MetricNameSweepDuration:
			if hist := firstHistogram(mf); hist != nil {
				resp.Pots.SweepsRun = hist.GetSampleCount()
				if hist.GetSampleCount() > 0 {
					resp.Pots.AvgSweepMs = hist.GetSampleSum() / float64(hist.GetSampleCount()) * 1000
				}
			}
		}
	}

	return resp, nil
}

func sumCounterBy(mf *dto.MetricFamily, label string, into map[string]float64) {
	for _, m := range mf.GetMetric() {
		if value := getLabelValue(m, label); value != "" {
			into[value] += m.GetCounter().GetValue()
		}
	}
}

func firstHistogram(mf *dto.MetricFamily) *dto.Histogram {
	for _, m := range mf.GetMetric() {
		if hist := m.GetHistogram(); hist != nil {
			return hist
		}
	}
	return nil
}

func getLabelValue(m *dto.Metric, labelName string) string {
	for _, label := range m.GetLabel() {
		if label.GetName() == labelName {
			return label.GetValue()
		}
	}
	return ""
}

// mergeHistogram adds the cumulative bucket counts of src into dst.
// All series of one histogram family share the same bucket layout.
func mergeHistogram(dst, src *dto.Histogram) *dto.Histogram {
	if len(dst.GetBucket()) == 0 {
		buckets := make([]*dto.Bucket, 0, len(src.GetBucket()))
		for _, b := range src.GetBucket() {
			count := b.GetCumulativeCount()
			upper := b.GetUpperBound()
			buckets = append(buckets, &dto.Bucket{CumulativeCount: &count, UpperBound: &upper})
		}
		total := src.GetSampleCount()
		return &dto.Histogram{Bucket: buckets, SampleCount: &total}
	}
	for i, b := range src.GetBucket() {
		if i >= len(dst.Bucket) {
			break
		}
		count := dst.Bucket[i].GetCumulativeCount() + b.GetCumulativeCount()
		dst.Bucket[i].CumulativeCount = &count
	}
	total := dst.GetSampleCount() + src.GetSampleCount()
	dst.SampleCount = &total
	return dst
}

// estimateQuantile approximates the given quantile from a histogram
func estimateQuantile(hist *dto.Histogram, quantile float64) float64 {
	totalCount := hist.GetSampleCount()
	if totalCount == 0 {
		return 0
	}

	targetCount := float64(totalCount) * quantile
	buckets := hist.GetBucket()
	for _, bucket := range buckets {
		if float64(bucket.GetCumulativeCount()) >= targetCount {
			return bucket.GetUpperBound()
		}
	}

	if len(buckets) > 0 {
		return buckets[len(buckets)-1].GetUpperBound()
	}
	return 0
}
