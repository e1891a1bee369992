package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	ChatRequests        *prometheus.CounterVec
	ValidatorRejections *prometheus.CounterVec
	RetrievalFailures   prometheus.Counter
	CompareRequests     *prometheus.CounterVec
	CitationsPerAnswer  prometheus.Histogram
	StageLatency        *prometheus.HistogramVec

	stageWindow *pipelineStageWindow
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		ChatRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chat_requests_total",
			Help:      "Chat turns by outcome.",
		}, []string{"outcome"}),
		ValidatorRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validator_rejections_total",
			Help:      "Answers rejected by the validation gate, by reason.",
		}, []string{"reason"}),
		RetrievalFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_failures_total",
			Help:      "Retrieval calls degraded to an empty snippet list.",
		}),
		CompareRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compare_requests_total",
			Help:      "Product comparison requests by outcome.",
		}, []string{"outcome"}),
		CitationsPerAnswer: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "citations_per_answer",
			Help:      "Citations attached to each accepted answer.",
			Buckets:   []float64{0, 1, 2, 3, 4, 5, 6},
		}),
		StageLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "pipeline_stage_latency_ms",
			Help:      "Latency per pipeline stage in milliseconds.",
			Buckets:   []float64{5, 20, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		}, []string{"stage"}),
		stageWindow: newPipelineStageWindow(256),
	}
}

// ObserveStage records one stage duration in both the Prometheus histogram
// and the rolling window behind the perf endpoint.
func (m *Metrics) ObserveStage(stage string, d time.Duration) {
	if m == nil {
		return
	}
	ms := float64(d.Microseconds()) / 1000
	m.StageLatency.WithLabelValues(stage).Observe(ms)
	m.stageWindow.Observe(stage, ms)
}

// SnapshotPipelineStages returns recent per-stage latency percentiles.
func (m *Metrics) SnapshotPipelineStages() PipelineStageSnapshot {
	if m == nil || m.stageWindow == nil {
		return PipelineStageSnapshot{}
	}
	return m.stageWindow.Snapshot()
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
