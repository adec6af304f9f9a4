package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	eventsTotal     *prometheus.CounterVec
	errorsTotal     *prometheus.CounterVec
	routedTotal     *prometheus.CounterVec
	duplicatesTotal prometheus.Counter
	latency         *prometheus.HistogramVec
	queueDepth      *prometheus.GaugeVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		eventsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentineld_events_total",
				Help: "Events passing each pipeline stage",
			},
			[]string{"stage", "category"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentineld_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		routedTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sentineld_routed_total",
				Help: "Events routed per priority level",
			},
			[]string{"level"},
		),
		duplicatesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "sentineld_duplicates_total",
				Help: "Events suppressed as near-duplicates",
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sentineld_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		queueDepth: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "sentineld_queue_depth",
				Help: "Buffered items per pipeline stage",
			},
			[]string{"stage"},
		),
	}
}

// RecordEvent records an event passing a pipeline stage.
func (r *Recorder) RecordEvent(stage, category string) {
	r.eventsTotal.WithLabelValues(stage, category).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordRouting records a routed event per priority level.
func (r *Recorder) RecordRouting(level string) {
	r.routedTotal.WithLabelValues(level).Inc()
}

// RecordDuplicate records a suppressed near-duplicate.
func (r *Recorder) RecordDuplicate() {
	r.duplicatesTotal.Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// RecordQueueDepth records the current depth of a bounded stage queue.
func (r *Recorder) RecordQueueDepth(stage string, depth int) {
	r.queueDepth.WithLabelValues(stage).Set(float64(depth))
}
