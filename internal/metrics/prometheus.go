package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/anawas/Karabo-Pipeline/types"
)

// PrometheusCollector implements types.MetricsCollector backed by Prometheus.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	splitChunks      prometheus.Histogram
	splitEscalations prometheus.Counter
	chunkBytes       prometheus.Histogram

	dispatchDuration *prometheus.HistogramVec
	dispatchItems    prometheus.Histogram
	workerCount      prometheus.Gauge
	simDuration      *prometheus.HistogramVec
	heartbeats       *prometheus.CounterVec

	dayDuration     prometheus.Histogram
	campaignResults *prometheus.CounterVec
}

// Compile-time assertion that PrometheusCollector implements MetricsCollector.
var _ types.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Metrics namespace (defaults to "karabo" if empty)
//
// Returns:
//   - *PrometheusCollector: A MetricsCollector implementation using Prometheus
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "karabo"
	}

	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.splitChunks = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "partition",
			Name:      "chunks",
			Help:      "Number of non-empty chunks emitted per split.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10), // 1 .. 512
		})
		p.splitEscalations = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "partition",
			Name:      "escalations_total",
			Help:      "Total budget escalation rounds across all splits.",
		})
		p.chunkBytes = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "partition",
			Name:      "chunk_bytes",
			Help:      "Byte size of emitted chunks.",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 12),
		})

		p.dispatchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "dispatch",
			Name:      "duration_seconds",
			Help:      "Wall time of dispatch calls in seconds by outcome.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14), // 100ms .. ~13m
		}, []string{"outcome"})
		p.dispatchItems = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "dispatch",
			Name:      "items",
			Help:      "Number of work items per dispatch call.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		})
		p.workerCount = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "dispatch",
			Name:      "workers",
			Help:      "Live workers observed before the last dispatch.",
		})
		p.simDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "worker",
			Name:      "simulation_duration_seconds",
			Help:      "Wall time of simulation tasks in seconds by outcome.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 14),
		}, []string{"outcome"})
		p.heartbeats = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "worker",
			Name:      "presence_publishes_total",
			Help:      "Total presence publish outcomes per worker.",
		}, []string{"worker", "outcome"})

		p.dayDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "campaign",
			Name:      "day_duration_seconds",
			Help:      "Wall time of campaign days in seconds.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 14),
		})
		p.campaignResults = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "campaign",
			Name:      "runs_total",
			Help:      "Total campaign runs by outcome.",
		}, []string{"outcome"})

		for _, c := range []prometheus.Collector{
			p.splitChunks, p.splitEscalations, p.chunkBytes,
			p.dispatchDuration, p.dispatchItems, p.workerCount,
			p.simDuration, p.heartbeats,
			p.dayDuration, p.campaignResults,
		} {
			// Ignore AlreadyRegistered so shared registries are safe.
			_ = p.reg.Register(c)
		}
	})
}

func outcome(success bool) string {
	if success {
		return "success"
	}

	return "failure"
}

// RecordSplit records chunk count and escalation rounds for one split.
func (p *PrometheusCollector) RecordSplit(chunks, escalations int) {
	p.ensureRegistered()
	p.splitChunks.Observe(float64(chunks))
	p.splitEscalations.Add(float64(escalations))
}

// RecordChunkBytes records the byte size of an emitted chunk.
func (p *PrometheusCollector) RecordChunkBytes(bytes float64) {
	p.ensureRegistered()
	p.chunkBytes.Observe(bytes)
}

// RecordDispatchDuration records the wall time of one dispatch call.
func (p *PrometheusCollector) RecordDispatchDuration(items int, seconds float64, success bool) {
	p.ensureRegistered()
	p.dispatchDuration.WithLabelValues(outcome(success)).Observe(seconds)
	p.dispatchItems.Observe(float64(items))
}

// RecordWorkerCount sets the live worker gauge.
func (p *PrometheusCollector) RecordWorkerCount(count int) {
	p.ensureRegistered()
	p.workerCount.Set(float64(count))
}

// RecordSimulationDuration records the wall time of one simulation task.
func (p *PrometheusCollector) RecordSimulationDuration(seconds float64, success bool) {
	p.ensureRegistered()
	p.simDuration.WithLabelValues(outcome(success)).Observe(seconds)
}

// RecordHeartbeat records a presence publish outcome.
func (p *PrometheusCollector) RecordHeartbeat(workerID string, success bool) {
	p.ensureRegistered()
	p.heartbeats.WithLabelValues(workerID, outcome(success)).Inc()
}

// RecordDayDuration records the wall time of one campaign day.
func (p *PrometheusCollector) RecordDayDuration(_ int, seconds float64) {
	p.ensureRegistered()
	p.dayDuration.Observe(seconds)
}

// RecordCampaignResult records a campaign run outcome. The day count is
// already carried by the per-day duration observations.
func (p *PrometheusCollector) RecordCampaignResult(_ /* days */ int, success bool) {
	p.ensureRegistered()
	p.campaignResults.WithLabelValues(outcome(success)).Inc()
}
