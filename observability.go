package karabo

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/anawas/Karabo-Pipeline/internal/logging"
	"github.com/anawas/Karabo-Pipeline/internal/metrics"
)

// NewPrometheusMetrics creates a Prometheus-backed metrics collector
// covering partition, dispatch, worker, and campaign metric families.
//
// Metric registration is lazy: families appear in the registry on first
// use. Registration conflicts on shared registries are ignored, so multiple
// collectors with the same namespace are safe.
//
// Parameters:
//   - reg: Prometheus registerer (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Metrics namespace (defaults to "karabo" if empty)
//
// Returns:
//   - MetricsCollector: Collector to pass via WithMetrics
//
// Example:
//
//	collector := karabo.NewPrometheusMetrics(nil, "")
//	campaign, err := karabo.NewCampaign(&cfg, catalog, sim, karabo.WithMetrics(collector))
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) MetricsCollector {
	return metrics.NewPrometheus(reg, namespace)
}

// NewSlogLogger adapts a slog.Logger to the pipeline's Logger interface.
//
// Parameters:
//   - logger: Structured logger to adapt (must be non-nil)
//
// Returns:
//   - Logger: Adapter to pass via WithLogger
//
// Example:
//
//	logger := karabo.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
//	campaign, err := karabo.NewCampaign(&cfg, catalog, sim, karabo.WithLogger(logger))
func NewSlogLogger(logger *slog.Logger) Logger {
	return logging.NewSlog(logger)
}

// NewDefaultLogger returns a Logger backed by slog's default logger.
//
// Returns:
//   - Logger: Adapter around slog.Default()
func NewDefaultLogger() Logger {
	return logging.NewSlogDefault()
}
