// Package metrics provides metrics collector implementations for the Karabo
// pipeline.
package metrics

import "github.com/anawas/Karabo-Pipeline/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. Useful for testing or when external metrics
// collection is used.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
//
// Returns:
//   - *NopMetrics: A new no-op metrics collector instance
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// SplitterMetrics implementation

// RecordSplit discards the split observation.
func (n *NopMetrics) RecordSplit(_ /* chunks */, _ /* escalations */ int) {
	// No-op
}

// RecordChunkBytes discards the chunk size observation.
func (n *NopMetrics) RecordChunkBytes(_ /* bytes */ float64) {
	// No-op
}

// DispatchMetrics implementation

// RecordDispatchDuration discards the dispatch duration observation.
func (n *NopMetrics) RecordDispatchDuration(_ /* items */ int, _ /* seconds */ float64, _ /* success */ bool) {
	// No-op
}

// RecordWorkerCount discards the worker count observation.
func (n *NopMetrics) RecordWorkerCount(_ /* count */ int) {
	// No-op
}

// RecordSimulationDuration discards the simulation duration observation.
func (n *NopMetrics) RecordSimulationDuration(_ /* seconds */ float64, _ /* success */ bool) {
	// No-op
}

// RecordHeartbeat discards the presence publish observation.
func (n *NopMetrics) RecordHeartbeat(_ /* workerID */ string, _ /* success */ bool) {
	// No-op
}

// CampaignMetrics implementation

// RecordDayDuration discards the day duration observation.
func (n *NopMetrics) RecordDayDuration(_ /* day */ int, _ /* seconds */ float64) {
	// No-op
}

// RecordCampaignResult discards the campaign result observation.
func (n *NopMetrics) RecordCampaignResult(_ /* days */ int, _ /* success */ bool) {
	// No-op
}
