package types

// MetricsCollector defines methods for recording operational metrics.
//
// Implementations should be non-blocking and handle failures gracefully.
// Methods may be called from dispatcher goroutines and must be thread-safe.
//
// This interface composes smaller, domain-focused interfaces so callers can
// implement only the surfaces they care about and embed NopMetrics for the
// rest.
type MetricsCollector interface {
	SplitterMetrics
	DispatchMetrics
	CampaignMetrics
}

// SplitterMetrics defines metrics for partitioning operations.
type SplitterMetrics interface {
	// RecordSplit records the outcome of one split operation.
	//
	// Parameters:
	//   - chunks: Number of non-empty chunks emitted
	//   - escalations: Number of budget escalation rounds performed
	RecordSplit(chunks, escalations int)

	// RecordChunkBytes records the byte size of an emitted chunk.
	RecordChunkBytes(bytes float64)
}

// DispatchMetrics defines metrics for dispatch operations.
type DispatchMetrics interface {
	// RecordDispatchDuration records the wall time of one dispatch call.
	//
	// Parameters:
	//   - items: Number of work items submitted
	//   - seconds: Time taken in seconds
	//   - success: true if all items completed, false on failure
	RecordDispatchDuration(items int, seconds float64, success bool)

	// RecordWorkerCount sets the number of live workers observed before a
	// dispatch (gauge metric).
	RecordWorkerCount(count int)

	// RecordSimulationDuration records the wall time of one simulation task
	// as observed by a worker.
	RecordSimulationDuration(seconds float64, success bool)

	// RecordHeartbeat records a worker presence publish outcome.
	RecordHeartbeat(workerID string, success bool)
}

// CampaignMetrics defines metrics for campaign orchestration.
type CampaignMetrics interface {
	// RecordDayDuration records the wall time of one campaign day.
	//
	// Parameters:
	//   - day: 1-based day index
	//   - seconds: Time taken in seconds
	RecordDayDuration(day int, seconds float64)

	// RecordCampaignResult records the completion of a campaign run.
	//
	// Parameters:
	//   - days: Number of days the campaign completed
	//   - success: true if all days finished
	RecordCampaignResult(days int, success bool)
}
