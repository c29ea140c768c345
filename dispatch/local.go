package dispatch

import (
	"context"

	"github.com/anawas/Karabo-Pipeline/types"
)

// Local is an executor that runs the simulation engine in the current
// process. It is the degraded single-machine mode used when no remote
// executor is configured: the caller dispatches exactly one item holding the
// whole, unpartitioned collection.
type Local struct {
	sim types.Simulator
}

// Compile-time assertion that Local implements Executor.
var _ Executor = (*Local)(nil)

// NewLocal creates a local in-process executor.
//
// Parameters:
//   - sim: Simulation engine invoked synchronously per item
//
// Returns:
//   - *Local: Initialized executor
//   - error: types.ErrSimulatorRequired if sim is nil
func NewLocal(sim types.Simulator) (*Local, error) {
	if sim == nil {
		return nil, types.ErrSimulatorRequired
	}

	return &Local{sim: sim}, nil
}

// Run executes the item synchronously in-process.
func (l *Local) Run(ctx context.Context, item types.WorkItem) (types.Result, error) {
	path, err := l.sim.Simulate(ctx, item.Settings, item.Chunk.Sources, item.Precision)
	if err != nil {
		return types.Result{}, err
	}

	return types.Result{ItemID: item.ID, Path: path}, nil
}

// WorkerCount reports a single local worker.
func (l *Local) WorkerCount(_ context.Context) (int, error) {
	return 1, nil
}
