package dispatch

import (
	"context"
	"time"

	"github.com/anawas/Karabo-Pipeline/internal/logger"
	"github.com/anawas/Karabo-Pipeline/internal/metrics"
	"github.com/anawas/Karabo-Pipeline/types"
)

// Dispatcher fans work items out to an executor and gathers their results.
type Dispatcher struct {
	exec    Executor
	logger  types.Logger
	metrics types.MetricsCollector
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for dispatch diagnostics.
func WithLogger(l types.Logger) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// WithMetrics sets the metrics collector for dispatch observations.
func WithMetrics(m types.MetricsCollector) Option {
	return func(d *Dispatcher) {
		if m != nil {
			d.metrics = m
		}
	}
}

// NewDispatcher creates a dispatcher bound to the given executor.
//
// Parameters:
//   - exec: Executor receiving the work items (must be non-nil)
//   - opts: Optional logger and metrics
//
// Returns:
//   - *Dispatcher: Initialized dispatcher
//   - error: types.ErrExecutorRequired if exec is nil
func NewDispatcher(exec Executor, opts ...Option) (*Dispatcher, error) {
	if exec == nil {
		return nil, types.ErrExecutorRequired
	}

	d := &Dispatcher{
		exec:    exec,
		logger:  logger.NewNop(),
		metrics: metrics.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

// settled carries one completed task back to the gather loop.
type settled struct {
	idx    int
	result types.Result
	err    error
}

// Dispatch submits every item to the executor concurrently and blocks until
// all items complete or one fails.
//
// On success the results are returned in submission order, regardless of
// completion timing. On the first failure the call returns only a
// types.DispatchError identifying the failing item; results of already
// completed siblings are discarded, and in-flight siblings are neither
// cancelled nor awaited — they run to completion independently and their
// results are simply not surfaced. This all-or-nothing behavior is a
// documented limitation, not a silent one: the error always names the item.
//
// Parameters:
//   - ctx: Context passed through to every executor Run call
//   - items: Work items to submit (may be empty)
//
// Returns:
//   - []types.Result: One result per item, in submission order
//   - error: First task failure wrapped in *types.DispatchError
func (d *Dispatcher) Dispatch(ctx context.Context, items []types.WorkItem) ([]types.Result, error) {
	if len(items) == 0 {
		return []types.Result{}, nil
	}

	start := time.Now()
	d.logger.Info("dispatching work items", "items", len(items))

	// Buffered so stragglers finishing after an early failure return can
	// still deliver without blocking forever.
	done := make(chan settled, len(items))

	for i := range items {
		go func(idx int, item types.WorkItem) {
			res, err := d.exec.Run(ctx, item)
			done <- settled{idx: idx, result: res, err: err}
		}(i, items[i])
	}

	results := make([]types.Result, len(items))
	for range items {
		s := <-done
		if s.err != nil {
			d.metrics.RecordDispatchDuration(len(items), time.Since(start).Seconds(), false)
			d.logger.Error("work item failed, aborting dispatch", "item_id", items[s.idx].ID, "error", s.err)

			return nil, &types.DispatchError{ItemID: items[s.idx].ID, Err: s.err}
		}
		results[s.idx] = s.result
	}

	d.metrics.RecordDispatchDuration(len(items), time.Since(start).Seconds(), true)
	d.logger.Info("dispatch complete", "items", len(items), "elapsed", time.Since(start))

	return results, nil
}
