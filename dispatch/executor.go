package dispatch

import (
	"context"

	"github.com/anawas/Karabo-Pipeline/types"
)

// Executor runs work items against a pool of compute workers.
//
// The executor is always passed explicitly into the Dispatcher rather than
// held as ambient global state, so tests can substitute an in-process fake.
type Executor interface {
	// Run executes one work item and blocks until its result is available
	// or the item fails. Run must be safe for concurrent use; the
	// Dispatcher invokes it from one goroutine per item.
	//
	// Parameters:
	//   - ctx: Context spanning the run
	//   - item: Immutable work item
	//
	// Returns:
	//   - types.Result: Artifact reference produced by the worker
	//   - error: Task failure (nil on success)
	Run(ctx context.Context, item types.WorkItem) (types.Result, error)

	// WorkerCount reports the number of workers currently available to the
	// executor. The campaign uses it to size the resource budget before
	// partitioning, the same way the original driver read its scheduler's
	// worker list.
	WorkerCount(ctx context.Context) (int, error)
}

// taskRequest is the wire envelope submitted to a remote worker.
type taskRequest struct {
	Item types.WorkItem `json:"item"`
}

// taskResponse is the wire envelope returned by a remote worker. Exactly one
// of Path or Error is meaningful.
type taskResponse struct {
	ItemID string `json:"item_id"`
	Path   string `json:"path,omitempty"`
	Error  string `json:"error,omitempty"`
}
