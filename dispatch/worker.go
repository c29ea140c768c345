package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/anawas/Karabo-Pipeline/internal/kvutil"
	"github.com/anawas/Karabo-Pipeline/internal/logger"
	"github.com/anawas/Karabo-Pipeline/internal/metrics"
	"github.com/anawas/Karabo-Pipeline/internal/presence"
	"github.com/anawas/Karabo-Pipeline/types"
)

// Worker consumes simulation tasks from the NATS execution fabric.
//
// A worker queue-subscribes to the task subject, runs the injected simulation
// engine for each request, and replies with the artifact path or an error
// payload. While running it maintains a TTL'd presence entry so executors can
// count live workers.
type Worker struct {
	conn    *nats.Conn
	sim     types.Simulator
	cfg     ExecutorConfig
	name    string
	logger  types.Logger
	metrics types.MetricsCollector

	mu       sync.Mutex
	started  bool
	sub      *nats.Subscription
	presence *presence.Publisher
}

// WorkerOption configures a Worker.
type WorkerOption func(*Worker)

// WithWorkerName sets the worker's presence name. Defaults to
// "{hostname}-{pid}".
func WithWorkerName(name string) WorkerOption {
	return func(w *Worker) {
		if name != "" {
			w.name = name
		}
	}
}

// WithWorkerLogger sets the worker's logger.
func WithWorkerLogger(l types.Logger) WorkerOption {
	return func(w *Worker) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithWorkerMetrics sets the worker's metrics collector.
func WithWorkerMetrics(m types.MetricsCollector) WorkerOption {
	return func(w *Worker) {
		if m != nil {
			w.metrics = m
		}
	}
}

// NewWorker creates a worker bound to the given NATS connection and
// simulation engine.
//
// Parameters:
//   - conn: NATS connection (must be non-nil)
//   - sim: Simulation engine run per task (must be non-nil)
//   - cfg: Fabric configuration; must match the executor's (zero value
//     selects all defaults)
//   - opts: Optional name, logger, and metrics
//
// Returns:
//   - *Worker: Initialized worker (not yet started)
//   - error: Validation failure
func NewWorker(conn *nats.Conn, sim types.Simulator, cfg ExecutorConfig, opts ...WorkerOption) (*Worker, error) {
	if conn == nil {
		return nil, errors.New("NATS connection is required")
	}
	if sim == nil {
		return nil, types.ErrSimulatorRequired
	}
	cfg.setDefaults()

	hostname, _ := os.Hostname()
	w := &Worker{
		conn:    conn,
		sim:     sim,
		cfg:     cfg,
		name:    fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		logger:  logger.NewNop(),
		metrics: metrics.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Name returns the worker's presence name.
func (w *Worker) Name() string {
	return w.name
}

// Start registers the worker's presence and begins consuming tasks.
//
// Returns:
//   - error: Presence registration or subscription failure, or
//     ErrAlreadyStarted semantics if called twice
func (w *Worker) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return errors.New("worker already started")
	}

	js, err := jetstream.New(w.conn)
	if err != nil {
		return fmt.Errorf("failed to create JetStream context: %w", err)
	}

	kv, err := kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{
		Bucket: w.cfg.PresenceBucket,
		TTL:    3 * w.cfg.PresenceInterval,
	}, 3)
	if err != nil {
		return fmt.Errorf("failed to ensure presence bucket: %w", err)
	}

	pub := presence.New(kv, w.cfg.PresencePrefix, w.cfg.PresenceInterval)
	pub.SetWorkerID(w.name)
	pub.SetMetrics(w.metrics)
	if err := pub.Start(ctx); err != nil {
		return fmt.Errorf("failed to start presence publisher: %w", err)
	}

	sub, err := w.conn.QueueSubscribe(w.cfg.Subject, w.cfg.QueueGroup, w.handle)
	if err != nil {
		_ = pub.Stop()
		return fmt.Errorf("failed to subscribe to %s: %w", w.cfg.Subject, err)
	}

	w.presence = pub
	w.sub = sub
	w.started = true
	w.logger.Info("worker started", "name", w.name, "subject", w.cfg.Subject)

	return nil
}

// Stop unsubscribes from the task subject and withdraws the worker's
// presence entry. Tasks already being processed run to completion.
func (w *Worker) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return errors.New("worker not started")
	}
	w.started = false

	var errs []error
	if err := w.sub.Unsubscribe(); err != nil {
		errs = append(errs, fmt.Errorf("failed to unsubscribe: %w", err))
	}
	if err := w.presence.Stop(); err != nil {
		errs = append(errs, err)
	}
	w.logger.Info("worker stopped", "name", w.name)

	return errors.Join(errs...)
}

// handle runs one task and replies with the artifact path or an error
// payload. Each message is processed in its own goroutine so a long
// simulation does not block delivery of further tasks to this subscriber.
func (w *Worker) handle(msg *nats.Msg) {
	go func() {
		var req taskRequest
		if err := json.Unmarshal(msg.Data, &req); err != nil {
			w.reply(msg, taskResponse{Error: fmt.Sprintf("malformed task request: %v", err)})
			return
		}

		item := req.Item
		w.logger.Info("running simulation task", "item_id", item.ID, "rows", item.Chunk.Len())

		start := time.Now()
		path, err := w.sim.Simulate(context.Background(), item.Settings, item.Chunk.Sources, item.Precision)
		w.metrics.RecordSimulationDuration(time.Since(start).Seconds(), err == nil)

		if err != nil {
			w.logger.Error("simulation task failed", "item_id", item.ID, "error", err)
			w.reply(msg, taskResponse{ItemID: item.ID, Error: err.Error()})

			return
		}

		w.reply(msg, taskResponse{ItemID: item.ID, Path: path})
	}()
}

// reply sends the response envelope, logging failures instead of panicking:
// the requester side will surface the missing reply as its own error.
func (w *Worker) reply(msg *nats.Msg, resp taskResponse) {
	payload, err := json.Marshal(resp)
	if err != nil {
		w.logger.Error("failed to encode task response", "error", err)
		return
	}
	if err := msg.Respond(payload); err != nil {
		w.logger.Error("failed to send task response", "item_id", resp.ItemID, "error", err)
	}
}
