package dispatch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/anawas/Karabo-Pipeline/internal/kvutil"
	"github.com/anawas/Karabo-Pipeline/internal/logger"
	"github.com/anawas/Karabo-Pipeline/internal/metrics"
	"github.com/anawas/Karabo-Pipeline/types"
)

// Defaults for the NATS execution fabric.
const (
	// DefaultSubject is the request subject carrying simulation tasks.
	DefaultSubject = "karabo.sim.run"

	// DefaultQueueGroup is the queue group workers join, so each task is
	// delivered to exactly one worker.
	DefaultQueueGroup = "karabo-sim-workers"

	// DefaultPresenceBucket is the KV bucket registering live workers.
	DefaultPresenceBucket = "karabo-sim-presence"

	// DefaultPresencePrefix prefixes presence keys in the bucket.
	DefaultPresencePrefix = "sim-worker"

	// DefaultPresenceInterval is the worker presence publish interval. The
	// bucket TTL is 3x this interval.
	DefaultPresenceInterval = 2 * time.Second
)

// ExecutorConfig configures the NATS-backed executor and its workers.
type ExecutorConfig struct {
	// Subject is the request subject for simulation tasks.
	Subject string `yaml:"subject"`

	// QueueGroup is the worker queue group name.
	QueueGroup string `yaml:"queueGroup"`

	// PresenceBucket is the KV bucket name for worker presence.
	PresenceBucket string `yaml:"presenceBucket"`

	// PresencePrefix is the key prefix inside the presence bucket.
	PresencePrefix string `yaml:"presencePrefix"`

	// PresenceInterval is the worker presence publish interval.
	PresenceInterval time.Duration `yaml:"presenceInterval"`
}

// setDefaults fills unset fields with the package defaults.
func (c *ExecutorConfig) setDefaults() {
	if c.Subject == "" {
		c.Subject = DefaultSubject
	}
	if c.QueueGroup == "" {
		c.QueueGroup = DefaultQueueGroup
	}
	if c.PresenceBucket == "" {
		c.PresenceBucket = DefaultPresenceBucket
	}
	if c.PresencePrefix == "" {
		c.PresencePrefix = DefaultPresencePrefix
	}
	if c.PresenceInterval <= 0 {
		c.PresenceInterval = DefaultPresenceInterval
	}
}

// NATSExecutor submits work items to remote workers over NATS request/reply
// and discovers the live worker count from a JetStream KV presence bucket.
//
// A Run call has no internal timeout and cannot be retried or cancelled once
// the request is in flight beyond what the passed context provides; a hung
// worker hangs the call. This matches the dispatch protocol's all-or-nothing
// contract.
type NATSExecutor struct {
	conn    *nats.Conn
	kv      jetstream.KeyValue
	cfg     ExecutorConfig
	logger  types.Logger
	metrics types.MetricsCollector
}

// Compile-time assertion that NATSExecutor implements Executor.
var _ Executor = (*NATSExecutor)(nil)

// ExecutorOption configures a NATSExecutor.
type ExecutorOption func(*NATSExecutor)

// WithExecutorLogger sets the executor's logger.
func WithExecutorLogger(l types.Logger) ExecutorOption {
	return func(e *NATSExecutor) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithExecutorMetrics sets the executor's metrics collector.
func WithExecutorMetrics(m types.MetricsCollector) ExecutorOption {
	return func(e *NATSExecutor) {
		if m != nil {
			e.metrics = m
		}
	}
}

// NewNATSExecutor creates an executor bound to the given NATS connection.
//
// The presence bucket is created if it does not exist, with a TTL of 3x the
// presence interval so crashed workers age out of the count.
//
// Parameters:
//   - ctx: Context for bucket creation
//   - conn: NATS connection (must be non-nil)
//   - cfg: Executor configuration (zero value selects all defaults)
//   - opts: Optional logger and metrics
//
// Returns:
//   - *NATSExecutor: Initialized executor
//   - error: Connection or bucket creation failure
func NewNATSExecutor(ctx context.Context, conn *nats.Conn, cfg ExecutorConfig, opts ...ExecutorOption) (*NATSExecutor, error) {
	if conn == nil {
		return nil, errors.New("NATS connection is required")
	}
	cfg.setDefaults()

	js, err := jetstream.New(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	kv, err := kvutil.EnsureBucket(ctx, js, jetstream.KeyValueConfig{
		Bucket: cfg.PresenceBucket,
		TTL:    3 * cfg.PresenceInterval,
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure presence bucket: %w", err)
	}

	e := &NATSExecutor{
		conn:    conn,
		kv:      kv,
		cfg:     cfg,
		logger:  logger.NewNop(),
		metrics: metrics.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Run submits the item as a NATS request and blocks until a worker replies.
func (e *NATSExecutor) Run(ctx context.Context, item types.WorkItem) (types.Result, error) {
	payload, err := json.Marshal(taskRequest{Item: item})
	if err != nil {
		return types.Result{}, fmt.Errorf("failed to encode work item %s: %w", item.ID, err)
	}

	e.logger.Debug("submitting work item", "item_id", item.ID, "rows", item.Chunk.Len())

	msg, err := e.conn.RequestWithContext(ctx, e.cfg.Subject, payload)
	if err != nil {
		return types.Result{}, fmt.Errorf("request for item %s failed: %w", item.ID, err)
	}

	var resp taskResponse
	if err := json.Unmarshal(msg.Data, &resp); err != nil {
		return types.Result{}, fmt.Errorf("failed to decode reply for item %s: %w", item.ID, err)
	}
	if resp.Error != "" {
		return types.Result{}, fmt.Errorf("worker reported failure: %s", resp.Error)
	}

	return types.Result{ItemID: item.ID, Path: resp.Path}, nil
}

// WorkerCount counts live presence keys in the KV bucket.
//
// Returns:
//   - int: Number of registered workers (0 if the bucket is empty)
//   - error: KV access failure
func (e *NATSExecutor) WorkerCount(ctx context.Context) (int, error) {
	keys, err := e.kv.Keys(ctx)
	if err != nil {
		if isNoKeysFound(err) {
			return 0, nil
		}

		return 0, fmt.Errorf("failed to list presence keys: %w", err)
	}

	count := 0
	prefix := e.cfg.PresencePrefix + "."
	for _, key := range keys {
		if strings.HasPrefix(key, prefix) {
			count++
		}
	}
	e.metrics.RecordWorkerCount(count)

	return count, nil
}

// isNoKeysFound reports whether err indicates an empty KV bucket. The NATS
// client surfaces this as a plain message rather than a sentinel in some
// paths, so the string is matched as well.
func isNoKeysFound(err error) bool {
	if errors.Is(err, jetstream.ErrNoKeysFound) {
		return true
	}

	return err != nil && strings.Contains(err.Error(), "no keys found")
}
