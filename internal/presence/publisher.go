// Package presence announces simulation-worker liveness through NATS KV.
//
// Each worker periodically writes a timestamp under "{prefix}.{workerID}" in
// a TTL'd JetStream KV bucket. The executor counts live keys to discover how
// many workers are available before partitioning. A crashed worker stops
// publishing and its key expires after the bucket TTL (typically 3x the
// publish interval), removing it from the count.
package presence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/anawas/Karabo-Pipeline/types"
)

// Errors returned by the presence publisher.
var (
	ErrNotStarted     = errors.New("publisher not started")
	ErrAlreadyStarted = errors.New("publisher already started")
	ErrNoWorkerID     = errors.New("worker ID not set")
)

// Publisher publishes periodic presence entries to a NATS KV bucket.
type Publisher struct {
	kv       jetstream.KeyValue
	prefix   string
	workerID string
	interval time.Duration
	metrics  types.MetricsCollector

	mu      sync.Mutex
	started bool
	stopCh  chan struct{}
	doneCh  chan struct{}
	ticker  *time.Ticker
}

// New creates a presence publisher.
//
// The KV bucket should be configured with a TTL of ~3x the publish interval
// so workers disappear from the registry after three missed publishes.
//
// Parameters:
//   - kv: JetStream KV bucket holding presence entries
//   - prefix: Key prefix (e.g. "sim-worker")
//   - interval: Publish interval (typically 2s)
//
// Returns:
//   - *Publisher: New presence publisher
func New(kv jetstream.KeyValue, prefix string, interval time.Duration) *Publisher {
	return &Publisher{
		kv:       kv,
		prefix:   prefix,
		interval: interval,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// SetWorkerID sets the worker ID used in the presence key. Must be called
// before Start.
func (p *Publisher) SetWorkerID(workerID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.workerID = workerID
}

// SetMetrics sets the metrics collector for publish outcomes. Optional.
func (p *Publisher) SetMetrics(metrics types.MetricsCollector) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.metrics = metrics
}

// WorkerID returns the configured worker ID.
func (p *Publisher) WorkerID() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.workerID
}

// Start publishes the first presence entry immediately and keeps republishing
// in the background until Stop is called.
//
// Returns:
//   - error: ErrAlreadyStarted if running, ErrNoWorkerID if the ID is unset,
//     or the initial publish failure
func (p *Publisher) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrAlreadyStarted
	}
	if p.workerID == "" {
		return ErrNoWorkerID
	}

	p.started = true
	p.ticker = time.NewTicker(p.interval)

	if err := p.publish(ctx); err != nil {
		p.started = false
		p.ticker.Stop()

		return fmt.Errorf("failed to publish initial presence: %w", err)
	}

	go p.publishLoop()

	return nil
}

// Stop halts publishing and deletes the presence entry so the worker
// disappears from the registry immediately instead of waiting for the TTL.
//
// Returns:
//   - error: ErrNotStarted if not running, or the cleanup delete failure
func (p *Publisher) Stop() error {
	p.mu.Lock()

	if !p.started {
		p.mu.Unlock()
		return ErrNotStarted
	}

	p.ticker.Stop()
	close(p.stopCh)
	p.started = false

	p.mu.Unlock()

	<-p.doneCh

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := p.kv.Delete(ctx, p.key()); err != nil {
		return fmt.Errorf("stopped but failed to delete presence entry: %w", err)
	}

	return nil
}

// publishLoop republishes on every tick until stopped.
func (p *Publisher) publishLoop() {
	defer close(p.doneCh)

	for {
		select {
		case <-p.stopCh:
			return
		case <-p.ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := p.publish(ctx)
			cancel()
			p.recordMetric(err == nil)
		}
	}
}

// publish writes the presence entry to the KV bucket.
func (p *Publisher) publish(ctx context.Context) error {
	value := []byte(time.Now().Format(time.RFC3339Nano))
	if _, err := p.kv.Put(ctx, p.key(), value); err != nil {
		return fmt.Errorf("failed to publish presence for %s: %w", p.workerID, err)
	}

	return nil
}

// key returns the presence key for the configured worker.
func (p *Publisher) key() string {
	return fmt.Sprintf("%s.%s", p.prefix, p.workerID)
}

func (p *Publisher) recordMetric(success bool) {
	p.mu.Lock()
	metrics := p.metrics
	workerID := p.workerID
	p.mu.Unlock()

	if metrics != nil {
		metrics.RecordHeartbeat(workerID, success)
	}
}
