package dispatch

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anawas/Karabo-Pipeline/internal/logger"
	karabotest "github.com/anawas/Karabo-Pipeline/testing"
	"github.com/anawas/Karabo-Pipeline/types"
)

// fastFabric returns a fabric config with short presence timings for tests.
func fastFabric() ExecutorConfig {
	return ExecutorConfig{
		PresenceInterval: 100 * time.Millisecond,
	}
}

func echoSimulator() types.Simulator {
	return types.SimulatorFunc(func(_ context.Context, settings types.SettingsTree, _ []types.Source, _ string) (string, error) {
		v, ok := settings.Get("interferometer", "ms_filename")
		if !ok {
			return "", errors.New("no output path configured")
		}
		return v.(string), nil
	})
}

func TestNATSExecutor(t *testing.T) {
	t.Run("nil connection", func(t *testing.T) {
		_, err := NewNATSExecutor(t.Context(), nil, ExecutorConfig{})
		require.Error(t, err)
	})

	t.Run("round trip through worker", func(t *testing.T) {
		_, nc := karabotest.StartEmbeddedNATS(t)
		ctx := t.Context()
		cfg := fastFabric()

		worker, err := NewWorker(nc, echoSimulator(), cfg,
			WithWorkerName("w1"), WithWorkerLogger(logger.NewTest(t)))
		require.NoError(t, err)
		require.NoError(t, worker.Start(ctx))
		t.Cleanup(func() { _ = worker.Stop() })

		exec, err := NewNATSExecutor(ctx, nc, cfg, WithExecutorLogger(logger.NewTest(t)))
		require.NoError(t, err)

		items := makeItems(4)
		d, err := NewDispatcher(exec)
		require.NoError(t, err)

		results, err := d.Dispatch(ctx, items)
		require.NoError(t, err)
		require.Len(t, results, 4)
		for i, res := range results {
			require.Equal(t, items[i].ID, res.ItemID)
			require.NotEmpty(t, res.Path)
		}
	})

	t.Run("worker failure surfaces in dispatch error", func(t *testing.T) {
		_, nc := karabotest.StartEmbeddedNATS(t)
		ctx := t.Context()
		cfg := fastFabric()

		failing := types.SimulatorFunc(func(context.Context, types.SettingsTree, []types.Source, string) (string, error) {
			return "", errors.New("out of device memory")
		})

		worker, err := NewWorker(nc, failing, cfg)
		require.NoError(t, err)
		require.NoError(t, worker.Start(ctx))
		t.Cleanup(func() { _ = worker.Stop() })

		exec, err := NewNATSExecutor(ctx, nc, cfg)
		require.NoError(t, err)

		_, err = exec.Run(ctx, makeItems(1)[0])
		require.Error(t, err)
		require.Contains(t, err.Error(), "out of device memory")
	})

	t.Run("worker count follows presence", func(t *testing.T) {
		_, nc := karabotest.StartEmbeddedNATS(t)
		ctx := t.Context()
		cfg := fastFabric()

		exec, err := NewNATSExecutor(ctx, nc, cfg)
		require.NoError(t, err)

		count, err := exec.WorkerCount(ctx)
		require.NoError(t, err)
		require.Zero(t, count)

		w1, err := NewWorker(nc, echoSimulator(), cfg, WithWorkerName("w1"))
		require.NoError(t, err)
		require.NoError(t, w1.Start(ctx))

		w2, err := NewWorker(nc, echoSimulator(), cfg, WithWorkerName("w2"))
		require.NoError(t, err)
		require.NoError(t, w2.Start(ctx))

		require.Eventually(t, func() bool {
			count, err := exec.WorkerCount(ctx)
			return err == nil && count == 2
		}, 2*time.Second, 50*time.Millisecond)

		// A stopped worker withdraws its presence immediately.
		require.NoError(t, w2.Stop())
		require.Eventually(t, func() bool {
			count, err := exec.WorkerCount(ctx)
			return err == nil && count == 1
		}, 2*time.Second, 50*time.Millisecond)

		require.NoError(t, w1.Stop())
	})

	t.Run("no worker means request times out", func(t *testing.T) {
		_, nc := karabotest.StartEmbeddedNATS(t)
		cfg := fastFabric()

		exec, err := NewNATSExecutor(t.Context(), nc, cfg)
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(t.Context(), 200*time.Millisecond)
		defer cancel()

		_, err = exec.Run(ctx, makeItems(1)[0])
		require.Error(t, err)
	})
}

func TestWorkerLifecycle(t *testing.T) {
	t.Run("nil connection", func(t *testing.T) {
		_, err := NewWorker(nil, echoSimulator(), ExecutorConfig{})
		require.Error(t, err)
	})

	t.Run("nil simulator", func(t *testing.T) {
		_, nc := karabotest.StartEmbeddedNATS(t)
		_, err := NewWorker(nc, nil, ExecutorConfig{})
		require.ErrorIs(t, err, types.ErrSimulatorRequired)
	})

	t.Run("default name", func(t *testing.T) {
		_, nc := karabotest.StartEmbeddedNATS(t)
		w, err := NewWorker(nc, echoSimulator(), ExecutorConfig{})
		require.NoError(t, err)
		require.NotEmpty(t, w.Name())
	})

	t.Run("double start and stop", func(t *testing.T) {
		_, nc := karabotest.StartEmbeddedNATS(t)
		ctx := t.Context()

		w, err := NewWorker(nc, echoSimulator(), fastFabric())
		require.NoError(t, err)

		require.NoError(t, w.Start(ctx))
		require.Error(t, w.Start(ctx))

		require.NoError(t, w.Stop())
		require.Error(t, w.Stop())
	})

	t.Run("queue group delivers each task once", func(t *testing.T) {
		_, nc := karabotest.StartEmbeddedNATS(t)
		ctx := t.Context()
		cfg := fastFabric()

		for _, name := range []string{"w1", "w2", "w3"} {
			w, err := NewWorker(nc, echoSimulator(), cfg, WithWorkerName(name))
			require.NoError(t, err)
			require.NoError(t, w.Start(ctx))
			t.Cleanup(func() { _ = w.Stop() })
		}

		exec, err := NewNATSExecutor(ctx, nc, cfg)
		require.NoError(t, err)
		d, err := NewDispatcher(exec)
		require.NoError(t, err)

		items := makeItems(9)
		results, err := d.Dispatch(ctx, items)
		require.NoError(t, err)
		require.Len(t, results, 9)
	})
}
