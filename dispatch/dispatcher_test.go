package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anawas/Karabo-Pipeline/types"
)

// fakeExecutor runs items with configurable per-item delay and failure.
type fakeExecutor struct {
	delay   func(item types.WorkItem) time.Duration
	fail    func(item types.WorkItem) error
	workers int
	calls   atomic.Int64
}

func (f *fakeExecutor) Run(ctx context.Context, item types.WorkItem) (types.Result, error) {
	f.calls.Add(1)

	if f.delay != nil {
		select {
		case <-time.After(f.delay(item)):
		case <-ctx.Done():
			return types.Result{}, ctx.Err()
		}
	}
	if f.fail != nil {
		if err := f.fail(item); err != nil {
			return types.Result{}, err
		}
	}

	return types.Result{ItemID: item.ID, Path: "/out/" + item.ID + ".vis"}, nil
}

func (f *fakeExecutor) WorkerCount(_ context.Context) (int, error) {
	if f.workers == 0 {
		return 1, nil
	}

	return f.workers, nil
}

func makeItems(n int) []types.WorkItem {
	items := make([]types.WorkItem, n)
	for i := range items {
		settings := types.NewSettingsTree()
		settings.Set("interferometer", "ms_filename", fmt.Sprintf("/out/item%d.vis", i))
		items[i] = types.NewWorkItem(1, types.Chunk{MinRank: i + 1, MaxRank: i + 1}, settings, "double")
	}

	return items
}

func TestNewDispatcher(t *testing.T) {
	t.Run("nil executor", func(t *testing.T) {
		_, err := NewDispatcher(nil)
		require.ErrorIs(t, err, types.ErrExecutorRequired)
	})

	t.Run("valid", func(t *testing.T) {
		d, err := NewDispatcher(&fakeExecutor{})
		require.NoError(t, err)
		require.NotNil(t, d)
	})
}

func TestDispatch(t *testing.T) {
	t.Run("empty items", func(t *testing.T) {
		d, err := NewDispatcher(&fakeExecutor{})
		require.NoError(t, err)

		results, err := d.Dispatch(t.Context(), nil)
		require.NoError(t, err)
		require.Empty(t, results)
	})

	t.Run("results preserve submission order under random timing", func(t *testing.T) {
		// Stagger completion so later items routinely finish first.
		exec := &fakeExecutor{
			delay: func(item types.WorkItem) time.Duration {
				return time.Duration(item.Chunk.MinRank*13%20) * time.Millisecond
			},
		}
		d, err := NewDispatcher(exec)
		require.NoError(t, err)

		items := makeItems(16)
		results, err := d.Dispatch(t.Context(), items)
		require.NoError(t, err)
		require.Len(t, results, len(items))

		for i, res := range results {
			require.Equal(t, items[i].ID, res.ItemID)
			require.Equal(t, "/out/"+items[i].ID+".vis", res.Path)
		}
	})

	t.Run("first failure aborts with item identity", func(t *testing.T) {
		boom := errors.New("out of device memory")
		items := makeItems(8)
		exec := &fakeExecutor{
			fail: func(item types.WorkItem) error {
				if item.ID == items[3].ID {
					return boom
				}
				return nil
			},
		}
		d, err := NewDispatcher(exec)
		require.NoError(t, err)

		results, err := d.Dispatch(t.Context(), items)
		require.Nil(t, results)
		require.Error(t, err)

		var derr *types.DispatchError
		require.ErrorAs(t, err, &derr)
		require.Equal(t, items[3].ID, derr.ItemID)
		require.ErrorIs(t, err, boom)
	})

	t.Run("siblings are not cancelled on failure", func(t *testing.T) {
		items := makeItems(6)
		exec := &fakeExecutor{
			fail: func(item types.WorkItem) error {
				if item.ID == items[0].ID {
					return errors.New("fast failure")
				}
				return nil
			},
			delay: func(item types.WorkItem) time.Duration {
				if item.ID == items[0].ID {
					return 0
				}
				return 5 * time.Millisecond
			},
		}
		d, err := NewDispatcher(exec)
		require.NoError(t, err)

		_, err = d.Dispatch(t.Context(), items)
		require.Error(t, err)

		// Stragglers run to completion against the buffered channel.
		require.Eventually(t, func() bool {
			return exec.calls.Load() == int64(len(items))
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("single item", func(t *testing.T) {
		d, err := NewDispatcher(&fakeExecutor{})
		require.NoError(t, err)

		items := makeItems(1)
		results, err := d.Dispatch(t.Context(), items)
		require.NoError(t, err)
		require.Len(t, results, 1)
		require.Equal(t, items[0].ID, results[0].ItemID)
	})
}

func TestLocalExecutor(t *testing.T) {
	t.Run("nil simulator", func(t *testing.T) {
		_, err := NewLocal(nil)
		require.ErrorIs(t, err, types.ErrSimulatorRequired)
	})

	t.Run("runs simulator synchronously", func(t *testing.T) {
		sim := types.SimulatorFunc(func(_ context.Context, settings types.SettingsTree, sources []types.Source, precision string) (string, error) {
			require.Equal(t, "double", precision)
			v, _ := settings.Get("interferometer", "ms_filename")
			return v.(string), nil
		})

		local, err := NewLocal(sim)
		require.NoError(t, err)

		workers, err := local.WorkerCount(t.Context())
		require.NoError(t, err)
		require.Equal(t, 1, workers)

		items := makeItems(1)
		res, err := local.Run(t.Context(), items[0])
		require.NoError(t, err)
		require.Equal(t, items[0].ID, res.ItemID)
		require.Equal(t, "/out/item0.vis", res.Path)
	})

	t.Run("propagates simulator error", func(t *testing.T) {
		boom := errors.New("engine crash")
		sim := types.SimulatorFunc(func(context.Context, types.SettingsTree, []types.Source, string) (string, error) {
			return "", boom
		})

		local, err := NewLocal(sim)
		require.NoError(t, err)

		_, err = local.Run(t.Context(), makeItems(1)[0])
		require.ErrorIs(t, err, boom)
	})
}
