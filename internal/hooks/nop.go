// Package hooks provides the default no-op campaign hooks.
package hooks

import (
	"context"
	"time"

	"github.com/anawas/Karabo-Pipeline/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the campaign loop.
type NopHooks struct{}

// NewNop creates a new no-op hooks implementation.
//
// Returns:
//   - types.Hooks: Hooks with no-op implementations
func NewNop() types.Hooks {
	h := &NopHooks{}

	return types.Hooks{
		OnDayStart:    h.OnDayStart,
		OnDayComplete: h.OnDayComplete,
		OnError:       h.OnError,
	}
}

// OnDayStart is a no-op implementation.
func (h *NopHooks) OnDayStart(_ context.Context, _ int, _ time.Time) error {
	return nil
}

// OnDayComplete is a no-op implementation.
func (h *NopHooks) OnDayComplete(_ context.Context, _ int, _ string) error {
	return nil
}

// OnError is a no-op implementation.
func (h *NopHooks) OnError(_ context.Context, _ int, _ error) error {
	return nil
}
