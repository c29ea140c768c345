package sky

import (
	"context"
	"sync"

	"github.com/anawas/Karabo-Pipeline/types"
)

// Provider supplies the point-source catalog a campaign simulates.
//
// Sources must return an independent collection on every call: callers are
// free to sort and filter the result without affecting the provider.
type Provider interface {
	Sources(ctx context.Context) (*types.SourceCollection, error)
}

// Static implements a catalog provider with a fixed source collection.
type Static struct {
	mu      sync.RWMutex
	catalog *types.SourceCollection
}

var _ Provider = (*Static)(nil)

// NewStatic creates a new static catalog provider.
//
// The provider returns a copy of a fixed catalog that never changes.
// Useful for testing and scenarios where the sky is known at startup.
//
// Parameters:
//   - catalog: Fixed source collection (nil is treated as empty)
//
// Returns:
//   - *Static: Initialized static provider
//
// Example:
//
//	catalog := types.NewSourceCollection()
//	catalog.Append(types.Source{RADeg: 20.0, DecDeg: -30.0, StokesI: 1.0, RefFreqHz: 100e6})
//	provider := sky.NewStatic(catalog)
func NewStatic(catalog *types.SourceCollection) *Static {
	if catalog == nil {
		catalog = types.NewSourceCollection()
	}

	return &Static{catalog: catalog}
}

// Sources returns a deep copy of the static catalog.
//
// Returns:
//   - *types.SourceCollection: Independent copy of the catalog
//   - error: Always nil (never fails)
func (s *Static) Sources(_ context.Context) (*types.SourceCollection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.catalog.Clone(), nil
}

// Update replaces the catalog.
//
// This allows the static provider to simulate catalog changes, which is
// useful for testing refresh scenarios.
//
// Parameters:
//   - catalog: New source collection
func (s *Static) Update(catalog *types.SourceCollection) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if catalog == nil {
		catalog = types.NewSourceCollection()
	}
	s.catalog = catalog.Clone()
}
