package sky

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anawas/Karabo-Pipeline/types"
)

func TestStatic(t *testing.T) {
	t.Run("returns independent copies", func(t *testing.T) {
		ctx := t.Context()
		catalog := types.NewSourceCollection(
			types.Source{RADeg: 20, DecDeg: -30, StokesI: 1, RefFreqHz: 100e6},
			types.Source{RADeg: 21, DecDeg: -31, StokesI: 2, RefFreqHz: 150e6},
		)
		provider := NewStatic(catalog)

		got, err := provider.Sources(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, got.Len())

		// Mutating the returned copy leaves the provider untouched.
		got.SortByRefFreq()
		got.FilterByFlux(1.5, 10)
		require.Equal(t, 1, got.Len())

		again, err := provider.Sources(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, again.Len())
	})

	t.Run("nil catalog is empty", func(t *testing.T) {
		provider := NewStatic(nil)

		got, err := provider.Sources(t.Context())
		require.NoError(t, err)
		require.Zero(t, got.Len())
	})

	t.Run("update replaces catalog", func(t *testing.T) {
		provider := NewStatic(types.NewSourceCollection(
			types.Source{RADeg: 1, StokesI: 1, RefFreqHz: 1e6},
		))

		provider.Update(types.NewSourceCollection(
			types.Source{RADeg: 2, StokesI: 2, RefFreqHz: 2e6},
			types.Source{RADeg: 3, StokesI: 3, RefFreqHz: 3e6},
		))

		got, err := provider.Sources(t.Context())
		require.NoError(t, err)
		require.Equal(t, 2, got.Len())
		require.Equal(t, 2e6, got.At(0).RefFreqHz)
	})
}
