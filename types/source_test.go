package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSourceCollection_Clone(t *testing.T) {
	t.Run("clone is independent of the original", func(t *testing.T) {
		base := NewSourceCollection(
			Source{RADeg: 10, StokesI: 1, RefFreqHz: 100e6},
			Source{RADeg: 20, StokesI: 2, RefFreqHz: 200e6},
		)

		cloned := base.Clone()
		cloned.Sources()[0].RADeg = 99
		cloned.Append(Source{RADeg: 30})

		require.Equal(t, 2, base.Len())
		require.Equal(t, float64(10), base.At(0).RADeg)
		require.Equal(t, 3, cloned.Len())
	})

	t.Run("constructor copies the input slice", func(t *testing.T) {
		rows := []Source{{RefFreqHz: 1}, {RefFreqHz: 2}}
		c := NewSourceCollection(rows...)
		rows[0].RefFreqHz = 42

		require.Equal(t, float64(1), c.At(0).RefFreqHz)
	})
}

func TestSourceCollection_SortByRefFreq(t *testing.T) {
	t.Run("sorts ascending and is stable for ties", func(t *testing.T) {
		c := NewSourceCollection(
			Source{ID: "b", RefFreqHz: 200e6},
			Source{ID: "a1", RefFreqHz: 100e6},
			Source{ID: "a2", RefFreqHz: 100e6},
		)

		c.SortByRefFreq()

		require.Equal(t, "a1", c.At(0).ID)
		require.Equal(t, "a2", c.At(1).ID)
		require.Equal(t, "b", c.At(2).ID)
	})
}

func TestSourceCollection_Filters(t *testing.T) {
	t.Run("filter by flux keeps inclusive range", func(t *testing.T) {
		c := NewSourceCollection(
			Source{ID: "faint", StokesI: 0.1},
			Source{ID: "mid", StokesI: 1.0},
			Source{ID: "bright", StokesI: 10.0},
		)

		c.FilterByFlux(0.5, 5.0)

		require.Equal(t, 1, c.Len())
		require.Equal(t, "mid", c.At(0).ID)
	})

	t.Run("filter by radius keeps annulus around phase centre", func(t *testing.T) {
		c := NewSourceCollection(
			Source{ID: "centre", RADeg: 250, DecDeg: -80},
			Source{ID: "near", RADeg: 252, DecDeg: -80},
			Source{ID: "far", RADeg: 290, DecDeg: -80},
		)

		c.FilterByRadius(1, 45, 250, -80)

		require.Equal(t, 2, c.Len())
		require.Equal(t, "near", c.At(0).ID)
		require.Equal(t, "far", c.At(1).ID)
	})

	t.Run("filter by radius boundaries are inclusive", func(t *testing.T) {
		c := NewSourceCollection(
			Source{ID: "inner", RADeg: 251, DecDeg: -80},
			Source{ID: "outer", RADeg: 255, DecDeg: -80},
			Source{ID: "inside", RADeg: 250.5, DecDeg: -80},
		)

		c.FilterByRadius(1, 5, 250, -80)

		require.Equal(t, 2, c.Len())
		require.Equal(t, "inner", c.At(0).ID)
		require.Equal(t, "outer", c.At(1).ID)
	})
}

func TestSourceCollection_NumBytes(t *testing.T) {
	c := NewSourceCollection(make([]Source, 100)...)

	require.Equal(t, int64(100*SourceNumBytes), c.NumBytes())
}
