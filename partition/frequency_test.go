package partition

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anawas/Karabo-Pipeline/internal/logger"
	"github.com/anawas/Karabo-Pipeline/types"
)

// uniformSky builds rows*perRank sources whose frequencies cover the ranks
// 1..ranks uniformly, in shuffled-ish (descending) input order so tests also
// cover the sorting step.
func uniformSky(ranks, perRank int) *types.SourceCollection {
	col := types.NewSourceCollection()
	for r := ranks; r >= 1; r-- {
		for i := 0; i < perRank; i++ {
			col.Append(types.Source{RefFreqHz: float64(r) * 100e6, StokesI: 1})
		}
	}

	return col
}

func TestFrequencySplitter_Split(t *testing.T) {
	t.Run("splits 10 ranks across 4 workers per the spacing formula", func(t *testing.T) {
		col := uniformSky(10, 10)
		splitter := NewFrequencySplitter()

		chunks, err := splitter.Split(col, types.ResourceBudget{Workers: 4}, nil)

		require.NoError(t, err)
		require.Len(t, chunks, 4)

		// spacing = ceil(10/4) = 3 -> rank windows [1,3), [3,6), [6,9), [9,10].
		require.Equal(t, 20, chunks[0].Len())
		require.Equal(t, 30, chunks[1].Len())
		require.Equal(t, 30, chunks[2].Len())
		require.Equal(t, 20, chunks[3].Len())

		require.Equal(t, 1, chunks[0].MinRank)
		require.Equal(t, 2, chunks[0].MaxRank)
		require.Equal(t, 3, chunks[1].MinRank)
		require.Equal(t, 5, chunks[1].MaxRank)
		require.Equal(t, 6, chunks[2].MinRank)
		require.Equal(t, 8, chunks[2].MaxRank)
		require.Equal(t, 9, chunks[3].MinRank)
		require.Equal(t, 10, chunks[3].MaxRank)
	})

	t.Run("chunks are contiguous and in rank order", func(t *testing.T) {
		col := uniformSky(7, 3)
		splitter := NewFrequencySplitter()

		chunks, err := splitter.Split(col, types.ResourceBudget{Workers: 3}, nil)
		require.NoError(t, err)

		total := 0
		prevFreq := 0.0
		for _, ch := range chunks {
			require.False(t, ch.IsEmpty())
			for _, s := range ch.Sources {
				require.GreaterOrEqual(t, s.RefFreqHz, prevFreq)
				prevFreq = s.RefFreqHz
			}
			total += ch.Len()
		}
		require.Equal(t, col.Len(), total)
	})

	t.Run("single distinct rank collapses to one chunk", func(t *testing.T) {
		col := types.NewSourceCollection()
		for i := 0; i < 50; i++ {
			col.Append(types.Source{RefFreqHz: 100e6})
		}
		splitter := NewFrequencySplitter()

		chunks, err := splitter.Split(col, types.ResourceBudget{Workers: 8}, nil)

		require.NoError(t, err)
		require.Len(t, chunks, 1)
		require.Equal(t, 50, chunks[0].Len())
	})

	t.Run("worker count above distinct rank count drops empty chunks", func(t *testing.T) {
		col := uniformSky(3, 2)
		splitter := NewFrequencySplitter()

		chunks, err := splitter.Split(col, types.ResourceBudget{Workers: 10}, nil)

		require.NoError(t, err)
		require.LessOrEqual(t, len(chunks), 3)
		total := 0
		for _, ch := range chunks {
			require.False(t, ch.IsEmpty())
			total += ch.Len()
		}
		require.Equal(t, 6, total)
	})

	t.Run("single worker yields one chunk with the whole collection", func(t *testing.T) {
		col := uniformSky(10, 10)
		splitter := NewFrequencySplitter()

		chunks, err := splitter.Split(col, types.ResourceBudget{Workers: 1}, nil)

		require.NoError(t, err)
		require.Len(t, chunks, 1)
		require.Equal(t, 100, chunks[0].Len())
	})

	t.Run("single worker with unsatisfiable budget is a resource error", func(t *testing.T) {
		col := uniformSky(10, 10)
		splitter := NewFrequencySplitter()
		budget := types.ResourceBudget{Workers: 1, PerWorkerMemoryBytes: float64(types.SourceNumBytes)}

		_, err := splitter.Split(col, budget, nil)

		require.ErrorIs(t, err, types.ErrBudgetUnsatisfiable)
	})

	t.Run("rejects an invalid budget", func(t *testing.T) {
		col := uniformSky(2, 2)
		splitter := NewFrequencySplitter()

		_, err := splitter.Split(col, types.ResourceBudget{Workers: 0}, nil)
		require.ErrorIs(t, err, types.ErrInvalidBudget)
	})

	t.Run("rejects an empty collection", func(t *testing.T) {
		splitter := NewFrequencySplitter()

		_, err := splitter.Split(types.NewSourceCollection(), types.ResourceBudget{Workers: 2}, nil)
		require.ErrorIs(t, err, types.ErrEmptyCollection)
	})
}

func TestFrequencySplitter_BudgetEscalation(t *testing.T) {
	t.Run("escalates until the first chunk fits the ceiling", func(t *testing.T) {
		col := uniformSky(16, 10) // 160 rows
		splitter := NewFrequencySplitter(WithLogger(logger.NewTest(t)))

		// Ceiling of 30 rows: the initial 2-way split (80 rows each) must
		// escalate until the first chunk holds at most 30 rows.
		budget := types.ResourceBudget{
			Workers:              2,
			PerWorkerMemoryBytes: 30 * float64(types.SourceNumBytes),
		}

		chunks, err := splitter.Split(col, budget, nil)

		require.NoError(t, err)
		require.Greater(t, len(chunks), 2)
		require.LessOrEqual(t, chunks[0].NumBytes(), int64(budget.PerWorkerMemoryBytes))

		total := 0
		for _, ch := range chunks {
			total += ch.Len()
		}
		require.Equal(t, 160, total)
	})

	t.Run("only the first chunk is guaranteed to fit", func(t *testing.T) {
		// Rank 1 has a single row, rank 2 carries the bulk: the first chunk
		// fits trivially while later chunks may exceed the ceiling. This is
		// the documented heuristic, not a bug.
		col := types.NewSourceCollection(types.Source{RefFreqHz: 1e6})
		for i := 0; i < 100; i++ {
			col.Append(types.Source{RefFreqHz: 2e6})
		}
		splitter := NewFrequencySplitter()
		budget := types.ResourceBudget{
			Workers:              2,
			PerWorkerMemoryBytes: 10 * float64(types.SourceNumBytes),
		}

		chunks, err := splitter.Split(col, budget, nil)

		require.NoError(t, err)
		require.LessOrEqual(t, chunks[0].NumBytes(), int64(budget.PerWorkerMemoryBytes))
	})

	t.Run("fails with a resource error when escalation is exhausted", func(t *testing.T) {
		// A single rank holding every row cannot be subdivided, so any
		// ceiling below the collection size is unsatisfiable.
		col := types.NewSourceCollection()
		for i := 0; i < 64; i++ {
			col.Append(types.Source{RefFreqHz: 5e6})
		}
		splitter := NewFrequencySplitter(WithMaxEscalations(4))
		budget := types.ResourceBudget{
			Workers:              2,
			PerWorkerMemoryBytes: float64(types.SourceNumBytes),
		}

		_, err := splitter.Split(col, budget, nil)

		require.ErrorIs(t, err, types.ErrBudgetUnsatisfiable)
	})
}

func TestFrequencySplitter_ExplicitGroups(t *testing.T) {
	t.Run("explicit groups pass through verbatim", func(t *testing.T) {
		col := types.NewSourceCollection(
			types.Source{ID: "a", RefFreqHz: 3e6},
			types.Source{ID: "b", RefFreqHz: 1e6},
			types.Source{ID: "c", RefFreqHz: 2e6},
		)
		splitter := NewFrequencySplitter()
		groups := [][]int{{0, 2}, {1}}

		chunks, err := splitter.Split(col, types.ResourceBudget{Workers: 2}, groups)

		require.NoError(t, err)
		require.Len(t, chunks, 2)
		require.Equal(t, "a", chunks[0].Sources[0].ID)
		require.Equal(t, "c", chunks[0].Sources[1].ID)
		require.Equal(t, "b", chunks[1].Sources[0].ID)
	})

	t.Run("rejects out-of-range indices", func(t *testing.T) {
		col := types.NewSourceCollection(types.Source{RefFreqHz: 1e6})
		splitter := NewFrequencySplitter()

		_, err := splitter.Split(col, types.ResourceBudget{Workers: 1}, [][]int{{0, 5}})
		require.ErrorIs(t, err, types.ErrConflictingSplitGroups)
	})
}
