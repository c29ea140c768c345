package partition

import (
	"fmt"
	"math"
	"sort"

	"github.com/anawas/Karabo-Pipeline/types"
)

// DefaultMaxEscalations bounds the budget escalation loop. Escalation
// normally converges within a handful of rounds; hitting the bound means the
// ceiling cannot be satisfied by subdividing further (for example when a
// single rank's rows already exceed it).
const DefaultMaxEscalations = 32

// Splitter partitions a source collection into chunks sized to a resource
// budget.
type Splitter interface {
	// Split partitions the collection under the given budget.
	//
	// Parameters:
	//   - col: Source collection; sorted by reference frequency in place
	//   - budget: Worker count and optional per-worker memory ceiling
	//   - explicit: Optional caller-supplied index groups used verbatim
	//     (nil selects automatic frequency splitting)
	//
	// Returns:
	//   - []types.Chunk: Non-empty chunks in rank order
	//   - error: Configuration or resource error (nil on success)
	Split(col *types.SourceCollection, budget types.ResourceBudget, explicit [][]int) ([]types.Chunk, error)
}

// FrequencySplitter splits a collection at dense-rank boundaries of the
// reference frequency.
type FrequencySplitter struct {
	maxEscalations int
	logger         types.Logger
	metrics        types.MetricsCollector
}

// Compile-time assertion that FrequencySplitter implements Splitter.
var _ Splitter = (*FrequencySplitter)(nil)

// Option configures a FrequencySplitter.
type Option func(*FrequencySplitter)

// WithMaxEscalations overrides the bound on budget escalation rounds.
func WithMaxEscalations(n int) Option {
	return func(s *FrequencySplitter) {
		if n > 0 {
			s.maxEscalations = n
		}
	}
}

// WithLogger sets the logger used for split diagnostics.
func WithLogger(logger types.Logger) Option {
	return func(s *FrequencySplitter) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the metrics collector for split observations.
func WithMetrics(metrics types.MetricsCollector) Option {
	return func(s *FrequencySplitter) {
		if metrics != nil {
			s.metrics = metrics
		}
	}
}

// NewFrequencySplitter creates a splitter with the default escalation bound.
//
// Returns:
//   - *FrequencySplitter: Initialized splitter
//
// Example:
//
//	splitter := partition.NewFrequencySplitter()
//	chunks, err := splitter.Split(sky, budget, nil)
func NewFrequencySplitter(opts ...Option) *FrequencySplitter {
	s := &FrequencySplitter{maxEscalations: DefaultMaxEscalations}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Split partitions the collection into per-worker chunks.
//
// When explicit index groups are supplied they are used verbatim, with no
// rebalancing: this is the escape hatch for callers with domain-specific
// grouping. Otherwise the collection is sorted by reference frequency
// (stable for ties), dense ranks are computed, and the collection is cut at
// rank boundaries spaced ceil(maxRank/N) apart.
//
// If the budget carries a memory ceiling, the byte size of the first chunk
// is checked against it and the split count N is increased by the rounded-up
// oversize ratio, recomputing the whole split from scratch, until the first
// chunk fits. Only the first chunk is checked; the bound is a heuristic, not
// a guarantee for every chunk. With a single worker there is nothing to
// escalate from, so an oversized collection fails with
// types.ErrBudgetUnsatisfiable instead.
func (s *FrequencySplitter) Split(col *types.SourceCollection, budget types.ResourceBudget, explicit [][]int) ([]types.Chunk, error) {
	if err := budget.Validate(); err != nil {
		return nil, err
	}
	if col == nil || col.Len() == 0 {
		return nil, types.ErrEmptyCollection
	}

	if explicit != nil {
		return s.explicitChunks(col, explicit)
	}

	col.SortByRefFreq()
	ranks := denseRanks(col)
	maxRank := ranks[len(ranks)-1]

	// Single worker: exactly one chunk, the whole collection. The budget
	// cannot be satisfied by escalation, so an oversized collection is a
	// resource error.
	if budget.Workers == 1 {
		whole := types.Chunk{Sources: col.Sources(), MinRank: 1, MaxRank: maxRank}
		if budget.HasMemoryLimit() && float64(whole.NumBytes()) > budget.PerWorkerMemoryBytes {
			return nil, fmt.Errorf("%w: collection of %d bytes exceeds per-worker ceiling of %.0f bytes at N=1",
				types.ErrBudgetUnsatisfiable, whole.NumBytes(), budget.PerWorkerMemoryBytes)
		}
		s.record([]types.Chunk{whole}, 0)

		return []types.Chunk{whole}, nil
	}

	n := budget.Workers
	escalations := 0

	for {
		chunks := splitAtRankBoundaries(col, ranks, maxRank, n)

		if !budget.HasMemoryLimit() {
			s.record(chunks, escalations)
			return chunks, nil
		}

		ratio := float64(chunks[0].NumBytes()) / budget.PerWorkerMemoryBytes
		if ratio <= 1 {
			s.record(chunks, escalations)
			return chunks, nil
		}

		escalations++
		if escalations > s.maxEscalations {
			return nil, fmt.Errorf("%w: first chunk still %.2fx over ceiling after %d escalations",
				types.ErrBudgetUnsatisfiable, ratio, s.maxEscalations)
		}

		n += int(math.Ceil(ratio))
		if s.logger != nil {
			s.logger.Debug("escalating split count", "n", n, "oversize_ratio", ratio, "round", escalations)
		}
	}
}

// explicitChunks converts caller-supplied index groups into chunks verbatim.
func (s *FrequencySplitter) explicitChunks(col *types.SourceCollection, groups [][]int) ([]types.Chunk, error) {
	chunks := make([]types.Chunk, 0, len(groups))
	for _, group := range groups {
		sources := make([]types.Source, 0, len(group))
		for _, idx := range group {
			if idx < 0 || idx >= col.Len() {
				return nil, fmt.Errorf("%w: explicit group index %d out of range [0,%d)",
					types.ErrConflictingSplitGroups, idx, col.Len())
			}
			sources = append(sources, col.At(idx))
		}
		if len(sources) == 0 {
			continue
		}
		chunks = append(chunks, types.Chunk{Sources: sources})
	}
	s.record(chunks, 0)

	return chunks, nil
}

// record reports split observations to the metrics collector.
func (s *FrequencySplitter) record(chunks []types.Chunk, escalations int) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordSplit(len(chunks), escalations)
	for _, ch := range chunks {
		s.metrics.RecordChunkBytes(float64(ch.NumBytes()))
	}
}

// denseRanks assigns 1-based dense ranks to the frequency-sorted collection.
// Ties share a rank; ranks increase by one at each distinct frequency.
func denseRanks(col *types.SourceCollection) []int {
	ranks := make([]int, col.Len())
	rank := 1
	ranks[0] = rank
	prev := col.At(0).RefFreqHz

	for i := 1; i < col.Len(); i++ {
		if col.At(i).RefFreqHz != prev {
			rank++
			prev = col.At(i).RefFreqHz
		}
		ranks[i] = rank
	}

	return ranks
}

// splitAtRankBoundaries cuts the sorted collection into up to n chunks at
// rank boundaries i*spacing, converting each rank boundary to the first row
// index whose rank equals or exceeds it. Empty chunks are dropped.
func splitAtRankBoundaries(col *types.SourceCollection, ranks []int, maxRank, n int) []types.Chunk {
	spacing := int(math.Ceil(float64(maxRank) / float64(n)))

	// Row-index boundaries for rank boundaries spacing, 2*spacing, ...
	// Boundaries beyond maxRank contribute no further cuts, which is how a
	// spacing larger than the remaining ranks yields fewer than n chunks.
	cuts := make([]int, 0, n-1)
	for i := 1; i < n; i++ {
		boundary := i * spacing
		if boundary > maxRank {
			break
		}
		idx := sort.SearchInts(ranks, boundary)
		cuts = append(cuts, idx)
	}

	sources := col.Sources()
	chunks := make([]types.Chunk, 0, len(cuts)+1)
	start := 0
	for _, cut := range append(cuts, len(sources)) {
		if cut <= start {
			start = cut
			continue
		}
		chunks = append(chunks, types.Chunk{
			Sources: sources[start:cut],
			MinRank: ranks[start],
			MaxRank: ranks[cut-1],
		})
		start = cut
	}

	return chunks
}
