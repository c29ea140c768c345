package types

// Chunk is a contiguous sub-sequence of a rank-sorted source collection
// assigned to one worker.
//
// Chunks produced by a splitter partition the full collection: every source
// belongs to exactly one chunk, chunks are pairwise disjoint, and their
// union in rank order reconstructs the sorted collection exactly.
type Chunk struct {
	// Sources are the rows belonging to this chunk, in rank order.
	Sources []Source `json:"sources"`

	// MinRank is the dense rank of the first row (1-based).
	MinRank int `json:"min_rank"`

	// MaxRank is the dense rank of the last row (1-based, inclusive).
	MaxRank int `json:"max_rank"`
}

// Len returns the number of sources in the chunk.
func (ch Chunk) Len() int {
	return len(ch.Sources)
}

// IsEmpty reports whether the chunk contains no sources.
//
// Empty chunks can appear when the worker count exceeds the number of
// distinct rank values; they are dropped before dispatch.
func (ch Chunk) IsEmpty() bool {
	return len(ch.Sources) == 0
}

// NumBytes returns the memory footprint of the chunk's numeric columns.
// This is the value compared against ResourceBudget.PerWorkerMemoryBytes
// during budget escalation.
func (ch Chunk) NumBytes() int64 {
	return int64(len(ch.Sources)) * SourceNumBytes
}
