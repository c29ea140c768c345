package types

import (
	"fmt"

	"github.com/zeebo/xxh3"
)

// WorkItem is one immutable unit of dispatched work: a source chunk plus the
// merged settings tree describing its simulation run.
//
// A work item is owned exclusively by the dispatch call that created it and
// is never mutated after submission.
type WorkItem struct {
	// ID identifies the item in logs, metrics, and failure reports.
	ID string `json:"id"`

	// Chunk is the contiguous source slice simulated by this item.
	Chunk Chunk `json:"chunk"`

	// Settings is the merged settings tree for this run, including the
	// item's own output path.
	Settings SettingsTree `json:"settings"`

	// Precision selects the simulation arithmetic: "single" or "double".
	Precision string `json:"precision"`
}

// NewWorkItem builds a work item with a deterministic identity.
//
// The ID is an xxh3 hash of the day index, the chunk's rank boundaries and
// row count, and the output path, so the same partitioning of the same sky
// always produces the same item identities.
//
// Parameters:
//   - day: 1-based campaign day index (0 for single runs)
//   - chunk: Source chunk assigned to this item
//   - settings: Merged settings tree (must already carry the output path)
//   - precision: "single" or "double"
//
// Returns:
//   - WorkItem: Immutable work item
func NewWorkItem(day int, chunk Chunk, settings SettingsTree, precision string) WorkItem {
	outPath, _ := settings.Get("interferometer", "ms_filename")
	seed := fmt.Sprintf("%d|%d|%d|%d|%v", day, chunk.MinRank, chunk.MaxRank, chunk.Len(), outPath)

	return WorkItem{
		ID:        fmt.Sprintf("%016x", xxh3.HashString(seed)),
		Chunk:     chunk,
		Settings:  settings,
		Precision: precision,
	}
}

// Result is the opaque artifact handle returned by the simulation engine
// for one work item. It is created by the remote worker and owned by the
// caller after gather.
type Result struct {
	// ItemID is the ID of the work item that produced this result.
	ItemID string `json:"item_id"`

	// Path is the filesystem path of the visibility artifact.
	Path string `json:"path"`
}
