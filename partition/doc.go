// Package partition splits a sky-source collection into per-worker chunks.
//
// The frequency splitter orders sources by their reference frequency,
// computes dense ranks (ties share a rank), and cuts the sorted collection
// at evenly spaced rank boundaries, one chunk per worker. When a per-worker
// memory ceiling is configured, the split count escalates until the first
// chunk fits the ceiling.
//
// Splitting is deterministic: the same collection and budget always produce
// the same chunks.
package partition
