package types

// ResourceBudget describes the compute resources available to one dispatch
// call: the number of remote workers and an optional per-worker memory
// ceiling.
//
// A budget is immutable once constructed for a dispatch call. The memory
// ceiling is an advisory heuristic evaluated locally before dispatch; the
// remote workers do not enforce it themselves.
type ResourceBudget struct {
	// Workers is the number of available workers. Must be >= 1.
	Workers int `json:"workers" yaml:"workers"`

	// PerWorkerMemoryBytes is the optional per-worker memory ceiling in
	// bytes. Zero means no ceiling is configured and no budget escalation
	// takes place.
	PerWorkerMemoryBytes float64 `json:"perWorkerMemoryBytes" yaml:"perWorkerMemoryBytes"`
}

// HasMemoryLimit reports whether a per-worker memory ceiling is configured.
func (b ResourceBudget) HasMemoryLimit() bool {
	return b.PerWorkerMemoryBytes > 0
}

// Validate checks the budget for internal consistency.
//
// Returns:
//   - error: ErrInvalidBudget if Workers < 1 or the memory ceiling is negative
func (b ResourceBudget) Validate() error {
	if b.Workers < 1 {
		return ErrInvalidBudget
	}
	if b.PerWorkerMemoryBytes < 0 {
		return ErrInvalidBudget
	}

	return nil
}
