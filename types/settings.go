package types

import (
	"fmt"
	"strings"
)

// Section is a single named settings section mapping keys to scalar values.
//
// Keys may contain slashes for nested engine options (e.g. "noise/enable").
// Values are strings except booleans and filesystem paths, which are passed
// verbatim; unknown keys are passed through to the engine without
// validation.
type Section map[string]any

// SettingsTree is the configuration handed to one simulation run, grouped
// into engine sections ("simulator", "interferometer", "telescope",
// "observation").
//
// A tree is produced by merging a static base configuration with per-item
// overrides such as the output path. Merging is last-writer-wins per key.
type SettingsTree map[string]Section

// NewSettingsTree creates an empty settings tree.
func NewSettingsTree() SettingsTree {
	return make(SettingsTree)
}

// Set stores a value under section/key, creating the section if needed.
func (t SettingsTree) Set(section, key string, value any) {
	sec, ok := t[section]
	if !ok {
		sec = make(Section)
		t[section] = sec
	}
	sec[key] = value
}

// Get returns the value stored under section/key.
//
// Returns:
//   - any: The stored value (nil if absent)
//   - bool: true if the key is present
func (t SettingsTree) Get(section, key string) (any, bool) {
	sec, ok := t[section]
	if !ok {
		return nil, false
	}
	v, ok := sec[key]

	return v, ok
}

// Clone returns an independent copy of the tree. Section maps are copied;
// scalar values are shared (they are immutable by convention).
func (t SettingsTree) Clone() SettingsTree {
	cloned := make(SettingsTree, len(t))
	for name, sec := range t {
		clonedSec := make(Section, len(sec))
		for k, v := range sec {
			clonedSec[k] = v
		}
		cloned[name] = clonedSec
	}

	return cloned
}

// Merge combines the tree with other and returns a new tree.
//
// Keys present in both trees take other's value (last-writer-wins). Neither
// input tree is modified.
//
// Parameters:
//   - other: Tree whose values take precedence
//
// Returns:
//   - SettingsTree: Merged copy
func (t SettingsTree) Merge(other SettingsTree) SettingsTree {
	merged := t.Clone()
	for name, sec := range other {
		for k, v := range sec {
			merged.Set(name, k, v)
		}
	}

	return merged
}

// Validate checks that every required "section/key" entry is present.
//
// Required keys are validated at construction time rather than at remote
// execution time, so a malformed tree fails before any work is dispatched.
//
// Parameters:
//   - required: Entries of the form "section/key"
//
// Returns:
//   - error: ErrMissingSettingsKey wrapped with the first missing entry
func (t SettingsTree) Validate(required ...string) error {
	for _, entry := range required {
		section, key, ok := strings.Cut(entry, "/")
		if !ok {
			return fmt.Errorf("%w: malformed required entry %q", ErrMissingSettingsKey, entry)
		}
		if _, present := t.Get(section, key); !present {
			return fmt.Errorf("%w: %s", ErrMissingSettingsKey, entry)
		}
	}

	return nil
}
