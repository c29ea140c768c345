package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for the Karabo pipeline.
//
// These errors provide type-safe error checking using errors.Is() and
// errors.As(). Components wrap external errors with context using
// fmt.Errorf("...: %w", err).

// Configuration errors - invalid caller input detected before any work runs.
var (
	// ErrUnknownSplitStrategy is returned when the configured split strategy
	// name is not recognised.
	ErrUnknownSplitStrategy = errors.New("unknown split strategy")

	// ErrConflictingSplitGroups is returned when explicit split groups are
	// supplied together with an automatic split request.
	ErrConflictingSplitGroups = errors.New("explicit split groups conflict with automatic split")

	// ErrInvalidBudget is returned when a resource budget is malformed.
	ErrInvalidBudget = errors.New("invalid resource budget")

	// ErrMissingSettingsKey is returned when a required settings key is
	// absent at construction time.
	ErrMissingSettingsKey = errors.New("missing required settings key")

	// ErrSimulatorRequired is returned when no simulator is configured.
	ErrSimulatorRequired = errors.New("simulator is required")

	// ErrExecutorRequired is returned when a dispatcher is built without an
	// executor.
	ErrExecutorRequired = errors.New("executor is required")
)

// Resource errors - required state or capacity cannot be satisfied.
var (
	// ErrBudgetUnsatisfiable is returned when split-count escalation cannot
	// fit the first chunk into the per-worker memory ceiling, including the
	// single-worker case where there is nothing to escalate from.
	ErrBudgetUnsatisfiable = errors.New("memory budget cannot be satisfied")

	// ErrTelescopeStateMissing is returned when required state files are
	// absent from the shared telescope directory.
	ErrTelescopeStateMissing = errors.New("telescope state files missing")

	// ErrNoWorkersAvailable is returned when a dispatch is attempted with no
	// live workers.
	ErrNoWorkersAvailable = errors.New("no workers available")

	// ErrEmptyCollection is returned when a split is requested on an empty
	// source collection.
	ErrEmptyCollection = errors.New("source collection is empty")
)

// DispatchError reports the failure of one remote task. It wraps the
// original cause and identifies the failing work item.
//
// A dispatch call fails as a whole with the first DispatchError; results of
// sibling tasks are discarded.
type DispatchError struct {
	// ItemID identifies the failing work item.
	ItemID string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch of item %s failed: %v", e.ItemID, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *DispatchError) Unwrap() error {
	return e.Err
}

// CampaignError reports the failure of a multi-day campaign. It carries the
// 1-based index of the day at which the campaign aborted; artifacts written
// by earlier days are left on disk for post-mortem inspection.
type CampaignError struct {
	// Day is the 1-based index of the failing day.
	Day int

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *CampaignError) Error() string {
	return fmt.Sprintf("campaign aborted on day %d: %v", e.Day, e.Err)
}

// Unwrap returns the underlying cause for errors.Is/As chains.
func (e *CampaignError) Unwrap() error {
	return e.Err
}
