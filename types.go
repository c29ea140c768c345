package karabo

import "github.com/anawas/Karabo-Pipeline/types"

// Re-export types from the internal types package.
//
// This file provides a stable public API for the library's core types and
// interfaces. It uses type aliases to re-export definitions from the `types`
// subpackage, which contains the actual implementations.
//
// This pattern solves the "import cycle" problem by allowing internal
// packages to depend on `types` without depending on the root `karabo`
// package, while still providing a convenient `karabo.Source`,
// `karabo.Logger`, etc. for users.
type (
	Source           = types.Source
	SourceCollection = types.SourceCollection
	ResourceBudget   = types.ResourceBudget
	Chunk            = types.Chunk
	Section          = types.Section
	SettingsTree     = types.SettingsTree
	WorkItem         = types.WorkItem
	Result           = types.Result
	Observation      = types.Observation
	Polarization     = types.Polarization
	Simulator        = types.Simulator
	SimulatorFunc    = types.SimulatorFunc
	BeamFitter       = types.BeamFitter
	BeamFitterFunc   = types.BeamFitterFunc
	Logger           = types.Logger
	MetricsCollector = types.MetricsCollector
	Hooks            = types.Hooks
	DispatchError    = types.DispatchError
	CampaignError    = types.CampaignError
)

// Re-export polarization constants from the internal types package.
const (
	PolarizationX = types.PolarizationX
	PolarizationY = types.PolarizationY
)

// Re-export constructors from the internal types package.
var (
	NewSourceCollection = types.NewSourceCollection
	NewSettingsTree     = types.NewSettingsTree
	NewWorkItem         = types.NewWorkItem
)
