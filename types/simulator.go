package types

import "context"

// Polarization selects the antenna polarization for beam fitting.
type Polarization string

// Polarization states passed to the beam fitter, one per fit invocation.
const (
	PolarizationX Polarization = "X"
	PolarizationY Polarization = "Y"
)

// Simulator is the interface to the physical simulation engine.
//
// The engine is treated as an opaque function from settings and a source
// chunk to a visibility artifact path. Implementations must be safe to
// invoke concurrently from independent processes with disjoint output
// paths.
type Simulator interface {
	// Simulate runs one simulation and returns the artifact path.
	//
	// Parameters:
	//   - ctx: Context for the duration of the run
	//   - settings: Merged settings tree, including the output path
	//   - sources: Source rows of the chunk to simulate
	//   - precision: "single" or "double"
	//
	// Returns:
	//   - string: Path of the produced visibility artifact
	//   - error: Simulation failure (nil on success)
	Simulate(ctx context.Context, settings SettingsTree, sources []Source, precision string) (string, error)
}

// SimulatorFunc adapts a plain function to the Simulator interface.
type SimulatorFunc func(ctx context.Context, settings SettingsTree, sources []Source, precision string) (string, error)

// Simulate calls the wrapped function.
func (f SimulatorFunc) Simulate(ctx context.Context, settings SettingsTree, sources []Source, precision string) (string, error) {
	return f(ctx, settings, sources, precision)
}

// BeamFitter fits antenna beam patterns for one polarization and persists
// the resulting binary artifacts into the telescope snapshot's directory as
// a side effect.
//
// When array-beam mode is enabled, the campaign invokes the fitter once per
// polarization before each day's simulation, after purging stale artifacts
// from the shared directory.
type BeamFitter interface {
	// Fit generates and persists beam artifacts for the given polarization.
	//
	// Parameters:
	//   - ctx: Context for the duration of the fit
	//   - pol: Polarization state (X or Y)
	//   - telescopeDir: Directory of the telescope snapshot receiving the
	//     artifacts
	//
	// Returns:
	//   - error: Fit failure (nil on success)
	Fit(ctx context.Context, pol Polarization, telescopeDir string) error
}

// BeamFitterFunc adapts a plain function to the BeamFitter interface.
type BeamFitterFunc func(ctx context.Context, pol Polarization, telescopeDir string) error

// Fit calls the wrapped function.
func (f BeamFitterFunc) Fit(ctx context.Context, pol Polarization, telescopeDir string) error {
	return f(ctx, pol, telescopeDir)
}
