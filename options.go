package karabo

import (
	"github.com/anawas/Karabo-Pipeline/dispatch"
	"github.com/anawas/Karabo-Pipeline/partition"
	"github.com/anawas/Karabo-Pipeline/types"
)

// Option configures a Campaign with optional dependencies.
type Option func(*campaignOptions)

// campaignOptions holds optional Campaign configuration.
type campaignOptions struct {
	executor dispatch.Executor
	splitter partition.Splitter
	fitter   types.BeamFitter
	hooks    *types.Hooks
	metrics  types.MetricsCollector
	logger   types.Logger
}

// WithExecutor sets the executor the campaign dispatches work items to.
//
// When omitted, work runs in-process through a dispatch.Local executor
// wrapping the campaign's simulator.
//
// Parameters:
//   - exec: Executor implementation
//
// Returns:
//   - Option: Functional option for NewCampaign
//
// Example:
//
//	exec, _ := dispatch.NewNATSExecutor(ctx, nc, dispatch.ExecutorConfig{})
//	campaign, err := karabo.NewCampaign(&cfg, catalog, sim, karabo.WithExecutor(exec))
func WithExecutor(exec dispatch.Executor) Option {
	return func(o *campaignOptions) {
		o.executor = exec
	}
}

// WithSplitter sets a custom partitioning strategy.
//
// When omitted, the campaign uses a partition.FrequencySplitter configured
// from Config.Split.
//
// Parameters:
//   - splitter: Splitter implementation
//
// Returns:
//   - Option: Functional option for NewCampaign
func WithSplitter(splitter partition.Splitter) Option {
	return func(o *campaignOptions) {
		o.splitter = splitter
	}
}

// WithBeamFitter sets the beam fitter used when array beams are enabled.
//
// Parameters:
//   - fitter: BeamFitter implementation
//
// Returns:
//   - Option: Functional option for NewCampaign
func WithBeamFitter(fitter types.BeamFitter) Option {
	return func(o *campaignOptions) {
		o.fitter = fitter
	}
}

// WithHooks sets lifecycle hooks invoked between campaign day steps.
//
// Parameters:
//   - hooks: Hooks struct (fields may be nil)
//
// Returns:
//   - Option: Functional option for NewCampaign
//
// Example:
//
//	hooks := &karabo.Hooks{
//	    OnDayComplete: func(ctx context.Context, day int, path string) error {
//	        log.Printf("day %d -> %s", day, path)
//	        return nil
//	    },
//	}
//	campaign, err := karabo.NewCampaign(&cfg, catalog, sim, karabo.WithHooks(hooks))
func WithHooks(hooks *types.Hooks) Option {
	return func(o *campaignOptions) {
		o.hooks = hooks
	}
}

// WithMetrics sets a custom metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for NewCampaign
func WithMetrics(metrics types.MetricsCollector) Option {
	return func(o *campaignOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a custom logger.
//
// When omitted, logging is disabled.
//
// Parameters:
//   - logger: Logger implementation
//
// Returns:
//   - Option: Functional option for NewCampaign
func WithLogger(logger types.Logger) Option {
	return func(o *campaignOptions) {
		o.logger = logger
	}
}
