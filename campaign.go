package karabo

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/anawas/Karabo-Pipeline/dispatch"
	"github.com/anawas/Karabo-Pipeline/internal/hooks"
	"github.com/anawas/Karabo-Pipeline/internal/logger"
	"github.com/anawas/Karabo-Pipeline/internal/metrics"
	"github.com/anawas/Karabo-Pipeline/partition"
	"github.com/anawas/Karabo-Pipeline/telescope"
	"github.com/anawas/Karabo-Pipeline/types"
)

// settingsLogName is the per-run record of each day's transformed settings.
const settingsLogName = "settings_run.log"

// Campaign drives a strictly sequential multi-day simulation run.
//
// Each day starts from pristine inputs: the base catalog and configuration
// are cloned per day, the telescope model is reloaded from disk, and derived
// beam state is purged before the day's work is partitioned and dispatched.
// Days never overlap and a day's failure aborts the campaign with the
// artifacts of completed days left in place.
type Campaign struct {
	cfg        Config
	sky        *types.SourceCollection
	sim        types.Simulator
	exec       dispatch.Executor
	dispatcher *dispatch.Dispatcher
	splitter   partition.Splitter
	fitter     types.BeamFitter
	hooks      types.Hooks
	metrics    types.MetricsCollector
	logger     types.Logger
}

// NewCampaign creates a campaign over the given sky catalog and simulator.
//
// The configuration is copied, defaulted, and validated; the catalog is
// referenced but never mutated. Without WithExecutor the campaign runs
// in-process through a dispatch.Local executor wrapping sim.
//
// Parameters:
//   - cfg: Campaign configuration (defaults applied to a copy)
//   - sky: Base source catalog, cloned for every day
//   - sim: Simulation engine adapter
//   - opts: Optional dependencies
//
// Returns:
//   - *Campaign: Initialized campaign
//   - error: Configuration or dependency validation failure
//
// Example:
//
//	campaign, err := karabo.NewCampaign(&cfg, catalog, sim)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	artifacts, err := campaign.Run(ctx)
func NewCampaign(cfg *Config, sky *types.SourceCollection, sim types.Simulator, opts ...Option) (*Campaign, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if sky == nil {
		return nil, ErrSkyRequired
	}
	if sim == nil {
		return nil, types.ErrSimulatorRequired
	}

	conf := *cfg
	SetDefaults(&conf)
	if err := conf.Validate(); err != nil {
		return nil, err
	}

	options := &campaignOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.logger == nil {
		options.logger = logger.NewNop()
	}
	if options.metrics == nil {
		options.metrics = metrics.NewNop()
	}
	if options.splitter == nil {
		splitOpts := []partition.Option{
			partition.WithLogger(options.logger),
			partition.WithMetrics(options.metrics),
		}
		if conf.Split.MaxEscalations > 0 {
			splitOpts = append(splitOpts, partition.WithMaxEscalations(conf.Split.MaxEscalations))
		}
		options.splitter = partition.NewFrequencySplitter(splitOpts...)
	}
	if options.executor == nil {
		local, err := dispatch.NewLocal(sim)
		if err != nil {
			return nil, err
		}
		options.executor = local
	}
	if conf.EnableArrayBeam && options.fitter == nil {
		return nil, ErrBeamFitterRequired
	}

	dispatcher, err := dispatch.NewDispatcher(options.executor,
		dispatch.WithLogger(options.logger),
		dispatch.WithMetrics(options.metrics),
	)
	if err != nil {
		return nil, err
	}

	return &Campaign{
		cfg:        conf,
		sky:        sky,
		sim:        sim,
		exec:       options.executor,
		dispatcher: dispatcher,
		splitter:   options.splitter,
		fitter:     options.fitter,
		hooks:      mergeHooks(options.hooks),
		metrics:    options.metrics,
		logger:     options.logger,
	}, nil
}

// mergeHooks fills nil hook fields with no-ops so call sites never nil-check.
func mergeHooks(user *types.Hooks) types.Hooks {
	merged := hooks.NewNop()
	if user == nil {
		return merged
	}
	if user.OnDayStart != nil {
		merged.OnDayStart = user.OnDayStart
	}
	if user.OnDayComplete != nil {
		merged.OnDayComplete = user.OnDayComplete
	}
	if user.OnError != nil {
		merged.OnError = user.OnError
	}

	return merged
}

// Run executes the campaign's day loop.
//
// Days run strictly sequentially; day d+1 starts only after day d's artifact
// has been persisted. The day's observation date is the configured start
// date advanced by the zero-based day offset. On failure the returned error
// is a *types.CampaignError carrying the 1-based day index, and artifacts of
// completed days are left in place.
//
// Parameters:
//   - ctx: Context for cancellation, checked between days and passed to
//     every blocking step
//
// Returns:
//   - []string: Per-day artifact paths in day order (partial on failure)
//   - error: *types.CampaignError wrapping the first day failure
func (c *Campaign) Run(ctx context.Context) ([]string, error) {
	days := c.cfg.Observation.NumberOfDays
	start := time.Now()

	if err := os.MkdirAll(c.cfg.OutputDir, 0o755); err != nil {
		return nil, &types.CampaignError{Day: 1, Err: fmt.Errorf("create output dir: %w", err)}
	}

	c.logger.Info("campaign starting", "days", days, "outputDir", c.cfg.OutputDir)

	artifacts := make([]string, 0, days)
	totalItems := 0
	for day := 1; day <= days; day++ {
		if err := ctx.Err(); err != nil {
			c.metrics.RecordCampaignResult(day-1, false)
			return artifacts, &types.CampaignError{Day: day, Err: err}
		}

		date := c.cfg.Observation.StartDateTime.AddDate(0, 0, day-1)
		if err := c.hooks.OnDayStart(ctx, day, date); err != nil {
			c.logger.Warn("day start hook failed", "day", day, "error", err)
		}

		dayStart := time.Now()
		path, items, err := c.runDay(ctx, day, date)
		if err != nil {
			if hookErr := c.hooks.OnError(ctx, day, err); hookErr != nil {
				c.logger.Warn("error hook failed", "day", day, "error", hookErr)
			}
			c.metrics.RecordCampaignResult(day-1, false)

			return artifacts, &types.CampaignError{Day: day, Err: err}
		}

		c.metrics.RecordDayDuration(day, time.Since(dayStart).Seconds())
		artifacts = append(artifacts, path)
		totalItems += items

		if err := c.hooks.OnDayComplete(ctx, day, path); err != nil {
			c.logger.Warn("day complete hook failed", "day", day, "error", err)
		}
		c.logger.Info("day complete", "day", day, "artifact", path, "items", items)
	}

	c.metrics.RecordCampaignResult(days, true)

	workers, err := c.exec.WorkerCount(ctx)
	if err != nil {
		workers = 0
	}
	if err := AppendRunReport(c.cfg.OutputDir, workers, totalItems, time.Since(start)); err != nil {
		c.logger.Warn("run report write failed", "error", err)
	}

	return artifacts, nil
}

// RunOnce executes a single observation without campaign features.
//
// The artifact name drops the day index: a "beam_vis_" prefix yields
// "beam_vis.vis". Hooks are not invoked.
//
// Parameters:
//   - ctx: Context for cancellation
//
// Returns:
//   - string: Artifact path
//   - error: First failure of any day step
func (c *Campaign) RunOnce(ctx context.Context) (string, error) {
	if err := os.MkdirAll(c.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path, _, err := c.runDay(ctx, 0, c.cfg.Observation.StartDateTime)

	return path, err
}

// runDay executes the fixed per-day step sequence and returns the persisted
// artifact path plus the number of dispatched items.
func (c *Campaign) runDay(ctx context.Context, day int, date time.Time) (string, int, error) {
	// Every day simulates a pristine copy of the catalog.
	skyDay := c.sky.Clone()

	tel, err := telescope.Load(c.cfg.TelescopePath)
	if err != nil {
		return "", 0, err
	}

	purged, err := tel.PurgeDerived()
	if err != nil {
		return "", 0, err
	}
	if purged > 0 {
		c.logger.Debug("purged derived beam state", "day", day, "files", purged)
	}

	if c.cfg.EnableArrayBeam {
		if err := c.fitter.Fit(ctx, types.PolarizationX, tel.Path()); err != nil {
			return "", 0, fmt.Errorf("fit beam %s: %w", types.PolarizationX, err)
		}
		if err := c.fitter.Fit(ctx, types.PolarizationY, tel.Path()); err != nil {
			return "", 0, fmt.Errorf("fit beam %s: %w", types.PolarizationY, err)
		}
	}

	artifact := c.artifactPath(day)
	settings := c.daySettings(tel, date, artifact)
	if err := settings.Validate("telescope/input_directory", "interferometer/ms_filename"); err != nil {
		return "", 0, err
	}

	workers, err := c.exec.WorkerCount(ctx)
	if err != nil {
		return "", 0, fmt.Errorf("worker discovery: %w", err)
	}
	if workers < 1 {
		return "", 0, types.ErrNoWorkersAvailable
	}
	c.metrics.RecordWorkerCount(workers)

	budget := types.ResourceBudget{
		Workers:              workers,
		PerWorkerMemoryBytes: c.cfg.PerWorkerMemoryBytes,
	}

	var explicit [][]int
	if c.cfg.Split.Strategy == SplitStrategyExplicit {
		explicit = c.cfg.Split.Groups
	}

	chunks, err := c.splitter.Split(skyDay, budget, explicit)
	if err != nil {
		return "", 0, err
	}

	items := make([]types.WorkItem, 0, len(chunks))
	for i, chunk := range chunks {
		itemSettings := settings.Clone()
		if len(chunks) > 1 {
			itemSettings.Set("interferometer", "ms_filename", chunkArtifactPath(artifact, i))
		}
		items = append(items, types.NewWorkItem(day, chunk, itemSettings, c.cfg.Precision))
	}

	c.logger.Debug("dispatching day", "day", day, "items", len(items), "workers", workers)
	results, err := c.dispatcher.Dispatch(ctx, items)
	if err != nil {
		return "", 0, err
	}

	if err := c.recordDaySettings(day, settings, results); err != nil {
		c.logger.Warn("settings record failed", "day", day, "error", err)
	}

	// Single-item runs already wrote the day artifact; multi-chunk runs
	// leave per-chunk artifacts next to it for the engine's combine step.
	if len(results) == 1 {
		return results[0].Path, len(items), nil
	}

	return artifact, len(items), nil
}

// artifactPath names the day's visibility artifact. Day 0 (RunOnce) drops
// the index.
func (c *Campaign) artifactPath(day int) string {
	name := fmt.Sprintf("%s%d.vis", c.cfg.VisPrefix, day)
	if day == 0 {
		name = strings.TrimSuffix(c.cfg.VisPrefix, "_") + ".vis"
	}

	return filepath.Join(c.cfg.OutputDir, name)
}

// chunkArtifactPath names the intermediate artifact of one chunk.
func chunkArtifactPath(artifact string, chunk int) string {
	ext := filepath.Ext(artifact)

	return fmt.Sprintf("%s_c%d%s", strings.TrimSuffix(artifact, ext), chunk, ext)
}

// daySettings merges the engine, telescope, and date-substituted observation
// sections with the day's output path. The base configuration is never
// mutated.
func (c *Campaign) daySettings(tel *telescope.Telescope, date time.Time, artifact string) types.SettingsTree {
	obs := c.cfg.Observation.WithStartDate(date)

	settings := c.cfg.engineSettings().Merge(obs.SettingsTree())
	for key, value := range tel.SettingsSection() {
		settings.Set("telescope", key, value)
	}
	settings.Set("interferometer", "ms_filename", artifact)

	return settings
}

// recordDaySettings appends the day's transformed settings and result paths
// to the per-run settings log.
func (c *Campaign) recordDaySettings(day int, settings types.SettingsTree, results []types.Result) error {
	paths := make([]string, len(results))
	for i, r := range results {
		paths[i] = r.Path
	}

	entry := struct {
		Day      int                `json:"day"`
		Settings types.SettingsTree `json:"settings"`
		Results  []string           `json:"results"`
	}{Day: day, Settings: settings, Results: paths}

	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(filepath.Join(c.cfg.OutputDir, settingsLogName), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(data, '\n'))

	return err
}
