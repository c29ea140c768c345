package karabo

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/anawas/Karabo-Pipeline/types"
)

// Split strategy names accepted by Config.Split.Strategy.
const (
	// SplitStrategyFrequency selects budget-aware frequency-rank
	// partitioning. This is the default.
	SplitStrategyFrequency = "frequency"

	// SplitStrategyExplicit passes Config.Split.Groups through verbatim.
	SplitStrategyExplicit = "explicit"
)

// SplitConfig controls how the sky catalog is partitioned into work items.
type SplitConfig struct {
	// Strategy names the partitioning strategy: "frequency" (default) or
	// "explicit".
	Strategy string `yaml:"strategy"`

	// Groups lists explicit index groups, one group of catalog row indices
	// per chunk. Only consulted when Strategy is "explicit".
	Groups [][]int `yaml:"groups"`

	// MaxEscalations bounds the budget escalation loop of the frequency
	// strategy. Zero selects the package default.
	MaxEscalations int `yaml:"maxEscalations"`
}

// NoiseConfig configures the engine's system noise model.
type NoiseConfig struct {
	// Enable switches thermal noise on.
	Enable bool `yaml:"enable"`

	// Seed is the noise random seed.
	Seed int `yaml:"seed"`

	// RMSJy is the noise RMS in Jy applied to all channels.
	RMSJy float64 `yaml:"rmsJy"`
}

// InterferometerConfig carries the interferometer section of the engine
// settings tree.
type InterferometerConfig struct {
	// ChannelBandwidthHz is the width of each frequency channel in Hz.
	ChannelBandwidthHz float64 `yaml:"channelBandwidthHz"`

	// TimeAverageSec is the correlator averaging time in seconds.
	TimeAverageSec float64 `yaml:"timeAverageSec"`

	// CorrelationType selects the correlation products.
	CorrelationType string `yaml:"correlationType"`

	// UVFilterMin and UVFilterMax bound the baseline filter.
	UVFilterMin float64 `yaml:"uvFilterMin"`
	UVFilterMax float64 `yaml:"uvFilterMax"`

	// UVFilterUnits names the baseline filter units.
	UVFilterUnits string `yaml:"uvFilterUnits"`

	// Noise configures the system noise model.
	Noise NoiseConfig `yaml:"noise"`
}

// Config holds the campaign configuration.
//
// All fields have YAML tags for loading from configuration files via
// LoadConfig. Zero values are filled in by SetDefaults.
type Config struct {
	// OutputDir is the directory receiving visibility artifacts and run
	// reports. Required.
	OutputDir string `yaml:"outputDir"`

	// TelescopePath is the telescope model directory. Required.
	TelescopePath string `yaml:"telescopePath"`

	// VisPrefix prefixes per-day visibility artifact names. The day index
	// is appended: "beam_vis_" yields "beam_vis_1.vis".
	VisPrefix string `yaml:"visPrefix"`

	// Precision selects the simulation arithmetic: "single" or "double".
	Precision string `yaml:"precision"`

	// UseGPUs requests GPU execution from the engine.
	UseGPUs bool `yaml:"useGpus"`

	// EnableArrayBeam turns on aperture array beam patterns. When set, a
	// BeamFitter must be supplied and both polarizations are fitted before
	// every day's run.
	EnableArrayBeam bool `yaml:"enableArrayBeam"`

	// PerWorkerMemoryBytes is the memory ceiling per worker used to size
	// chunks. Zero or negative disables the budget check.
	PerWorkerMemoryBytes float64 `yaml:"perWorkerMemoryBytes"`

	// Observation describes the observation shared by all work items.
	Observation types.Observation `yaml:"observation"`

	// Split controls catalog partitioning.
	Split SplitConfig `yaml:"split"`

	// Interferometer carries engine settings for the interferometer
	// section.
	Interferometer InterferometerConfig `yaml:"interferometer"`
}

// DefaultConfig returns a Config with sensible defaults.
//
// Returns:
//   - Config: Configuration with default values
func DefaultConfig() Config {
	return Config{
		VisPrefix: "beam_vis_",
		Precision: "double",
		Split: SplitConfig{
			Strategy: SplitStrategyFrequency,
		},
		Interferometer: InterferometerConfig{
			ChannelBandwidthHz: 0,
			TimeAverageSec:     0,
			CorrelationType:    "Cross-correlations",
			UVFilterMin:        0,
			UVFilterMax:        -1, // no upper bound
			UVFilterUnits:      "Wavelengths",
		},
	}
}

// SetDefaults fills in missing configuration values with production defaults.
//
// Parameters:
//   - cfg: Config to apply defaults to (modified in place)
func SetDefaults(cfg *Config) {
	defaults := DefaultConfig()

	if cfg.VisPrefix == "" {
		cfg.VisPrefix = defaults.VisPrefix
	}
	if cfg.Precision == "" {
		cfg.Precision = defaults.Precision
	}
	if cfg.Split.Strategy == "" {
		cfg.Split.Strategy = defaults.Split.Strategy
	}
	if cfg.Interferometer.CorrelationType == "" {
		cfg.Interferometer.CorrelationType = defaults.Interferometer.CorrelationType
	}
	if cfg.Interferometer.UVFilterUnits == "" {
		cfg.Interferometer.UVFilterUnits = defaults.Interferometer.UVFilterUnits
	}
	if cfg.Interferometer.UVFilterMax == 0 {
		cfg.Interferometer.UVFilterMax = defaults.Interferometer.UVFilterMax
	}
	if cfg.Observation.NumberOfDays == 0 {
		cfg.Observation.NumberOfDays = 1
	}
	if cfg.Observation.NumberOfChannels == 0 {
		cfg.Observation.NumberOfChannels = 1
	}
	if cfg.Observation.NumberOfTimeSteps == 0 {
		cfg.Observation.NumberOfTimeSteps = 1
	}
}

// Validate checks configuration constraints and returns an error for invalid
// values.
//
// Hard Validation Rules:
//   - OutputDir and TelescopePath are required
//   - Precision must be "single" or "double"
//   - Split.Strategy must name a known strategy
//   - Split.Groups may only be set with the "explicit" strategy
//   - Observation.NumberOfDays must be >= 1
//
// Returns:
//   - error: Validation error with clear explanation, nil if valid
func (cfg *Config) Validate() error {
	if cfg.OutputDir == "" {
		return fmt.Errorf("%w: outputDir is required", ErrInvalidConfig)
	}
	if cfg.TelescopePath == "" {
		return fmt.Errorf("%w: telescopePath is required", ErrInvalidConfig)
	}
	if cfg.Precision != "single" && cfg.Precision != "double" {
		return fmt.Errorf("%w: precision must be \"single\" or \"double\", got %q", ErrInvalidConfig, cfg.Precision)
	}

	switch cfg.Split.Strategy {
	case SplitStrategyFrequency:
		if len(cfg.Split.Groups) > 0 {
			return fmt.Errorf("%w: explicit groups set with the frequency strategy", types.ErrConflictingSplitGroups)
		}
	case SplitStrategyExplicit:
		if len(cfg.Split.Groups) == 0 {
			return fmt.Errorf("%w: explicit strategy requires groups", types.ErrConflictingSplitGroups)
		}
	default:
		return fmt.Errorf("%w: %q", types.ErrUnknownSplitStrategy, cfg.Split.Strategy)
	}

	if cfg.Split.MaxEscalations < 0 {
		return fmt.Errorf("%w: maxEscalations must be >= 0, got %d", ErrInvalidConfig, cfg.Split.MaxEscalations)
	}
	if cfg.Observation.NumberOfDays < 1 {
		return fmt.Errorf("%w: numberOfDays must be >= 1, got %d", ErrInvalidConfig, cfg.Observation.NumberOfDays)
	}

	return nil
}

// LoadConfig reads a YAML configuration file, applies defaults, and
// validates the result.
//
// Parameters:
//   - path: YAML file path
//
// Returns:
//   - Config: Loaded configuration
//   - error: I/O, decode, or validation failure
func LoadConfig(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}

	SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// engineSettings renders the simulator and interferometer sections of the
// engine settings tree. Values are serialized as strings except booleans,
// matching the engine's wire convention.
func (cfg *Config) engineSettings() types.SettingsTree {
	tree := types.NewSettingsTree()

	tree.Set("simulator", "double_precision", cfg.Precision == "double")
	tree.Set("simulator", "use_gpus", cfg.UseGPUs)

	ifr := cfg.Interferometer
	tree.Set("interferometer", "channel_bandwidth_hz", formatSettingFloat(ifr.ChannelBandwidthHz))
	tree.Set("interferometer", "time_average_sec", formatSettingFloat(ifr.TimeAverageSec))
	tree.Set("interferometer", "correlation_type", ifr.CorrelationType)
	tree.Set("interferometer", "uv_filter_min", formatSettingFloat(ifr.UVFilterMin))
	if ifr.UVFilterMax >= 0 {
		tree.Set("interferometer", "uv_filter_max", formatSettingFloat(ifr.UVFilterMax))
	}
	tree.Set("interferometer", "uv_filter_units", ifr.UVFilterUnits)
	tree.Set("interferometer", "noise/enable", ifr.Noise.Enable)
	if ifr.Noise.Enable {
		tree.Set("interferometer", "noise/seed", strconv.Itoa(ifr.Noise.Seed))
		tree.Set("interferometer", "noise/rms", formatSettingFloat(ifr.Noise.RMSJy))
	}

	tree.Set("telescope", "aperture_array/array_pattern/enable", cfg.EnableArrayBeam)

	return tree
}

func formatSettingFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
