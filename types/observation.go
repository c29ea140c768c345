package types

import (
	"strconv"
	"time"
)

// Observation describes the observation settings shared by every work item
// of one simulation run.
//
// For multi-day campaigns the start date is substituted per day with
// WithStartDate; all other fields stay constant across days.
type Observation struct {
	// StartFrequencyHz is the frequency of the first channel in Hz.
	StartFrequencyHz float64 `yaml:"startFrequencyHz"`

	// FrequencyIncrementHz is the channel spacing in Hz.
	FrequencyIncrementHz float64 `yaml:"frequencyIncrementHz"`

	// NumberOfChannels is the number of frequency channels.
	NumberOfChannels int `yaml:"numberOfChannels"`

	// PhaseCentreRADeg is the phase centre right ascension in degrees.
	PhaseCentreRADeg float64 `yaml:"phaseCentreRaDeg"`

	// PhaseCentreDecDeg is the phase centre declination in degrees.
	PhaseCentreDecDeg float64 `yaml:"phaseCentreDecDeg"`

	// NumberOfTimeSteps is the number of correlator time samples.
	NumberOfTimeSteps int `yaml:"numberOfTimeSteps"`

	// StartDateTime is the observation start (UTC).
	StartDateTime time.Time `yaml:"startDateTime"`

	// LengthSec is the observation length in seconds.
	LengthSec float64 `yaml:"lengthSec"`

	// NumberOfDays is the number of consecutive observation days. Values
	// above 1 select campaign mode.
	NumberOfDays int `yaml:"numberOfDays"`
}

// WithStartDate returns a copy of the observation with the start date
// replaced. The receiver is not modified, so a campaign day's date
// substitution never leaks into subsequent days.
func (o Observation) WithStartDate(t time.Time) Observation {
	o.StartDateTime = t

	return o
}

// SettingsTree renders the observation as its engine settings section.
//
// All values are serialized as strings per the engine's wire convention.
func (o Observation) SettingsTree() SettingsTree {
	tree := NewSettingsTree()
	tree.Set("observation", "start_frequency_hz", formatFloat(o.StartFrequencyHz))
	tree.Set("observation", "frequency_inc_hz", formatFloat(o.FrequencyIncrementHz))
	tree.Set("observation", "num_channels", strconv.Itoa(o.NumberOfChannels))
	tree.Set("observation", "phase_centre_ra_deg", formatFloat(o.PhaseCentreRADeg))
	tree.Set("observation", "phase_centre_dec_deg", formatFloat(o.PhaseCentreDecDeg))
	tree.Set("observation", "num_time_steps", strconv.Itoa(o.NumberOfTimeSteps))
	tree.Set("observation", "start_time_utc", o.StartDateTime.UTC().Format("2006-01-02 15:04:05"))
	tree.Set("observation", "length", formatFloat(o.LengthSec))

	return tree
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
