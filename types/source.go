package types

import (
	"math"
	"sort"
)

// SourceNumBytes is the in-memory width of the numeric part of a Source.
//
// A source row carries 12 float64 columns (position, flux terms, spectral
// parameters). The optional ID is metadata and is excluded from memory
// budget estimates, matching how the simulation engine sizes its input
// arrays.
const SourceNumBytes = 12 * 8

// Source is a single point source in the sky catalog.
//
// The column layout follows the simulation engine's sky array format. The
// reference frequency doubles as the rank key used to bucket sources for
// partitioning.
type Source struct {
	// RADeg is the right ascension in degrees.
	RADeg float64 `json:"ra_deg"`

	// DecDeg is the declination in degrees.
	DecDeg float64 `json:"dec_deg"`

	// StokesI is the Stokes I flux in Jy.
	StokesI float64 `json:"stokes_i"`

	// StokesQ is the Stokes Q flux in Jy.
	StokesQ float64 `json:"stokes_q"`

	// StokesU is the Stokes U flux in Jy.
	StokesU float64 `json:"stokes_u"`

	// StokesV is the Stokes V flux in Jy.
	StokesV float64 `json:"stokes_v"`

	// RefFreqHz is the reference frequency in Hz. This is the rank key for
	// frequency-based partitioning.
	RefFreqHz float64 `json:"ref_freq_hz"`

	// SpectralIndex is the spectral index of the source.
	SpectralIndex float64 `json:"spectral_index"`

	// RotationMeasure is the rotation measure in rad/m^2.
	RotationMeasure float64 `json:"rotation_measure"`

	// MajorAxisFWHM is the major axis FWHM in arcsec.
	MajorAxisFWHM float64 `json:"major_axis_fwhm"`

	// MinorAxisFWHM is the minor axis FWHM in arcsec.
	MinorAxisFWHM float64 `json:"minor_axis_fwhm"`

	// PositionAngle is the position angle in degrees.
	PositionAngle float64 `json:"position_angle"`

	// ID is an optional source identifier ("" if unset).
	ID string `json:"id,omitempty"`
}

// NumBytes returns the memory footprint of the numeric columns.
func (s Source) NumBytes() int64 {
	return SourceNumBytes
}

// SourceCollection owns an ordered list of sky sources.
//
// A collection is mutated only through its Append, Filter, and Sort methods
// and must never be shared for concurrent mutation. Use Clone to obtain an
// independent copy for a campaign day.
type SourceCollection struct {
	sources []Source
}

// NewSourceCollection creates a collection from the given sources.
//
// The slice is copied, so the caller retains ownership of its argument.
//
// Parameters:
//   - sources: Initial sources (may be empty)
//
// Returns:
//   - *SourceCollection: New collection owning a copy of the sources
func NewSourceCollection(sources ...Source) *SourceCollection {
	c := &SourceCollection{}
	c.Append(sources...)

	return c
}

// Append adds sources to the end of the collection.
func (c *SourceCollection) Append(sources ...Source) {
	c.sources = append(c.sources, sources...)
}

// Len returns the number of sources in the collection.
func (c *SourceCollection) Len() int {
	return len(c.sources)
}

// At returns the source at index i.
func (c *SourceCollection) At(i int) Source {
	return c.sources[i]
}

// Sources returns the underlying source slice.
//
// The slice is owned by the collection; callers must not mutate it. Use
// Clone first if an independent copy is needed.
func (c *SourceCollection) Sources() []Source {
	return c.sources
}

// Clone returns a deep copy of the collection.
//
// This is the only sanctioned way to obtain a per-day working copy of a
// campaign's base sky: mutations of the clone never alias the original.
func (c *SourceCollection) Clone() *SourceCollection {
	cloned := make([]Source, len(c.sources))
	copy(cloned, c.sources)

	return &SourceCollection{sources: cloned}
}

// NumBytes returns the memory footprint of the numeric columns of all
// sources. Used for resource budget estimates before dispatch.
func (c *SourceCollection) NumBytes() int64 {
	return int64(len(c.sources)) * SourceNumBytes
}

// SortByRefFreq sorts the collection by reference frequency, ascending.
//
// The sort is stable so that sources sharing a frequency keep their
// relative order, which makes partitioning deterministic.
func (c *SourceCollection) SortByRefFreq() {
	sort.SliceStable(c.sources, func(i, j int) bool {
		return c.sources[i].RefFreqHz < c.sources[j].RefFreqHz
	})
}

// FilterByFlux removes sources whose Stokes I flux falls outside
// [minFluxJy, maxFluxJy]. The filter is applied in place.
//
// Parameters:
//   - minFluxJy: Minimum flux in Jy (inclusive)
//   - maxFluxJy: Maximum flux in Jy (inclusive)
func (c *SourceCollection) FilterByFlux(minFluxJy, maxFluxJy float64) {
	filtered := c.sources[:0]
	for _, s := range c.sources {
		if s.StokesI >= minFluxJy && s.StokesI <= maxFluxJy {
			filtered = append(filtered, s)
		}
	}
	c.sources = filtered
}

// FilterByRadius keeps sources within an annulus around the phase centre,
// using a flat (Euclidean) sky approximation. The filter is applied in
// place.
//
// Parameters:
//   - innerRadiusDeg: Inner radius in degrees (inclusive boundary)
//   - outerRadiusDeg: Outer radius in degrees (inclusive boundary)
//   - ra0Deg: Phase centre right ascension in degrees
//   - dec0Deg: Phase centre declination in degrees
func (c *SourceCollection) FilterByRadius(innerRadiusDeg, outerRadiusDeg, ra0Deg, dec0Deg float64) {
	filtered := c.sources[:0]
	for _, s := range c.sources {
		dist := math.Hypot(s.RADeg-ra0Deg, s.DecDeg-dec0Deg)
		if dist >= innerRadiusDeg && dist <= outerRadiusDeg {
			filtered = append(filtered, s)
		}
	}
	c.sources = filtered
}
