package karabo

import "errors"

// Sentinel errors returned by the Campaign.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSkyRequired is returned when the sky catalog is nil.
	ErrSkyRequired = errors.New("sky catalog is required")

	// ErrBeamFitterRequired is returned when array beam fitting is enabled
	// without a beam fitter.
	ErrBeamFitterRequired = errors.New("beam fitter is required when array beam is enabled")
)
