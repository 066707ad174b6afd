package combustion

import "errors"

var (
	// ErrMissingComponent indicates a propellant without a required component.
	ErrMissingComponent = errors.New("combustion: propellant component missing")

	// ErrParamsLength indicates a parameter vector of the wrong length.
	ErrParamsLength = errors.New("combustion: parameter vector length mismatch")

	// ErrEmptyMatrix indicates a matrix without propellants or pressures.
	ErrEmptyMatrix = errors.New("combustion: empty propellant or pressure set")

	// ErrInvalidPropellant indicates non-physical catalog values.
	ErrInvalidPropellant = errors.New("combustion: invalid propellant")
)
