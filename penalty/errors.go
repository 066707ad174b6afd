package penalty

import "errors"

var (
	// ErrInvalidRate indicates a penalty rate that is not positive.
	ErrInvalidRate = errors.New("penalty: rate must be greater than 0")

	// ErrInvalidThreshold indicates a threshold outside its admissible range.
	ErrInvalidThreshold = errors.New("penalty: invalid threshold")

	// ErrInvalidRange indicates a min/max pair with min >= max.
	ErrInvalidRange = errors.New("penalty: min must be below max")
)
