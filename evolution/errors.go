package evolution

import "errors"

var (
	// ErrBoundsMismatch indicates lower and upper bounds of different length.
	ErrBoundsMismatch = errors.New("evolution: lower and upper bounds differ in length")

	// ErrInvalidSetting indicates an out of range optimizer setting.
	ErrInvalidSetting = errors.New("evolution: invalid setting")

	// ErrEmptyPopulation is returned by Population.Best on an empty population.
	ErrEmptyPopulation = errors.New("evolution: empty population")
)
