package digitize

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized is returned by Make before a successful Init.
	ErrNotInitialized = errors.New("digitize: Init must be called before Make")
	// ErrFrozen is returned by Init or Make once Make has succeeded.
	ErrFrozen = errors.New("digitize: stub already made")
	// ErrUnknownModuleType is returned when pitch, separation and barrel
	// flag match no known module type.
	ErrUnknownModuleType = errors.New("digitize: unknown module type")
	// ErrOutOfRange matches every *RangeError.
	ErrOutOfRange = errors.New("digitize: value out of digitization range")
)

// RangeError reports a coordinate outside its assumed digitization range.
type RangeError struct {
	Field string  // phiS, rt, z, dphi, rho, phiO or bend
	Value float64 // the offending signed value
	Limit float64 // half range, or full range for rho
}

func (e *RangeError) Error() string {
	if e.Field == "rho" {
		return fmt.Sprintf("digitize: stub rho = %g outside (0, %g)", e.Value, e.Limit)
	}
	return fmt.Sprintf("digitize: stub %s = %g outside (-%g, %g)", e.Field, e.Value, e.Limit, e.Limit)
}

// Unwrap lets errors.Is(err, ErrOutOfRange) match.
func (e *RangeError) Unwrap() error { return ErrOutOfRange }
