package overlap

import (
	"errors"
	"fmt"
)

// ErrUnknownMode is returned when a pairing mode string is not recognised,
// either from the caller or from the overlap_method setting.
var ErrUnknownMode = errors.New("overlap: unknown pairing mode")

// Mode selects the pairing strategy used by a Resolver.
type Mode string

const (
	// ModeConfigured defers to the overlap_method setting.
	ModeConfigured Mode = "configured"
	// ModePairFinder uses local geometric and kinematic cuts only.
	ModePairFinder Mode = "pairFinder"
	// ModeTruePairFinder pairs stubs sharing a truth particle; validation only.
	ModeTruePairFinder Mode = "truePairFinder"
	// ModeDeltaKiller removes same-module stubs from secondary ionisation.
	ModeDeltaKiller Mode = "deltaKiller"
	// ModeNone passes stubs through untouched.
	ModeNone Mode = "none"
)

// ParseMode converts a mode string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(s); m {
	case ModeConfigured, ModePairFinder, ModeTruePairFinder, ModeDeltaKiller, ModeNone:
		return m, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
}

func (m Mode) String() string { return string(m) }
