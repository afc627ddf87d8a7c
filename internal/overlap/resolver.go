package overlap

import (
	"fmt"
	"math"

	"github.com/banshee-data/l1track/internal/config"
	"github.com/banshee-data/l1track/internal/stub"
)

// Resolver finds duplicate stubs within one fixed stub collection,
// typically the stubs of one sector in one event.
type Resolver struct {
	settings *config.Settings
	stubs    []*stub.Stub
	ptCut    float64 // minimum |pt/q| of a pair (GeV)
	z0Cut    float64 // maximum |z0| of a pair (cm)
	deltaEps float64 // local-u proximity for delta-ray stubs
}

// Option customises a Resolver.
type Option func(*Resolver)

// WithPtCut overrides the overlap_pt_cut setting.
func WithPtCut(v float64) Option {
	return func(r *Resolver) { r.ptCut = v }
}

// WithZ0Cut overrides the overlap_z0_cut setting.
func WithZ0Cut(v float64) Option {
	return func(r *Resolver) { r.z0Cut = v }
}

// NewResolver snapshots stubs and reads the cuts from settings unless
// overridden. A nil settings uses defaults throughout.
func NewResolver(stubs []*stub.Stub, settings *config.Settings, opts ...Option) *Resolver {
	if settings == nil {
		settings = config.EmptySettings()
	}
	r := &Resolver{
		settings: settings,
		stubs:    append([]*stub.Stub(nil), stubs...),
		ptCut:    settings.GetOverlapPtCut(),
		z0Cut:    settings.GetOverlapZ0Cut(),
		deltaEps: settings.GetDeltaStubEpsilon(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Stubs returns a copy of the stub snapshot.
func (r *Resolver) Stubs() []*stub.Stub {
	return append([]*stub.Stub(nil), r.stubs...)
}

// PtCut returns the pt cut in use.
func (r *Resolver) PtCut() float64 { return r.ptCut }

// Z0Cut returns the z0 cut in use.
func (r *Resolver) Z0Cut() float64 { return r.z0Cut }

// Filtered returns the stubs with the redundant member of every pair
// removed, in input order.
func (r *Resolver) Filtered(mode Mode) ([]*stub.Stub, error) {
	pairs, err := r.Pairs(mode)
	if err != nil {
		return nil, err
	}
	redundant := make(map[*stub.Stub]struct{}, len(pairs))
	for _, p := range pairs {
		redundant[p.First] = struct{}{}
	}
	return stub.Without(r.stubs, redundant), nil
}

// Pairs returns the duplicate pairs found by the given mode without
// removing anything.
func (r *Resolver) Pairs(mode Mode) ([]stub.Pair, error) {
	m, err := r.resolve(mode)
	if err != nil {
		return nil, err
	}
	switch m {
	case ModePairFinder:
		return r.pairFinder(), nil
	case ModeTruePairFinder:
		return r.truePairFinder(), nil
	case ModeDeltaKiller:
		return DeltaPairs(r.stubs, r.deltaEps), nil
	default: // ModeNone
		return nil, nil
	}
}

// resolve turns ModeConfigured into the concrete configured mode.
func (r *Resolver) resolve(mode Mode) (Mode, error) {
	m, err := ParseMode(string(mode))
	if err != nil {
		return "", err
	}
	if m != ModeConfigured {
		return m, nil
	}
	m, err = ParseMode(r.settings.GetOverlapMethod())
	if err != nil {
		return "", fmt.Errorf("overlap_method setting: %w", err)
	}
	if m == ModeConfigured {
		return "", fmt.Errorf("overlap_method setting: %w: %q", ErrUnknownMode, m)
	}
	return m, nil
}

// pairFinder considers distinct pairs of stubs on the same layer but on
// neighbouring modules and keeps those consistent with a single track.
func (r *Resolver) pairFinder() []stub.Pair {
	var pairs []stub.Pair
	for i := 0; i < len(r.stubs); i++ {
		for j := i + 1; j < len(r.stubs); j++ {
			s1, s2 := r.stubs[i], r.stubs[j]

			if !Neighbouring(s1, s2) {
				continue
			}

			// Cuts in the r-z and r-phi planes.
			tp := r.TrackParams(s1, s2)
			if math.Abs(tp.Z0) > r.z0Cut {
				continue
			}
			if math.Abs(tp.PtOverQ) < r.ptCut {
				continue
			}

			// Both stubs' own bend-based q/Pt must agree with the pair.
			qOverPt := tp.QOverPt()
			if math.Abs(qOverPt-s1.QOverPt) > s1.QOverPtRes {
				continue
			}
			if math.Abs(qOverPt-s2.QOverPt) > s2.QOverPtRes {
				continue
			}

			pairs = append(pairs, stub.Pair{First: s1, Second: s2})
		}
	}
	return pairs
}

// truePairFinder lists the pairs the heuristic finder should ideally
// find: same layer, different module, a shared truth particle above the
// pt cut.
func (r *Resolver) truePairFinder() []stub.Pair {
	var pairs []stub.Pair
	for i := 0; i < len(r.stubs); i++ {
		for j := i + 1; j < len(r.stubs); j++ {
			s1, s2 := r.stubs[i], r.stubs[j]
			if s1.LayerID != s2.LayerID || s1.Barrel != s2.Barrel {
				continue
			}
			if s1.ModuleID == s2.ModuleID {
				continue
			}
			tp := CommonTruthParticle(s1, s2)
			if tp == nil || tp.Pt < r.ptCut {
				continue
			}
			pairs = append(pairs, stub.Pair{First: s1, Second: s2})
		}
	}
	return pairs
}
