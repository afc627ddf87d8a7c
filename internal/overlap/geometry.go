package overlap

import (
	"math"

	"github.com/banshee-data/l1track/internal/stub"
)

// NeighbourDistance is the maximum separation (cm) between the bounding
// box centres of stubs on neighbouring modules, in r*phi and in z
// (barrel) or r (endcap). Neighbouring modules are about 10 cm apart.
const NeighbourDistance = 12.0

// TrackParams is the algebraic trajectory estimate from two stubs.
type TrackParams struct {
	Z0      float64 // longitudinal vertex position (cm)
	PtOverQ float64 // signed pt/q (GeV)
}

// QOverPt returns the signed inverse transverse momentum.
func (tp TrackParams) QOverPt() float64 {
	return 1 / tp.PtOverQ
}

// Neighbouring reports whether two stubs lie on distinct, physically
// adjacent modules of the same layer. The check is symmetric.
func Neighbouring(s1, s2 *stub.Stub) bool {
	if s1.LayerID != s2.LayerID {
		return false
	}
	// Same-layer modules are either both barrel or both endcap.
	if s1.Barrel != s2.Barrel {
		return false
	}
	if s1.ModuleID == s2.ModuleID {
		return false
	}

	r1, phi1, z1 := s1.BoxCentre()
	r2, phi2, z2 := s2.BoxCentre()

	if math.Abs(r1*phi1-r2*phi2) > NeighbourDistance {
		return false
	}
	if s1.Barrel {
		return math.Abs(z1-z2) <= NeighbourDistance
	}
	return math.Abs(r1-r2) <= NeighbourDistance
}

// TrackParams estimates (z0, pt/q) from the line through two stubs.
// Near-coincident stubs divide by ~0 and yield huge, infinite or NaN
// values; callers' cuts reject those.
func (r *Resolver) TrackParams(s1, s2 *stub.Stub) TrackParams {
	k := r.settings.InvPtToDphi()

	var ptOverQ float64
	if !s1.Barrel && !s1.PSModule {
		// Endcap 2S modules measure r poorly, so use z scaled to r.
		ptOverQ = k * (s1.Z - s2.Z) * s1.R / s1.Z / (s2.Phi - s1.Phi)
	} else {
		ptOverQ = k * (s1.R - s2.R) / (s2.Phi - s1.Phi)
	}
	z0 := s2.Z - s2.R*(s2.Z-s1.Z)/(s2.R-s1.R)

	return TrackParams{Z0: z0, PtOverQ: ptOverQ}
}
