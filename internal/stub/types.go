package stub

// TruthParticle is the simulation-level charged particle a stub may be
// matched to. It is only ever used for validation, never for filtering.
type TruthParticle struct {
	ID      int     `json:"id"`
	Pt      float64 `json:"pt"`        // GeV
	QOverPt float64 `json:"q_over_pt"` // signed 1/GeV
	Z0      float64 `json:"z0"`        // cm
	Eta     float64 `json:"eta"`
	Phi0    float64 `json:"phi0"` // radians
}

// Stub is one detector hit built from a pair of sensor-layer clusters.
type Stub struct {
	Index          int  // Position of the stub within its event
	LayerID        int  // Barrel 1-6, endcap disks 11-15 and 21-25
	LayerIDReduced int  // 3-bit layer code in range 1-7
	ModuleID       int  // Detector module identifier
	Barrel         bool // Barrel (true) or endcap (false)
	PSModule       bool // PS (true) or 2S (false) sensor technology

	// Bounding box of the stub in global coordinates.
	MinR, MaxR     float64 // cm
	MinPhi, MaxPhi float64 // radians
	MinZ, MaxZ     float64 // cm

	// Representative position.
	R, Phi, Z float64

	Bend float64 // Bend in units of strip pitch, half-integer steps

	// Local cluster positions on the two sensors of the module.
	LocalU [2]float64
	LocalV [2]float64

	// Inverse transverse momentum estimated from the bend alone, with its resolution.
	QOverPt    float64
	QOverPtRes float64

	// Module geometry: strip pitch and sensor separation (cm).
	Pitch      float64
	Separation float64

	// Hough transform inputs precomputed by the input stage.
	DPhi          float64 // Phi bend correction (radians)
	Rho           float64 // Curvature related parameter, positive
	MinQOverPtBin int     // Lowest q/Pt bin allowed by the bend filter
	MaxQOverPtBin int     // Highest q/Pt bin allowed by the bend filter

	// Truth particles in association order; empty when not genuine.
	TruthParticles []*TruthParticle
}

// Genuine reports whether the stub is matched to at least one truth particle.
func (s *Stub) Genuine() bool {
	return len(s.TruthParticles) > 0
}

// BoxCentre returns the centre of the stub bounding box in (r, phi, z).
func (s *Stub) BoxCentre() (r, phi, z float64) {
	r = 0.5 * (s.MinR + s.MaxR)
	phi = 0.5 * (s.MinPhi + s.MaxPhi)
	z = 0.5 * (s.MinZ + s.MaxZ)
	return r, phi, z
}

// LocalCentre averages the two cluster positions in local (u, v).
func (s *Stub) LocalCentre() (u, v float64) {
	return 0.5 * (s.LocalU[0] + s.LocalU[1]), 0.5 * (s.LocalV[0] + s.LocalV[1])
}

// HasTruthParticle reports whether tp is in the stub's association set.
func (s *Stub) HasTruthParticle(tp *TruthParticle) bool {
	for _, t := range s.TruthParticles {
		if t == tp {
			return true
		}
	}
	return false
}
