package digitize

import (
	"fmt"
	"math"
)

// Round-trip tolerances beyond which a digitized stub is reported.
const (
	tolPhi  = 0.001
	tolR    = 0.3
	tolZ    = 0.2
	tolDPhi = 0.005
	tolRho  = 0.005
	tolPhiO = 0.005
	tolBend = 0.1
)

// Residuals are dequantized minus original values. Phi is wrapped.
type Residuals struct {
	Phi, R, Z, DPhi, Rho, PhiO, Bend float64
}

// Exceeds reports whether any residual is beyond its tolerance.
func (r Residuals) Exceeds() bool {
	return math.Abs(r.Phi) > tolPhi ||
		math.Abs(r.R) > tolR ||
		math.Abs(r.Z) > tolZ ||
		math.Abs(r.DPhi) > tolDPhi ||
		math.Abs(r.Rho) > tolRho ||
		math.Abs(r.PhiO) > tolPhiO ||
		math.Abs(r.Bend) > tolBend
}

func (r Residuals) String() string {
	return fmt.Sprintf("phi=%.4g r=%.4g z=%.4g dphi=%.4g rho=%.4g phiO=%.4g bend=%.4g",
		r.Phi, r.R, r.Z, r.DPhi, r.Rho, r.PhiO, r.Bend)
}
