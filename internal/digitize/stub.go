package digitize

import (
	"fmt"

	"github.com/banshee-data/l1track/internal/stub"
)

// ParamsFromStub gathers the digitization inputs carried by a stub.
func ParamsFromStub(s *stub.Stub) InitParams {
	return InitParams{
		Phi:            s.Phi,
		R:              s.R,
		Z:              s.Z,
		DPhi:           s.DPhi,
		Rho:            s.Rho,
		MinQOverPtBin:  s.MinQOverPtBin,
		MaxQOverPtBin:  s.MaxQOverPtBin,
		LayerID:        s.LayerID,
		LayerIDReduced: s.LayerIDReduced,
		Bend:           s.Bend,
		Pitch:          s.Pitch,
		Separation:     s.Separation,
	}
}

// Digitize runs Init and Make for one set of parameters in phi sector
// iPhiSec and returns the frozen stub.
func Digitize(f *Format, p InitParams, iPhiSec int) (*DigitalStub, error) {
	d := f.NewStub()
	if err := d.Init(p); err != nil {
		return nil, err
	}
	if err := d.Make(iPhiSec); err != nil {
		return nil, fmt.Errorf("phi sector %d: %w", iPhiSec, err)
	}
	return d, nil
}

// DigitizeStub is Digitize for a stub record.
func DigitizeStub(f *Format, s *stub.Stub, iPhiSec int) (*DigitalStub, error) {
	d, err := Digitize(f, ParamsFromStub(s), iPhiSec)
	if err != nil {
		return nil, fmt.Errorf("stub %d: %w", s.Index, err)
	}
	return d, nil
}
