package digitize

import (
	"fmt"
	"math"

	"github.com/banshee-data/l1track/internal/monitoring"
)

// State tracks the DigitalStub lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateInitialized
	StateMade
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateMade:
		return "made"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// InitParams are the original floating-point stub quantities.
type InitParams struct {
	Phi, R, Z      float64
	DPhi           float64
	Rho            float64
	MinQOverPtBin  int // unsigned Hough bin, 0..nbinsPt-1
	MaxQOverPtBin  int
	LayerID        int
	LayerIDReduced int
	Bend           float64 // strips, half-integer steps
	Pitch          float64 // cm
	Separation     float64 // cm
}

// Codes are the integer words sent to the firmware.
type Codes struct {
	PhiSec     int
	PhiS       int
	Rt         int
	Z          int
	DPhi       int
	Rho        int
	MMin       int // signed q/Pt bin range allowed by the bend filter
	MMax       int
	Octant     int
	PhiO       int
	Bend       int
	ModuleType int
	LayerCode  int
}

// Values are the coordinates recovered from Codes, i.e. with the
// resolution the firmware works at.
type Values struct {
	PhiS float64 // relative to the sector reference
	Phi  float64 // global
	Rt   float64 // relative to the reference radius
	R    float64
	Z    float64
	DPhi float64
	Rho  float64
	PhiO float64 // relative to the octant centre
	Bend float64
}

// DigitalStub is one stub in digitized form. Use Format.NewStub, then Init
// and Make; once Make succeeds the stub is frozen.
type DigitalStub struct {
	format     *Format
	state      State
	params     InitParams
	moduleType int
	codes      Codes
	values     Values
	residuals  Residuals
}

// Init records the original stub quantities and derives the module type.
// It may be repeated until Make succeeds.
func (d *DigitalStub) Init(p InitParams) error {
	if d.state == StateMade {
		return ErrFrozen
	}
	barrel := p.LayerID < 10
	mt, ok := moduleTypeOf(p.Pitch, p.Separation, barrel)
	if !ok {
		return fmt.Errorf("%w: pitch=%g separation=%g barrel=%t", ErrUnknownModuleType, p.Pitch, p.Separation, barrel)
	}
	d.params = p
	d.moduleType = mt
	d.state = StateInitialized
	return nil
}

// Make digitizes the stub with phi measured relative to phi sector
// iPhiSec. On error the stub stays Initialized and nothing is recorded.
func (d *DigitalStub) Make(iPhiSec int) error {
	switch d.state {
	case StateUninitialized:
		return ErrNotInitialized
	case StateMade:
		return ErrFrozen
	}
	f := d.format
	if n := f.sectors.NumPhiSectors; iPhiSec < 0 || iPhiSec >= n {
		return fmt.Errorf("%w: phi sector %d not in [0, %d)", ErrOutOfRange, iPhiSec, n)
	}
	p := d.params

	ref := f.sectorRef(iPhiSec)
	phiS := deltaPhi(p.Phi, ref)
	rt := p.R - f.chosenRofPhi
	iOct, octCentre := f.octant(iPhiSec)
	phiO := deltaPhi(p.Phi, octCentre)

	if err := f.checkInRange(phiS, rt, p.Z, p.DPhi, p.Rho, phiO, p.Bend); err != nil {
		return err
	}

	c := Codes{
		PhiSec:     iPhiSec,
		PhiS:       quantize(phiS, f.phiSMult),
		Rt:         quantize(rt, f.rtMult),
		Z:          quantize(p.Z, f.zMult),
		DPhi:       quantize(p.DPhi, f.dPhiMult),
		Rho:        quantize(p.Rho, f.rhoMult),
		Octant:     iOct,
		PhiO:       quantize(phiO, f.phiOMult),
		Bend:       quantize(p.Bend, bendMult),
		ModuleType: d.moduleType,
	}

	// Bin centres, except bend which is exact at half-integer steps.
	v := Values{
		PhiS: dequantize(c.PhiS, f.phiSMult),
		Rt:   dequantize(c.Rt, f.rtMult),
		Z:    dequantize(c.Z, f.zMult),
		DPhi: dequantize(c.DPhi, f.dPhiMult),
		Rho:  dequantize(c.Rho, f.rhoMult),
		PhiO: dequantize(c.PhiO, f.phiOMult),
		Bend: float64(c.Bend) / bendMult,
	}
	v.Phi = deltaPhi(v.PhiS, -ref)
	v.R = v.Rt + f.chosenRofPhi

	res := Residuals{
		Phi:  deltaPhi(v.Phi, p.Phi),
		R:    v.R - p.R,
		Z:    v.Z - p.Z,
		DPhi: v.DPhi - p.DPhi,
		Rho:  v.Rho - p.Rho,
		PhiO: v.PhiO - phiO,
		Bend: v.Bend - p.Bend,
	}
	if res.Exceeds() {
		monitoring.Logf("digitize: round trip drift beyond tolerance: %s", res)
		monitoring.RoundTripMismatches.Inc()
	}

	offset := f.minArrayBin()
	c.MMin = p.MinQOverPtBin + offset
	c.MMax = p.MaxQOverPtBin + offset
	c.LayerCode = layerCode(f.reduceLayerID, p.LayerID, p.LayerIDReduced)

	d.codes = c
	d.values = v
	d.residuals = res
	d.state = StateMade
	return nil
}

// State returns the lifecycle state.
func (d *DigitalStub) State() State { return d.state }

// Params returns the quantities given to Init.
func (d *DigitalStub) Params() InitParams { return d.params }

// ModuleType returns the module type index found by Init.
func (d *DigitalStub) ModuleType() int { return d.moduleType }

// Codes returns the digitized words; zero until Made.
func (d *DigitalStub) Codes() Codes { return d.codes }

// Values returns the dequantized coordinates; zero until Made.
func (d *DigitalStub) Values() Values { return d.values }

// Residuals returns recovered minus original values; zero until Made.
func (d *DigitalStub) Residuals() Residuals { return d.residuals }

func quantize(v, mult float64) int {
	return int(math.Floor(v * mult))
}

func dequantize(code int, mult float64) float64 {
	return (float64(code) + 0.5) / mult
}

// checkInRange rejects values outside the assumed digitization ranges.
// All ranges are symmetric about zero except rho, which is positive.
func (f *Format) checkInRange(phiS, rt, z, dphi, rho, phiO, bend float64) error {
	symmetric := []struct {
		field string
		value float64
		rng   float64
	}{
		{"phiS", phiS, f.phiSRange},
		{"rt", rt, f.rtRange},
		{"z", z, f.zRange},
		{"dphi", dphi, f.dPhiRange},
	}
	for _, c := range symmetric {
		if math.Abs(c.value) >= 0.5*c.rng {
			return &RangeError{Field: c.field, Value: c.value, Limit: 0.5 * c.rng}
		}
	}
	if rho <= 0 || rho >= f.rhoRange {
		return &RangeError{Field: "rho", Value: rho, Limit: f.rhoRange}
	}
	if math.Abs(phiO) >= 0.5*f.phiORange {
		return &RangeError{Field: "phiO", Value: phiO, Limit: 0.5 * f.phiORange}
	}
	if math.Abs(bend) >= 0.5*f.bendRange {
		return &RangeError{Field: "bend", Value: bend, Limit: 0.5 * f.bendRange}
	}
	return nil
}
