package digitize

import (
	"fmt"
	"math"

	"github.com/banshee-data/l1track/internal/config"
	"github.com/banshee-data/l1track/internal/sector"
)

const (
	numPhiOctants = 8
	// Bend is encoded in steps of a quarter strip, so multiplying by 4
	// loses no precision.
	bendMult = 4.0
)

// Format holds the digitization constants derived once from Settings and
// shared by every DigitalStub it creates. A Format is read-only after
// NewFormat and safe for concurrent use.
type Format struct {
	firmwareType  int
	reduceLayerID bool

	phiSRange, phiSMult float64
	rtRange, rtMult     float64
	zRange, zMult       float64
	dPhiRange, dPhiMult float64
	rhoRange, rhoMult   float64
	phiORange, phiOMult float64
	bendRange           float64

	sectors        sector.Geometry
	phiOctantWidth float64
	chosenRofPhi   float64
	nbinsPt        int
}

// NewFormat validates settings and precomputes the multipliers
// 2^bits/range for every digitized coordinate. A nil settings uses
// defaults throughout.
func NewFormat(settings *config.Settings) (*Format, error) {
	if settings == nil {
		settings = config.EmptySettings()
	}
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("digitize: invalid settings: %w", err)
	}

	f := &Format{
		firmwareType:  settings.GetFirmwareType(),
		reduceLayerID: settings.GetReduceLayerID(),

		phiSRange: settings.GetPhiSRange(),
		rtRange:   settings.GetRtRange(),
		zRange:    settings.GetZRange(),
		dPhiRange: settings.GetDPhiRange(),
		rhoRange:  settings.GetRhoRange(),
		phiORange: settings.GetPhiORange(),

		sectors:      sector.FromSettings(settings),
		chosenRofPhi: settings.GetChosenRofPhi(),
		nbinsPt:      settings.GetHoughNbinsPt(),
	}

	f.phiSMult = multiplier(settings.GetPhiSBits(), f.phiSRange)
	f.rtMult = multiplier(settings.GetRtBits(), f.rtRange)
	f.zMult = multiplier(settings.GetZBits(), f.zRange)
	f.dPhiMult = multiplier(settings.GetDPhiBits(), f.dPhiRange)
	f.rhoMult = multiplier(settings.GetRhoBits(), f.rhoRange)
	f.phiOMult = multiplier(settings.GetPhiOBits(), f.phiORange)
	f.bendRange = math.Exp2(float64(settings.GetBendBits())) / bendMult

	f.phiOctantWidth = 2 * math.Pi / numPhiOctants

	return f, nil
}

func multiplier(bits int, valueRange float64) float64 {
	return math.Exp2(float64(bits)) / valueRange
}

// NewStub returns an uninitialized DigitalStub bound to this format.
func (f *Format) NewStub() *DigitalStub {
	return &DigitalStub{format: f}
}

// NumPhiSectors returns the number of phi sectors.
func (f *Format) NumPhiSectors() int { return f.sectors.NumPhiSectors }

// Sectors returns the phi sector geometry.
func (f *Format) Sectors() sector.Geometry { return f.sectors }

// PhiSectorWidth returns the phi sector width in radians.
func (f *Format) PhiSectorWidth() float64 { return f.sectors.Width() }

// PhiSMult returns the phiS multiplier; 1/PhiSMult is the phiS resolution.
func (f *Format) PhiSMult() float64 { return f.phiSMult }

// RtMult returns the rT multiplier.
func (f *Format) RtMult() float64 { return f.rtMult }

// ZMult returns the z multiplier.
func (f *Format) ZMult() float64 { return f.zMult }

// DPhiMult returns the dphi multiplier.
func (f *Format) DPhiMult() float64 { return f.dPhiMult }

// RhoMult returns the rho multiplier.
func (f *Format) RhoMult() float64 { return f.rhoMult }

// PhiOMult returns the phiO multiplier.
func (f *Format) PhiOMult() float64 { return f.phiOMult }

// BendRange returns the full bend range in strips.
func (f *Format) BendRange() float64 { return f.bendRange }

// sectorRef returns the phi from which phiS is measured in sector i.
// Systolic-array firmware measures from the sector edge.
func (f *Format) sectorRef(iPhiSec int) float64 {
	centre := f.sectors.PhiCentre(iPhiSec)
	if f.firmwareType == config.FirmwareSystolic {
		return centre - 0.5*f.sectors.Width()
	}
	return centre
}

// octant returns the phi octant containing sector i and its centre.
func (f *Format) octant(iPhiSec int) (int, float64) {
	iOct := iPhiSec * numPhiOctants / f.sectors.NumPhiSectors
	return iOct, f.phiOctantWidth*(0.5+float64(iOct)) - math.Pi
}

// minArrayBin is the offset that maps Hough q/Pt bins 0..n-1 onto a
// signed range symmetric about zero.
func (f *Format) minArrayBin() int {
	if f.nbinsPt%2 == 0 {
		return -f.nbinsPt / 2
	}
	return -(f.nbinsPt - 1) / 2
}

// deltaPhi returns a-b wrapped into (-pi, pi].
func deltaPhi(a, b float64) float64 {
	d := math.Mod(a-b, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	} else if d <= -math.Pi {
		d += 2 * math.Pi
	}
	return d
}
