// Package sector divides the tracker into equal phi sectors, the unit of
// work for overlap removal and digitization.
package sector

import (
	"fmt"
	"math"

	"github.com/banshee-data/l1track/internal/config"
	"github.com/banshee-data/l1track/internal/stub"
)

// Geometry describes NumPhiSectors equal sectors covering [-pi, pi),
// sector 0 starting at -pi.
type Geometry struct {
	NumPhiSectors int
}

// FromSettings returns the sector geometry configured in settings.
func FromSettings(settings *config.Settings) Geometry {
	if settings == nil {
		settings = config.EmptySettings()
	}
	return Geometry{NumPhiSectors: settings.GetNumPhiSectors()}
}

// Width returns the sector width in radians.
func (g Geometry) Width() float64 {
	return 2 * math.Pi / float64(g.NumPhiSectors)
}

// PhiCentre returns the centre of sector i.
func (g Geometry) PhiCentre(i int) float64 {
	return g.Width()*(0.5+float64(i)) - math.Pi
}

// SectorOf returns the sector containing phi. Any phi is accepted and
// wrapped into [-pi, pi) first.
func (g Geometry) SectorOf(phi float64) int {
	p := math.Mod(phi+math.Pi, 2*math.Pi)
	if p < 0 {
		p += 2 * math.Pi
	}
	i := int(p / g.Width())
	if i >= g.NumPhiSectors {
		i = g.NumPhiSectors - 1
	}
	return i
}

// Split groups stubs by the sector of their phi, preserving input order
// within each sector. The result always has NumPhiSectors entries.
func (g Geometry) Split(stubs []*stub.Stub) ([][]*stub.Stub, error) {
	if g.NumPhiSectors < 1 {
		return nil, fmt.Errorf("sector: invalid sector count %d", g.NumPhiSectors)
	}
	out := make([][]*stub.Stub, g.NumPhiSectors)
	for _, s := range stubs {
		i := g.SectorOf(s.Phi)
		out[i] = append(out[i], s)
	}
	return out, nil
}
