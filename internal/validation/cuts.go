package validation

import (
	"github.com/banshee-data/l1track/internal/config"
	"github.com/banshee-data/l1track/internal/overlap"
	"github.com/banshee-data/l1track/internal/stub"
)

const (
	cutScanSteps = 50
	// Wrongly paired stubs above this pt (GeV) are the costly ones.
	wrongHighPt = 3.0
	// Cut held fixed while the other is scanned.
	scanFixedPtCut = 3.0
	scanFixedZ0Cut = 15.0
)

// CutPoint holds the stub counts at one cut value.
type CutPoint struct {
	Cut                    float64
	AllStubs               int
	StubsInFoundPairs      int
	StubsInTrueFoundPairs  int // two per true found pair
	StubsInWrongFoundPairs int // only stubs above wrongHighPt
	StubsInAllTruePairs    int
}

// CutScan is the result of scanning the pt and z0 cuts.
type CutScan struct {
	Pt []CutPoint
	Z0 []CutPoint
}

// AnalyseCuts scans the pt cut over 0.04-3.96 GeV with z0 < 15 cm, and the
// z0 cut over 0.6-59.4 cm with pt > 3 GeV, on genuine stubs.
func AnalyseCuts(stubs []*stub.Stub, settings *config.Settings, c Collector) (CutScan, error) {
	genuine := genuineOnly(stubs)
	var scan CutScan

	for i := 0; i < cutScanSteps; i++ {
		ptCut := 0.04 + 0.08*float64(i)
		pt, err := countAtCut(genuine, settings, ptCut, overlap.WithPtCut(ptCut), overlap.WithZ0Cut(scanFixedZ0Cut))
		if err != nil {
			return CutScan{}, err
		}
		fillCutPoint(c, PtCutHist, pt)
		scan.Pt = append(scan.Pt, pt)
	}

	for i := 0; i < cutScanSteps; i++ {
		z0Cut := 0.6 + 1.2*float64(i)
		z0, err := countAtCut(genuine, settings, z0Cut, overlap.WithPtCut(scanFixedPtCut), overlap.WithZ0Cut(z0Cut))
		if err != nil {
			return CutScan{}, err
		}
		fillCutPoint(c, Z0CutHist, z0)
		scan.Z0 = append(scan.Z0, z0)
	}
	return scan, nil
}

func countAtCut(stubs []*stub.Stub, settings *config.Settings, cut float64, opts ...overlap.Option) (CutPoint, error) {
	r := overlap.NewResolver(stubs, settings, opts...)
	truePairs, err := r.Pairs(overlap.ModeTruePairFinder)
	if err != nil {
		return CutPoint{}, err
	}
	found, err := r.Pairs(overlap.ModePairFinder)
	if err != nil {
		return CutPoint{}, err
	}

	pt := CutPoint{
		Cut:                 cut,
		AllStubs:            len(stubs),
		StubsInFoundPairs:   len(stub.Depair(found)),
		StubsInAllTruePairs: len(stub.Depair(truePairs)),
	}
	for _, p := range found {
		if overlap.CommonTruthParticle(p.First, p.Second) != nil {
			pt.StubsInTrueFoundPairs += 2
			continue
		}
		for _, s := range []*stub.Stub{p.First, p.Second} {
			if overlap.FirstTruthParticle(s).Pt >= wrongHighPt {
				pt.StubsInWrongFoundPairs++
			}
		}
	}
	return pt, nil
}

func fillCutPoint(c Collector, hist func(string) string, p CutPoint) {
	c.Fill(hist(CountAllStubs), p.Cut, float64(p.AllStubs))
	c.Fill(hist(CountStubsInFoundPairs), p.Cut, float64(p.StubsInFoundPairs))
	c.Fill(hist(CountStubsInTrueFoundPairs), p.Cut, float64(p.StubsInTrueFoundPairs))
	c.Fill(hist(CountStubsInWrongFoundPairs), p.Cut, float64(p.StubsInWrongFoundPairs))
	c.Fill(hist(CountStubsInAllTruePairs), p.Cut, float64(p.StubsInAllTruePairs))
}
