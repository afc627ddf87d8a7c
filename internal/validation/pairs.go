package validation

import (
	"math"

	"github.com/banshee-data/l1track/internal/config"
	"github.com/banshee-data/l1track/internal/overlap"
	"github.com/banshee-data/l1track/internal/stub"
)

// PairFindingSummary counts pairs and stubs found by the heuristic pair
// finder against the truth pairs, over genuine stubs only.
type PairFindingSummary struct {
	Stubs           int
	TruePairs       int
	FoundPairs      int
	TrueFoundPairs  int // found pairs sharing a truth particle
	WrongFoundPairs int
	TrueStubs       int
	FoundStubs      int
	TrueFoundStubs  int
	WrongStubs      int
}

// Add accumulates the counts of o, e.g. over the events of a file.
func (s *PairFindingSummary) Add(o PairFindingSummary) {
	s.Stubs += o.Stubs
	s.TruePairs += o.TruePairs
	s.FoundPairs += o.FoundPairs
	s.TrueFoundPairs += o.TrueFoundPairs
	s.WrongFoundPairs += o.WrongFoundPairs
	s.TrueStubs += o.TrueStubs
	s.FoundStubs += o.FoundStubs
	s.TrueFoundStubs += o.TrueFoundStubs
	s.WrongStubs += o.WrongStubs
}

// Efficiency is the fraction of truth pairs the finder reproduced.
func (s PairFindingSummary) Efficiency() float64 {
	return ratio(s.TrueFoundPairs, s.TruePairs)
}

// Purity is the fraction of found pairs that share a truth particle.
func (s PairFindingSummary) Purity() float64 {
	return ratio(s.TrueFoundPairs, s.FoundPairs)
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// AnalysePairFinding runs the configured cuts on genuine stubs and fills
// q/pt, |eta| and (|z|, r) distributions for every stub and pair
// population.
func AnalysePairFinding(stubs []*stub.Stub, settings *config.Settings, c Collector) (PairFindingSummary, error) {
	genuine := genuineOnly(stubs)
	r := overlap.NewResolver(genuine, settings)
	truePairs, err := r.Pairs(overlap.ModeTruePairFinder)
	if err != nil {
		return PairFindingSummary{}, err
	}
	foundPairs, err := r.Pairs(overlap.ModePairFinder)
	if err != nil {
		return PairFindingSummary{}, err
	}

	for _, s := range genuine {
		fillStub(c, PopAllStubs, s)
	}
	for _, s := range stub.Depair(foundPairs) {
		fillStub(c, PopStubsInFound, s)
	}

	for _, p := range truePairs {
		fillPair(c, PopAllTruePairs, overlap.CommonTruthParticle(p.First, p.Second), p.First)
	}
	trueStubs := stub.Depair(truePairs)
	for _, s := range trueStubs {
		fillStub(c, PopAllTrueStubs, s)
	}

	var trueFound, wrong []stub.Pair
	for _, p := range foundPairs {
		if tp := overlap.CommonTruthParticle(p.First, p.Second); tp != nil {
			fillPair(c, PopTrueFoundPairs, tp, p.First)
			trueFound = append(trueFound, p)
		} else {
			fillPair(c, PopWrongFoundPairs, overlap.FirstTruthParticle(p.First), p.First)
			wrong = append(wrong, p)
		}
		fillPair(c, PopAllFoundPairs, overlap.FirstTruthParticle(p.First), p.First)
	}

	trueFoundStubs := stub.Depair(trueFound)
	wrongStubs := stub.Depair(wrong)
	foundStubs := stub.Depair(foundPairs)
	for _, s := range wrongStubs {
		fillStub(c, PopWrongStubs, s)
	}
	for _, s := range trueFoundStubs {
		fillStub(c, PopTrueFoundStubs, s)
	}
	for _, s := range foundStubs {
		fillStub(c, PopAllFoundStubs, s)
	}

	return PairFindingSummary{
		Stubs:           len(genuine),
		TruePairs:       len(truePairs),
		FoundPairs:      len(foundPairs),
		TrueFoundPairs:  len(trueFound),
		WrongFoundPairs: len(wrong),
		TrueStubs:       len(trueStubs),
		FoundStubs:      len(foundStubs),
		TrueFoundStubs:  len(trueFoundStubs),
		WrongStubs:      len(wrongStubs),
	}, nil
}

var hasAbsHist = func() map[string]bool {
	m := make(map[string]bool, len(absPopulations))
	for _, p := range absPopulations {
		m[p] = true
	}
	return m
}()

// fillStub fills the distributions of a genuine stub's first truth particle.
func fillStub(c Collector, pop string, s *stub.Stub) {
	tp := overlap.FirstTruthParticle(s)
	c.Fill(PairHist(pop, "qoverpt"), tp.QOverPt, 1)
	if hasAbsHist[pop] {
		c.Fill(PairHist(pop, "abs_qoverpt"), math.Abs(tp.QOverPt), 1)
	}
	c.Fill(PairHist(pop, "eta"), math.Abs(tp.Eta), 1)
	c.Fill2D(PairHist(pop, "loc"), math.Abs(s.Z), s.R)
}

// fillPair fills a pair's distributions using tp and the first stub's
// position.
func fillPair(c Collector, pop string, tp *stub.TruthParticle, first *stub.Stub) {
	c.Fill(PairHist(pop, "qoverpt"), tp.QOverPt, 1)
	c.Fill(PairHist(pop, "eta"), math.Abs(tp.Eta), 1)
	c.Fill2D(PairHist(pop, "loc"), math.Abs(first.Z), first.R)
}

func genuineOnly(stubs []*stub.Stub) []*stub.Stub {
	out := make([]*stub.Stub, 0, len(stubs))
	for _, s := range stubs {
		if s.Genuine() {
			out = append(out, s)
		}
	}
	return out
}
