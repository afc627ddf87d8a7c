package validation

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/l1track/internal/config"
	"github.com/banshee-data/l1track/internal/overlap"
	"github.com/banshee-data/l1track/internal/stub"
)

// FormulaeSummary describes how well the two-stub (z0, q/pt) estimate
// reproduces the shared truth particle. Residuals are truth minus pair and
// only finite residuals enter the statistics.
type FormulaeSummary struct {
	Pairs                 int
	Z0ResidualMean        float64
	Z0ResidualStdDev      float64
	QOverPtResidualMean   float64
	QOverPtResidualStdDev float64
}

// AnalyseFormulae evaluates the pair estimate on every truth pair, with no
// pt cut so that all momenta are covered.
func AnalyseFormulae(stubs []*stub.Stub, settings *config.Settings, c Collector) (FormulaeSummary, error) {
	r := overlap.NewResolver(stubs, settings, overlap.WithPtCut(-1), overlap.WithZ0Cut(15))
	pairs, err := r.Pairs(overlap.ModeTruePairFinder)
	if err != nil {
		return FormulaeSummary{}, err
	}

	var dz0, dqOverPt []float64
	for _, p := range pairs {
		s1, s2 := p.First, p.Second
		est := r.TrackParams(s1, s2)
		tp := overlap.CommonTruthParticle(s1, s2)

		z0, qOverPt := est.Z0, est.QOverPt()
		c.Fill2D(HistZ0PairVsTruth, z0, tp.Z0)
		c.Fill2D(HistQOverPtPairVsTruth, qOverPt, tp.QOverPt)
		c.Fill(HistQOverPtTruthMinusPair, tp.QOverPt-qOverPt, 1)
		c.Fill(HistZ0TruthMinusPair, tp.Z0-z0, 1)

		region := "endcap"
		if s1.Barrel {
			region = "barrel"
		}
		tech := "2s"
		if s1.PSModule {
			tech = "ps"
		}
		for _, cat := range []string{region, tech, region + "_" + tech} {
			c.Fill2D(HistZ0PairVsTruth+"_"+cat, z0, tp.Z0)
			c.Fill2D(HistQOverPtPairVsTruth+"_"+cat, qOverPt, tp.QOverPt)
		}
		if s1.Barrel && s1.PSModule {
			c.Fill(HistZ0PairMinusTruthBarrelPS, z0-tp.Z0, 1)
			c.Fill(HistZ0PairMinusTruthBarrelPSAbs, math.Abs(z0-tp.Z0), 1)
		}

		if d := tp.Z0 - z0; isFinite(d) {
			dz0 = append(dz0, d)
		}
		if d := tp.QOverPt - qOverPt; isFinite(d) {
			dqOverPt = append(dqOverPt, d)
		}
	}

	sum := FormulaeSummary{Pairs: len(pairs)}
	sum.Z0ResidualMean, sum.Z0ResidualStdDev = meanStdDev(dz0)
	sum.QOverPtResidualMean, sum.QOverPtResidualStdDev = meanStdDev(dqOverPt)
	return sum, nil
}

// meanStdDev returns zeros for an empty sample and a zero spread for a
// single value.
func meanStdDev(x []float64) (mean, std float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
