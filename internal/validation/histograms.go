package validation

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Spec books one histogram: its labels and binning. A Spec with YBins > 0
// is two-dimensional.
type Spec struct {
	Name   string
	Title  string
	XLabel string
	YLabel string
	Bins   int
	Min    float64
	Max    float64
	YBins  int
	YMin   float64
	YMax   float64
}

// TwoD reports whether the histogram is two-dimensional.
func (s Spec) TwoD() bool { return s.YBins > 0 }

// Histogram bins 1D fills into s.Bins equal bins over [Min, Max).
// Fills outside the range, or NaN, are dropped.
func (s Spec) Histogram(fills []Weighted) []float64 {
	in := make([]Weighted, 0, len(fills))
	for _, f := range fills {
		if f.X >= s.Min && f.X < s.Max {
			in = append(in, f)
		}
	}
	sort.Slice(in, func(i, j int) bool { return in[i].X < in[j].X })

	xs := make([]float64, len(in))
	ws := make([]float64, len(in))
	for i, f := range in {
		xs[i], ws[i] = f.X, f.W
	}
	dividers := floats.Span(make([]float64, s.Bins+1), s.Min, s.Max)
	return stat.Histogram(nil, dividers, xs, ws)
}

// BinCentre returns the x centre of bin i.
func (s Spec) BinCentre(i int) float64 {
	w := (s.Max - s.Min) / float64(s.Bins)
	return s.Min + w*(float64(i)+0.5)
}

// Lookup returns the booked Spec for name.
func Lookup(name string) (Spec, bool) {
	s, ok := specs[name]
	return s, ok
}

// Specs returns every booked histogram sorted by name.
func Specs() []Spec {
	out := make([]Spec, 0, len(specs))
	for _, s := range specs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

var specs = bookSpecs()

func book1D(m map[string]Spec, name, title, xLabel string, bins int, lo, hi float64) {
	m[name] = Spec{Name: name, Title: title, XLabel: xLabel, YLabel: "entries", Bins: bins, Min: lo, Max: hi}
}

func book2D(m map[string]Spec, name, title, xLabel, yLabel string, bins int, lo, hi float64, yBins int, yLo, yHi float64) {
	m[name] = Spec{Name: name, Title: title, XLabel: xLabel, YLabel: yLabel,
		Bins: bins, Min: lo, Max: hi, YBins: yBins, YMin: yLo, YMax: yHi}
}

// Histogram names.
const (
	HistZ0TruthMinusPair            = "formulae/z0_truth_minus_pair"
	HistQOverPtTruthMinusPair       = "formulae/qoverpt_truth_minus_pair"
	HistZ0PairVsTruth               = "formulae/z0_pair_vs_truth"
	HistQOverPtPairVsTruth          = "formulae/qoverpt_pair_vs_truth"
	HistZ0PairMinusTruthBarrelPS    = "formulae/z0_pair_minus_truth_barrel_ps"
	HistZ0PairMinusTruthBarrelPSAbs = "formulae/z0_pair_minus_truth_barrel_ps_abs"
)

// Module categories used to split the formula histograms.
var formulaeCategories = []string{"barrel", "endcap", "ps", "2s", "barrel_ps", "barrel_2s", "endcap_ps", "endcap_2s"}

// Stub and pair populations of the pair-finding analysis.
const (
	PopAllStubs        = "all_stubs"
	PopStubsInFound    = "stubs_in_found"
	PopAllTruePairs    = "all_true_pairs"
	PopAllTrueStubs    = "all_true_stubs"
	PopTrueFoundPairs  = "true_found_pairs"
	PopTrueFoundStubs  = "true_found_stubs"
	PopWrongFoundPairs = "wrong_found_pairs"
	PopWrongStubs      = "wrong_stubs"
	PopAllFoundPairs   = "all_found_pairs"
	PopAllFoundStubs   = "all_found_stubs"
)

var (
	pairPopulations = []string{PopAllStubs, PopStubsInFound, PopAllTruePairs, PopAllTrueStubs,
		PopTrueFoundPairs, PopTrueFoundStubs, PopWrongFoundPairs, PopWrongStubs, PopAllFoundPairs, PopAllFoundStubs}
	// Populations that also get an |q/pt| histogram.
	absPopulations = []string{PopAllStubs, PopAllTrueStubs, PopTrueFoundStubs, PopWrongStubs, PopAllFoundStubs}
)

// Counts filled per cut value by the cut scans.
const (
	CountAllStubs               = "all_stubs"
	CountStubsInFoundPairs      = "stubs_in_found_pairs"
	CountStubsInTrueFoundPairs  = "stubs_in_true_found_pairs"
	CountStubsInWrongFoundPairs = "stubs_in_wrong_found_pairs"
	CountStubsInAllTruePairs    = "stubs_in_all_true_pairs"
)

var cutCounts = []string{CountAllStubs, CountStubsInFoundPairs, CountStubsInTrueFoundPairs,
	CountStubsInWrongFoundPairs, CountStubsInAllTruePairs}

// PairHist names the pair-finding histogram of a population and variable
// ("qoverpt", "abs_qoverpt", "eta" or "loc").
func PairHist(population, variable string) string {
	return "pairs/" + population + "_" + variable
}

// PtCutHist names the pt cut scan histogram of a count.
func PtCutHist(count string) string { return "cuts/pt_" + count }

// Z0CutHist names the z0 cut scan histogram of a count.
func Z0CutHist(count string) string { return "cuts/z0_" + count }

func bookSpecs() map[string]Spec {
	m := make(map[string]Spec)

	book1D(m, HistZ0TruthMinusPair, "truth z0 - pair z0", "z0 (cm)", 150, -20, 20)
	book1D(m, HistQOverPtTruthMinusPair, "truth q/pt - pair q/pt", "q/pt (1/GeV)", 150, -1, 1)
	book1D(m, HistZ0PairMinusTruthBarrelPS, "barrel PS: pair z0 - truth z0", "z0 (cm)", 150, -20, 20)
	book1D(m, HistZ0PairMinusTruthBarrelPSAbs, "barrel PS: |pair z0 - truth z0|", "z0 (cm)", 100, 0, 20)
	book2D(m, HistZ0PairVsTruth, "pair z0 vs truth z0", "pair z0 (cm)", "truth z0 (cm)", 150, -20, 20, 50, -20, 20)
	book2D(m, HistQOverPtPairVsTruth, "pair q/pt vs truth q/pt", "pair q/pt", "truth q/pt", 150, -1, 1, 50, -1, 1)
	for _, c := range formulaeCategories {
		book2D(m, HistZ0PairVsTruth+"_"+c, c+": pair z0 vs truth z0", "pair z0 (cm)", "truth z0 (cm)", 150, -20, 20, 50, -20, 20)
		book2D(m, HistQOverPtPairVsTruth+"_"+c, c+": pair q/pt vs truth q/pt", "pair q/pt", "truth q/pt", 150, -1, 1, 50, -1, 1)
	}

	for _, p := range pairPopulations {
		book1D(m, PairHist(p, "qoverpt"), p, "q/pt of truth particle", 50, -1, 1)
		book1D(m, PairHist(p, "eta"), p, "|eta| of truth particle", 50, 0, 2.5)
		book2D(m, PairHist(p, "loc"), p, "|z| (cm)", "r (cm)", 50, 0, 200, 50, 0, 120)
	}
	for _, p := range absPopulations {
		book1D(m, PairHist(p, "abs_qoverpt"), p, "|q/pt| of truth particle", 50, 0, 1)
	}

	for _, c := range cutCounts {
		book1D(m, PtCutHist(c), c, "pt cut (GeV)", 50, 0, 4)
		book1D(m, Z0CutHist(c), c, "z0 cut (cm)", 50, 0, 60)
	}
	return m
}
