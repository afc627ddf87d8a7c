package validation

import (
	"fmt"

	"github.com/banshee-data/l1track/internal/config"
	"github.com/banshee-data/l1track/internal/stub"
)

// Report bundles the results of all overlap analyses of one stub set.
type Report struct {
	Formulae    FormulaeSummary
	PairFinding PairFindingSummary
	Cuts        CutScan
}

// Analyse runs the formula, pair-finding and cut analyses in turn.
func Analyse(stubs []*stub.Stub, settings *config.Settings, c Collector) (Report, error) {
	var (
		rep Report
		err error
	)
	if rep.Formulae, err = AnalyseFormulae(stubs, settings, c); err != nil {
		return Report{}, fmt.Errorf("formulae: %w", err)
	}
	if rep.PairFinding, err = AnalysePairFinding(stubs, settings, c); err != nil {
		return Report{}, fmt.Errorf("pair finding: %w", err)
	}
	if rep.Cuts, err = AnalyseCuts(stubs, settings, c); err != nil {
		return Report{}, fmt.Errorf("cuts: %w", err)
	}
	return rep, nil
}
