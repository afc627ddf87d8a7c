package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/banshee-data/l1track/internal/eventio"
	"github.com/banshee-data/l1track/internal/validation"
	"github.com/banshee-data/l1track/internal/validation/plots"
)

// eventReport is the per-event output of the validate command.
type eventReport struct {
	EventID     int                           `json:"event_id"`
	Formulae    validation.FormulaeSummary    `json:"formulae"`
	PairFinding validation.PairFindingSummary `json:"pair_finding"`
	Efficiency  float64                       `json:"efficiency"`
	Purity      float64                       `json:"purity"`
}

func (a *app) newValidateCmd() *cobra.Command {
	var (
		output   string
		plotsDir string
		htmlPath string
	)
	cmd := &cobra.Command{
		Use:   "validate EVENTS",
		Short: "Compare the pair finder with truth and fill validation histograms",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			events, err := eventio.Load(args[0])
			if err != nil {
				return err
			}

			rec := validation.NewRecorder()
			var (
				reports []eventReport
				total   validation.PairFindingSummary
			)
			for _, ev := range events {
				rep, err := validation.Analyse(ev.Stubs, a.settings, rec)
				if err != nil {
					return err
				}
				total.Add(rep.PairFinding)
				reports = append(reports, eventReport{
					EventID:     ev.ID,
					Formulae:    rep.Formulae,
					PairFinding: rep.PairFinding,
					Efficiency:  rep.PairFinding.Efficiency(),
					Purity:      rep.PairFinding.Purity(),
				})
			}

			a.log.Info().
				Int("events", len(events)).
				Int("true_pairs", total.TruePairs).
				Int("found_pairs", total.FoundPairs).
				Float64("efficiency", total.Efficiency()).
				Float64("purity", total.Purity()).
				Msg("pair finding")

			if plotsDir != "" {
				n, err := plots.WritePNG(rec, plotsDir)
				if err != nil {
					return err
				}
				a.log.Info().Int("plots", n).Str("dir", plotsDir).Msg("wrote plots")
			}
			if htmlPath != "" {
				if err := plots.WriteHTMLFile(rec, htmlPath); err != nil {
					return err
				}
				a.log.Info().Str("path", htmlPath).Msg("wrote chart page")
			}

			return a.writeOutput(output, func(w io.Writer) error {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(reports)
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the per-event report to this file instead of stdout")
	cmd.Flags().StringVar(&plotsDir, "plots", "", "write PNG histograms to this directory")
	cmd.Flags().StringVar(&htmlPath, "html", "", "write an HTML chart page to this file")
	return cmd
}
