package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/banshee-data/l1track/internal/eventio"
	"github.com/banshee-data/l1track/internal/overlap"
	"github.com/banshee-data/l1track/internal/pipeline"
	"github.com/banshee-data/l1track/internal/storage/sqlite"
)

type processFlags struct {
	mode   string
	output string
	ptCut  float64
	z0Cut  float64
}

func (f *processFlags) register(flags *pflag.FlagSet, outputHelp string) {
	flags.StringVar(&f.mode, "mode", string(overlap.ModeConfigured),
		"overlap mode: configured, none, pairFinder, truePairFinder or deltaKiller")
	flags.StringVarP(&f.output, "output", "o", "", outputHelp)
	flags.Float64Var(&f.ptCut, "pt-cut", 0, "override overlap_pt_cut (GeV)")
	flags.Float64Var(&f.z0Cut, "z0-cut", 0, "override overlap_z0_cut (cm)")
}

// options turns explicitly set cut flags into Resolver overrides, so that
// an unset flag leaves the configured cut alone.
func (f *processFlags) options(flags *pflag.FlagSet, skipDigitize bool) pipeline.Options {
	opts := pipeline.Options{SkipDigitize: skipDigitize}
	if flags.Changed("pt-cut") {
		opts.Overlap = append(opts.Overlap, overlap.WithPtCut(f.ptCut))
	}
	if flags.Changed("z0-cut") {
		opts.Overlap = append(opts.Overlap, overlap.WithZ0Cut(f.z0Cut))
	}
	return opts
}

func (a *app) newFilterCmd() *cobra.Command {
	var pf processFlags
	cmd := &cobra.Command{
		Use:   "filter EVENTS",
		Short: "Remove overlapping stubs and write the surviving stubs as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, events, err := a.process(cmd.Context(), cmd.Name(), args[0], &pf, pf.options(cmd.Flags(), true))
			if err != nil {
				return err
			}
			filtered := make([]eventio.Event, len(events))
			for i, ev := range events {
				filtered[i] = eventio.Event{ID: ev.ID, Truth: ev.Truth, Stubs: results[i].Filtered()}
			}
			return a.writeOutput(pf.output, func(w io.Writer) error {
				return eventio.Encode(w, filtered)
			})
		},
	}
	pf.register(cmd.Flags(), "write filtered events to this file instead of stdout")
	return cmd
}

// digitizedStub is one line of the digitize command's output.
type digitizedStub struct {
	sqlite.DigitalStubRecord
	Residuals string `json:"residuals"`
}

func (a *app) newDigitizeCmd() *cobra.Command {
	var pf processFlags
	cmd := &cobra.Command{
		Use:   "digitize EVENTS",
		Short: "Remove overlapping stubs, digitize the rest and write one JSON object per stub",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results, _, err := a.process(cmd.Context(), cmd.Name(), args[0], &pf, pf.options(cmd.Flags(), false))
			if err != nil {
				return err
			}
			return a.writeOutput(pf.output, func(w io.Writer) error {
				enc := json.NewEncoder(w)
				for _, res := range results {
					for _, rec := range digitalRecords(res) {
						line := digitizedStub{DigitalStubRecord: rec.record, Residuals: rec.residuals}
						if err := enc.Encode(line); err != nil {
							return err
						}
					}
				}
				return nil
			})
		},
	}
	pf.register(cmd.Flags(), "write digitized stubs to this file instead of stdout")
	return cmd
}

type digitalRecord struct {
	record    sqlite.DigitalStubRecord
	residuals string
}

func digitalRecords(res *pipeline.Result) []digitalRecord {
	var out []digitalRecord
	for _, sec := range res.Sectors {
		for _, d := range sec.Digitized {
			out = append(out, digitalRecord{
				record: sqlite.DigitalStubRecord{
					EventID:   res.EventID,
					StubIndex: d.Stub.Index,
					Codes:     d.Digital.Codes(),
				},
				residuals: d.Digital.Residuals().String(),
			})
		}
	}
	return out
}

// process loads the events, runs the pipeline over each and records the
// run when a store is configured.
func (a *app) process(ctx context.Context, command, path string, pf *processFlags, opts pipeline.Options) ([]*pipeline.Result, []eventio.Event, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	events, err := eventio.Load(path)
	if err != nil {
		return nil, nil, err
	}
	proc, err := pipeline.New(a.settings, overlap.Mode(pf.mode), opts)
	if err != nil {
		return nil, nil, err
	}

	db, err := a.openDB(ctx)
	if err != nil {
		return nil, nil, err
	}
	if db != nil {
		defer db.Close()
	}

	results := make([]*pipeline.Result, len(events))
	processAll := func(runID string) (sqlite.Run, error) {
		var totals sqlite.Run
		for i, ev := range events {
			res, err := proc.Process(ev)
			if err != nil {
				return totals, err
			}
			results[i] = res

			totals.Events++
			totals.StubsIn += len(ev.Stubs)
			totals.StubsOut += len(res.Filtered())
			totals.PairsFound += res.NumPairs()
			totals.DigitizeErrors += len(res.Errors())
			for _, se := range res.Errors() {
				a.log.Debug().Int("event", ev.ID).Int("stub", se.Stub.Index).Err(se.Err).Msg("digitization failed")
			}

			if db != nil {
				if err := a.storeResult(ctx, db, runID, res); err != nil {
					return totals, err
				}
			}
		}
		a.log.Info().
			Str("command", command).
			Str("mode", pf.mode).
			Int("events", totals.Events).
			Int("stubs_in", totals.StubsIn).
			Int("stubs_out", totals.StubsOut).
			Int("pairs", totals.PairsFound).
			Int("digitize_errors", totals.DigitizeErrors).
			Msg("processed")
		return totals, nil
	}

	if db == nil {
		if _, err := processAll(""); err != nil {
			return nil, nil, err
		}
		return results, events, nil
	}

	settingsJSON, err := json.Marshal(a.settings)
	if err != nil {
		return nil, nil, fmt.Errorf("encode settings: %w", err)
	}
	run := &sqlite.Run{Command: command, Mode: pf.mode, Source: filepath.Base(path), SettingsJSON: settingsJSON}
	if err := recordRun(ctx, db, run, processAll); err != nil {
		return nil, nil, err
	}
	a.log.Info().Str("run_id", run.RunID).Msg("run recorded")
	return results, events, nil
}

// recordRun inserts run, calls body with its id and stores the totals
// body returns. If body or the update fails the run and its rows are
// deleted.
func recordRun(ctx context.Context, db *sqlite.DB, run *sqlite.Run, body func(runID string) (sqlite.Run, error)) error {
	if err := db.InsertRun(ctx, run); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	totals, err := body(run.RunID)
	if err == nil {
		totals.RunID = run.RunID
		if err = db.UpdateRunTotals(ctx, &totals); err != nil {
			err = fmt.Errorf("update run: %w", err)
		}
	}
	if err != nil {
		if derr := db.DeleteRun(context.WithoutCancel(ctx), run.RunID); derr != nil {
			return errors.Join(err, fmt.Errorf("delete run %s: %w", run.RunID, derr))
		}
		return err
	}

	run.Events, run.StubsIn, run.StubsOut = totals.Events, totals.StubsIn, totals.StubsOut
	run.PairsFound, run.DigitizeErrors = totals.PairsFound, totals.DigitizeErrors
	return nil
}

func (a *app) storeResult(ctx context.Context, db *sqlite.DB, runID string, res *pipeline.Result) error {
	var pairs []sqlite.PairRecord
	for _, sec := range res.Sectors {
		pairs = append(pairs, sqlite.PairRecords(res.EventID, sec.PhiSector, sec.Pairs)...)
	}
	if err := db.InsertPairs(ctx, runID, pairs); err != nil {
		return fmt.Errorf("insert pairs for event %d: %w", res.EventID, err)
	}

	recs := digitalRecords(res)
	stubs := make([]sqlite.DigitalStubRecord, len(recs))
	for i, r := range recs {
		stubs[i] = r.record
	}
	if err := db.InsertDigitalStubs(ctx, runID, stubs); err != nil {
		return fmt.Errorf("insert digital stubs for event %d: %w", res.EventID, err)
	}
	return nil
}

// writeOutput runs write against the named file, or stdout when path is empty.
func (a *app) writeOutput(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(a.out)
	}
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
