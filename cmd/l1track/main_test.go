package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/l1track/internal/eventio"
	"github.com/banshee-data/l1track/internal/storage/sqlite"
)

// testEvents holds one overlapping barrel pair in phi sector 17 of 32,
// both stubs matched to the same 4 GeV particle.
const testEvents = `{"events": [{
  "event_id": 1,
  "truth": [{"id": 1, "pt": 4.0, "q_over_pt": 0.25, "z0": 3.2, "eta": 0.5, "phi0": 0.3}],
  "stubs": [
    {"layer_id": 3, "layer_id_reduced": 3, "module_id": 10, "barrel": true, "ps_module": true,
     "min_r": 49, "max_r": 51, "min_phi": 0.29, "max_phi": 0.31, "min_z": 25.7, "max_z": 30.7,
     "r": 50, "phi": 0.300, "z": 28.2, "bend": 1.5, "q_over_pt": 0.25, "q_over_pt_res": 0.05,
     "pitch": 0.01, "separation": 0.26, "rho": 1.5, "truth_ids": [1]},
    {"layer_id": 3, "layer_id_reduced": 3, "module_id": 11, "barrel": true, "ps_module": true,
     "min_r": 53, "max_r": 55, "min_phi": 0.4622, "max_phi": 0.4822, "min_z": 27.7, "max_z": 32.7,
     "r": 54, "phi": 0.294, "z": 30.2, "bend": 1.5, "q_over_pt": 0.25, "q_over_pt_res": 0.05,
     "pitch": 0.01, "separation": 0.26, "rho": 1.5, "truth_ids": [1]}
  ]
}]}`

func writeEvents(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.json")
	require.NoError(t, os.WriteFile(path, []byte(testEvents), 0o644))
	return path
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(append(args, "--log-level", "error"))
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestFilterCommand(t *testing.T) {
	events := writeEvents(t)

	out := execute(t, "filter", events, "--mode", "pairFinder")
	got, err := eventio.Decode(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Stubs, 1)
	assert.Equal(t, 11, got[0].Stubs[0].ModuleID)

	// A pt cut above the pair's 3.8 GeV keeps both stubs.
	out = execute(t, "filter", events, "--mode", "pairFinder", "--pt-cut", "5")
	got, err = eventio.Decode(strings.NewReader(out))
	require.NoError(t, err)
	assert.Len(t, got[0].Stubs, 2)

	path := filepath.Join(t.TempDir(), "filtered.json")
	execute(t, "filter", events, "--mode", "none", "-o", path)
	got, err = eventio.Load(path)
	require.NoError(t, err)
	assert.Len(t, got[0].Stubs, 2)
}

func TestDigitizeCommand_RecordsRun(t *testing.T) {
	events := writeEvents(t)
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	out := execute(t, "digitize", events, "--mode", "pairFinder", "--db", dbPath)

	var lines []map[string]interface{}
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var line map[string]interface{}
		require.NoError(t, json.Unmarshal(sc.Bytes(), &line))
		lines = append(lines, line)
	}
	require.Len(t, lines, 1)
	assert.Equal(t, 1.0, lines[0]["stub_index"])
	assert.Contains(t, lines[0], "codes")

	ctx := context.Background()
	db, err := sqlite.Open(ctx, dbPath)
	require.NoError(t, err)
	defer db.Close()

	runs, err := db.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, "digitize", run.Command)
	assert.Equal(t, "pairFinder", run.Mode)
	assert.Equal(t, "events.json", run.Source)
	assert.Equal(t, 1, run.Events)
	assert.Equal(t, 2, run.StubsIn)
	assert.Equal(t, 1, run.StubsOut)
	assert.Equal(t, 1, run.PairsFound)
	assert.Zero(t, run.DigitizeErrors)

	pairs, err := db.PairsForRun(ctx, run.RunID)
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, sqlite.PairRecord{EventID: 1, PhiSector: 17, RedundantIndex: 0, KeptIndex: 1}, pairs[0])

	stubs, err := db.DigitalStubsForRun(ctx, run.RunID)
	require.NoError(t, err)
	require.Len(t, stubs, 1)
	assert.Equal(t, 17, stubs[0].Codes.PhiSec)

	listing := execute(t, "runs", "--db", dbPath)
	assert.Contains(t, listing, run.RunID)
	assert.Contains(t, listing, "pairFinder")
}

func TestRecordRun(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	defer db.Close()

	t.Run("failure deletes the run and its rows", func(t *testing.T) {
		boom := errors.New("boom")
		run := &sqlite.Run{Command: "digitize", Mode: "none"}
		err := recordRun(ctx, db, run, func(runID string) (sqlite.Run, error) {
			require.NoError(t, db.InsertPairs(ctx, runID, []sqlite.PairRecord{{EventID: 1, RedundantIndex: 0, KeptIndex: 1}}))
			return sqlite.Run{Events: 1}, boom
		})
		require.ErrorIs(t, err, boom)

		_, err = db.GetRun(ctx, run.RunID)
		assert.ErrorIs(t, err, sqlite.ErrRunNotFound)
		pairs, err := db.PairsForRun(ctx, run.RunID)
		require.NoError(t, err)
		assert.Empty(t, pairs)
	})

	t.Run("success stores totals", func(t *testing.T) {
		run := &sqlite.Run{Command: "filter", Mode: "pairFinder"}
		err := recordRun(ctx, db, run, func(string) (sqlite.Run, error) {
			return sqlite.Run{Events: 2, StubsIn: 5, StubsOut: 4, PairsFound: 1}, nil
		})
		require.NoError(t, err)

		got, err := db.GetRun(ctx, run.RunID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Events)
		assert.Equal(t, 4, got.StubsOut)
		assert.Equal(t, 1, got.PairsFound)
		assert.Equal(t, 4, run.StubsOut)
	})

	runs, err := db.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "filter", runs[0].Command)
}

func TestValidateCommand(t *testing.T) {
	events := writeEvents(t)
	dir := t.TempDir()
	plotsDir := filepath.Join(dir, "plots")
	htmlPath := filepath.Join(dir, "report.html")

	out := execute(t, "validate", events, "--plots", plotsDir, "--html", htmlPath)

	var reports []eventReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 1)
	assert.Equal(t, 1, reports[0].PairFinding.TruePairs)
	assert.Equal(t, 1, reports[0].PairFinding.FoundPairs)
	assert.InDelta(t, 1.0, reports[0].Efficiency, 1e-12)
	assert.InDelta(t, 1.0, reports[0].Purity, 1e-12)
	assert.Equal(t, 1, reports[0].Formulae.Pairs)

	entries, err := os.ReadDir(plotsDir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)

	html, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "<html")
}

func TestMigrateCommands(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	assert.Equal(t, "schema version 0\n", execute(t, "migrate", "version", "--db", dbPath))
	assert.Equal(t, "schema version 1\n", execute(t, "migrate", "up", "--db", dbPath))
	assert.Equal(t, "schema version 0\n", execute(t, "migrate", "down", "--db", dbPath))
}

func TestCommandErrors(t *testing.T) {
	events := writeEvents(t)
	tests := []struct {
		name   string
		args   []string
		substr string
	}{
		{"migrate without db", []string{"migrate", "version"}, "--db is required"},
		{"runs without db", []string{"runs"}, "--db is required"},
		{"unknown mode", []string{"filter", events, "--mode", "bogus"}, "unknown pairing mode"},
		{"missing events", []string{"filter", filepath.Join(t.TempDir(), "nope.json")}, "failed to open event file"},
		{"bad log level", []string{"version", "--log-level", "loud"}, "invalid --log-level"},
		{"bad config extension", []string{"filter", events, "--config", "settings.yaml"}, "load config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			cmd := newRootCmd(&out)
			cmd.SetArgs(tt.args)
			err := cmd.Execute()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.substr)
		})
	}
}

func TestVersionCommand(t *testing.T) {
	assert.Contains(t, execute(t, "version"), "dev")
}
