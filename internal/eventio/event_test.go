package eventio

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/l1track/internal/stub"
)

const sampleEvents = `{
  "events": [
    {
      "event_id": 42,
      "truth": [
        {"id": 7, "pt": 4.0, "q_over_pt": 0.25, "z0": 3.2, "eta": 0.5, "phi0": 0.2},
        {"id": 9, "pt": 1.5, "q_over_pt": -0.66, "z0": -1.0, "eta": -1.1, "phi0": 2.9}
      ],
      "stubs": [
        {"layer_id": 3, "layer_id_reduced": 3, "module_id": 10, "barrel": true, "ps_module": true,
         "min_r": 49.5, "max_r": 50.5, "min_phi": 0.19, "max_phi": 0.21, "min_z": 28.0, "max_z": 28.4,
         "r": 50, "phi": 0.2, "z": 28.2, "bend": 1.5, "q_over_pt": 0.25, "q_over_pt_res": 0.1,
         "pitch": 0.01, "separation": 0.26, "truth_ids": [9, 7]},
        {"layer_id": 3, "layer_id_reduced": 3, "module_id": 11, "barrel": true, "ps_module": true,
         "min_r": 53.5, "max_r": 54.5, "min_phi": 0.18, "max_phi": 0.20, "min_z": 30.0, "max_z": 30.4,
         "r": 54, "phi": 0.194, "z": 30.2, "truth_ids": [7]},
        {"layer_id": 12, "module_id": 200, "r": 80, "phi": -1.0, "z": 150}
      ]
    },
    {"event_id": 43, "stubs": []}
  ]
}`

func TestDecode(t *testing.T) {
	events, err := Decode(strings.NewReader(sampleEvents))
	require.NoError(t, err)
	require.Len(t, events, 2)

	ev := events[0]
	assert.Equal(t, 42, ev.ID)
	require.Len(t, ev.Truth, 2)
	require.Len(t, ev.Stubs, 3)

	for i, s := range ev.Stubs {
		assert.Equal(t, i, s.Index)
	}

	s0 := ev.Stubs[0]
	assert.Equal(t, 10, s0.ModuleID)
	assert.True(t, s0.Barrel)
	assert.InDelta(t, 1.5, s0.Bend, 1e-12)
	r, phi, z := s0.BoxCentre()
	assert.InDelta(t, 50.0, r, 1e-12)
	assert.InDelta(t, 0.2, phi, 1e-12)
	assert.InDelta(t, 28.2, z, 1e-12)

	// Association order follows truth_ids, and pointers are shared.
	require.Len(t, s0.TruthParticles, 2)
	assert.Same(t, ev.Truth[1], s0.TruthParticles[0])
	assert.Same(t, ev.Truth[0], s0.TruthParticles[1])
	assert.Same(t, ev.Truth[0], ev.Stubs[1].TruthParticles[0])

	assert.False(t, ev.Stubs[2].Genuine())
	assert.Empty(t, events[1].Stubs)
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
		substr  string
	}{
		{
			name:   "malformed JSON",
			input:  `{"events": [`,
			substr: "failed to parse events JSON",
		},
		{
			name:   "unknown field",
			input:  `{"events": [{"event_id": 1, "stubs": [{"layer_id": 1, "colour": "red"}]}]}`,
			substr: "failed to parse events JSON",
		},
		{
			name:    "unknown truth id",
			input:   `{"events": [{"event_id": 1, "truth": [{"id": 1}], "stubs": [{"layer_id": 1, "truth_ids": [2]}]}]}`,
			wantErr: ErrUnknownTruth,
		},
		{
			name:    "duplicate truth id",
			input:   `{"events": [{"event_id": 1, "truth": [{"id": 1}, {"id": 1}], "stubs": []}]}`,
			wantErr: ErrDuplicateTruth,
		},
		{
			name:   "layer out of range",
			input:  `{"events": [{"event_id": 1, "stubs": [{"layer_id": 0}]}]}`,
			substr: "invalid events",
		},
		{
			name:   "inverted bounding box",
			input:  `{"events": [{"event_id": 1, "stubs": [{"layer_id": 1, "min_r": 5, "max_r": 4}]}]}`,
			substr: "invalid events",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input))
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
			}
			if tt.substr != "" {
				assert.Contains(t, err.Error(), tt.substr)
			}
		})
	}
}

func TestEncodeDecode_PreservesStubsAndTruth(t *testing.T) {
	want, err := Decode(strings.NewReader(sampleEvents))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, want))

	got, err := Decode(&buf)
	require.NoError(t, err)

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch after re-encoding (-want +got):\n%s", diff)
	}
}

func TestEncode_RenumbersFilteredStubs(t *testing.T) {
	events, err := Decode(strings.NewReader(sampleEvents))
	require.NoError(t, err)

	kept := events[0]
	kept.Stubs = []*stub.Stub{kept.Stubs[2]}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, []Event{kept}))
	got, err := Decode(&buf)
	require.NoError(t, err)
	require.Len(t, got[0].Stubs, 1)
	assert.Equal(t, 0, got[0].Stubs[0].Index)
	assert.Equal(t, 200, got[0].Stubs[0].ModuleID)
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.json")
	require.NoError(t, os.WriteFile(in, []byte(sampleEvents), 0o644))

	events, err := Load(in)
	require.NoError(t, err)
	require.Len(t, events, 2)

	out := filepath.Join(dir, "out.json")
	require.NoError(t, Save(out, events))
	again, err := Load(out)
	require.NoError(t, err)
	assert.Len(t, again, 2)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
