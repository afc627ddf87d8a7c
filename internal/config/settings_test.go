package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultSettings(t *testing.T) {
	cfg := DefaultSettings()

	// Test that defaults are set via pointers
	if cfg.OverlapMethod == nil || *cfg.OverlapMethod != "none" {
		t.Errorf("Expected OverlapMethod none, got %v", cfg.OverlapMethod)
	}
	if cfg.OverlapPtCut == nil || *cfg.OverlapPtCut != 3.0 {
		t.Errorf("Expected OverlapPtCut 3.0, got %v", cfg.OverlapPtCut)
	}
	if cfg.OverlapZ0Cut == nil || *cfg.OverlapZ0Cut != 15.0 {
		t.Errorf("Expected OverlapZ0Cut 15.0, got %v", cfg.OverlapZ0Cut)
	}
	if cfg.ReduceLayerID == nil || *cfg.ReduceLayerID != true {
		t.Errorf("Expected ReduceLayerID true, got %v", cfg.ReduceLayerID)
	}

	// Test getter methods
	if cfg.GetNumPhiSectors() != 32 {
		t.Errorf("GetNumPhiSectors() = %d, want 32", cfg.GetNumPhiSectors())
	}
	if cfg.GetHoughNbinsPt() != 32 {
		t.Errorf("GetHoughNbinsPt() = %d, want 32", cfg.GetHoughNbinsPt())
	}
	if cfg.GetChosenRofPhi() != 65.0 {
		t.Errorf("GetChosenRofPhi() = %f, want 65.0", cfg.GetChosenRofPhi())
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultSettings() failed validation: %v", err)
	}
}

func TestInvPtToDphi(t *testing.T) {
	cfg := &Settings{BField: ptrFloat64(4.0)}
	if got := cfg.InvPtToDphi(); math.Abs(got-0.006) > 1e-12 {
		t.Errorf("InvPtToDphi() = %v, want 0.006", got)
	}
}

func TestLoadSettingsJSON(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "settings.json")

	testJSON := `{
  "overlap_method": "pairFinder",
  "overlap_pt_cut": 2.5,
  "z_bits": 11,
  "reduce_layer_id": false
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadSettings(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetOverlapMethod() != "pairFinder" {
		t.Errorf("Expected OverlapMethod pairFinder, got %q", cfg.GetOverlapMethod())
	}
	if cfg.GetOverlapPtCut() != 2.5 {
		t.Errorf("Expected OverlapPtCut 2.5, got %v", cfg.GetOverlapPtCut())
	}
	if cfg.GetZBits() != 11 {
		t.Errorf("Expected ZBits 11, got %d", cfg.GetZBits())
	}
	if cfg.GetReduceLayerID() {
		t.Error("Expected ReduceLayerID false")
	}
	// Unspecified fields keep their defaults.
	if cfg.GetOverlapZ0Cut() != 15.0 {
		t.Errorf("Expected default OverlapZ0Cut 15.0, got %v", cfg.GetOverlapZ0Cut())
	}
}

func TestLoadSettingsTOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "settings.toml")

	testTOML := `
overlap_method = "truePairFinder"
overlap_z0_cut = 20.0
num_phi_sectors = 16
firmware_type = 9
`
	if err := os.WriteFile(configPath, []byte(testTOML), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadSettings(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.GetOverlapMethod() != "truePairFinder" {
		t.Errorf("Expected OverlapMethod truePairFinder, got %q", cfg.GetOverlapMethod())
	}
	if cfg.GetOverlapZ0Cut() != 20.0 {
		t.Errorf("Expected OverlapZ0Cut 20.0, got %v", cfg.GetOverlapZ0Cut())
	}
	if cfg.GetNumPhiSectors() != 16 {
		t.Errorf("Expected NumPhiSectors 16, got %d", cfg.GetNumPhiSectors())
	}
	if cfg.GetFirmwareType() != FirmwareSystolic {
		t.Errorf("Expected FirmwareType %d, got %d", FirmwareSystolic, cfg.GetFirmwareType())
	}
}

func TestLoadSettingsMissing(t *testing.T) {
	_, err := LoadSettings("/nonexistent/path/to/settings.json")
	if err == nil {
		t.Error("Expected error when loading missing file, got nil")
	}
}

func TestLoadSettingsBadExtension(t *testing.T) {
	_, err := LoadSettings("settings.yaml")
	if err == nil {
		t.Error("Expected error for unsupported extension, got nil")
	}
}

func TestLoadSettingsInvalid(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.json")

	invalidJSON := `{
  "overlap_pt_cut": "invalid"
`
	if err := os.WriteFile(configPath, []byte(invalidJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	_, err := LoadSettings(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid JSON, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Settings
		wantErr bool
	}{
		{
			name:    "valid config",
			cfg:     DefaultSettings(),
			wantErr: false,
		},
		{
			name:    "empty config is valid",
			cfg:     &Settings{},
			wantErr: false,
		},
		{
			name:    "unknown overlap method",
			cfg:     &Settings{OverlapMethod: ptrString("bogus")},
			wantErr: true,
		},
		{
			name:    "configured is not a concrete method",
			cfg:     &Settings{OverlapMethod: ptrString("configured")},
			wantErr: true,
		},
		{
			name:    "non-positive z range",
			cfg:     &Settings{ZRange: ptrFloat64(0)},
			wantErr: true,
		},
		{
			name:    "zero bits",
			cfg:     &Settings{PhiSBits: ptrInt(0)},
			wantErr: true,
		},
		{
			name:    "too many sectors for sector bits",
			cfg:     &Settings{NumPhiSectors: ptrInt(64), PhiSectorBits: ptrInt(5)},
			wantErr: true,
		},
		{
			name:    "negative delta epsilon",
			cfg:     &Settings{DeltaStubEpsilon: ptrFloat64(-1)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
