package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
)

// Settings holds the overlap-removal and digitization parameters.
// Fields are pointers so that partial files leave unspecified values at
// their defaults; the Get* accessors supply those defaults.
type Settings struct {
	// Overlap removal
	OverlapMethod    *string  `json:"overlap_method,omitempty" toml:"overlap_method" validate:"omitempty,oneof=none pairFinder truePairFinder deltaKiller"`
	OverlapPtCut     *float64 `json:"overlap_pt_cut,omitempty" toml:"overlap_pt_cut"`
	OverlapZ0Cut     *float64 `json:"overlap_z0_cut,omitempty" toml:"overlap_z0_cut" validate:"omitempty,gt=0"`
	DeltaStubEpsilon *float64 `json:"delta_stub_epsilon,omitempty" toml:"delta_stub_epsilon" validate:"omitempty,gte=0"`
	BField           *float64 `json:"b_field,omitempty" toml:"b_field" validate:"omitempty,gt=0"`

	// Digitization
	FirmwareType  *int     `json:"firmware_type,omitempty" toml:"firmware_type" validate:"omitempty,gte=0"`
	PhiSectorBits *int     `json:"phi_sector_bits,omitempty" toml:"phi_sector_bits" validate:"omitempty,gte=1,lte=16"`
	PhiSBits      *int     `json:"phis_bits,omitempty" toml:"phis_bits" validate:"omitempty,gte=1,lte=30"`
	PhiSRange     *float64 `json:"phis_range,omitempty" toml:"phis_range" validate:"omitempty,gt=0"`
	RtBits        *int     `json:"rt_bits,omitempty" toml:"rt_bits" validate:"omitempty,gte=1,lte=30"`
	RtRange       *float64 `json:"rt_range,omitempty" toml:"rt_range" validate:"omitempty,gt=0"`
	ZBits         *int     `json:"z_bits,omitempty" toml:"z_bits" validate:"omitempty,gte=1,lte=30"`
	ZRange        *float64 `json:"z_range,omitempty" toml:"z_range" validate:"omitempty,gt=0"`
	DPhiBits      *int     `json:"dphi_bits,omitempty" toml:"dphi_bits" validate:"omitempty,gte=1,lte=30"`
	DPhiRange     *float64 `json:"dphi_range,omitempty" toml:"dphi_range" validate:"omitempty,gt=0"`
	RhoBits       *int     `json:"rho_bits,omitempty" toml:"rho_bits" validate:"omitempty,gte=1,lte=30"`
	RhoRange      *float64 `json:"rho_range,omitempty" toml:"rho_range" validate:"omitempty,gt=0"`
	PhiOBits      *int     `json:"phio_bits,omitempty" toml:"phio_bits" validate:"omitempty,gte=1,lte=30"`
	PhiORange     *float64 `json:"phio_range,omitempty" toml:"phio_range" validate:"omitempty,gt=0"`
	BendBits      *int     `json:"bend_bits,omitempty" toml:"bend_bits" validate:"omitempty,gte=1,lte=16"`
	ReduceLayerID *bool    `json:"reduce_layer_id,omitempty" toml:"reduce_layer_id"`
	NumPhiSectors *int     `json:"num_phi_sectors,omitempty" toml:"num_phi_sectors" validate:"omitempty,gte=1"`
	ChosenRofPhi  *float64 `json:"chosen_r_of_phi,omitempty" toml:"chosen_r_of_phi" validate:"omitempty,gt=0"`
	HoughNbinsPt  *int     `json:"hough_nbins_pt,omitempty" toml:"hough_nbins_pt" validate:"omitempty,gte=1"`
}

// FirmwareSystolic is the firmware type that measures phiS from the
// sector edge rather than the sector centre.
const FirmwareSystolic = 9

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

var settingsValidate = validator.New()

// EmptySettings returns Settings with every field nil, so each accessor
// returns its default.
func EmptySettings() *Settings {
	return &Settings{}
}

// DefaultSettings returns Settings with every field explicitly set to
// its default value.
func DefaultSettings() *Settings {
	e := EmptySettings()
	return &Settings{
		OverlapMethod:    ptrString(e.GetOverlapMethod()),
		OverlapPtCut:     ptrFloat64(e.GetOverlapPtCut()),
		OverlapZ0Cut:     ptrFloat64(e.GetOverlapZ0Cut()),
		DeltaStubEpsilon: ptrFloat64(e.GetDeltaStubEpsilon()),
		BField:           ptrFloat64(e.GetBField()),
		FirmwareType:     ptrInt(e.GetFirmwareType()),
		PhiSectorBits:    ptrInt(e.GetPhiSectorBits()),
		PhiSBits:         ptrInt(e.GetPhiSBits()),
		PhiSRange:        ptrFloat64(e.GetPhiSRange()),
		RtBits:           ptrInt(e.GetRtBits()),
		RtRange:          ptrFloat64(e.GetRtRange()),
		ZBits:            ptrInt(e.GetZBits()),
		ZRange:           ptrFloat64(e.GetZRange()),
		DPhiBits:         ptrInt(e.GetDPhiBits()),
		DPhiRange:        ptrFloat64(e.GetDPhiRange()),
		RhoBits:          ptrInt(e.GetRhoBits()),
		RhoRange:         ptrFloat64(e.GetRhoRange()),
		PhiOBits:         ptrInt(e.GetPhiOBits()),
		PhiORange:        ptrFloat64(e.GetPhiORange()),
		BendBits:         ptrInt(e.GetBendBits()),
		ReduceLayerID:    ptrBool(e.GetReduceLayerID()),
		NumPhiSectors:    ptrInt(e.GetNumPhiSectors()),
		ChosenRofPhi:     ptrFloat64(e.GetChosenRofPhi()),
		HoughNbinsPt:     ptrInt(e.GetHoughNbinsPt()),
	}
}

// LoadSettings loads Settings from a .json or .toml file.
// Fields omitted from the file retain their default values, so
// partial configs are safe.
func LoadSettings(path string) (*Settings, error) {
	cleanPath := filepath.Clean(path)
	ext := filepath.Ext(cleanPath)
	if ext != ".json" && ext != ".toml" {
		return nil, fmt.Errorf("config file must have .json or .toml extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptySettings()
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config TOML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *Settings) Validate() error {
	if err := settingsValidate.Struct(c); err != nil {
		return err
	}

	// Sector index is sent in phi_sector_bits.
	if c.GetNumPhiSectors() > 1<<c.GetPhiSectorBits() {
		return fmt.Errorf("num_phi_sectors %d does not fit in phi_sector_bits %d",
			c.GetNumPhiSectors(), c.GetPhiSectorBits())
	}
	return nil
}

// InvPtToDphi converts inverse transverse momentum (1/GeV) to the
// azimuthal bend per unit radius (rad/cm) in the configured field.
func (c *Settings) InvPtToDphi() float64 {
	return c.GetBField() * (3.0e8 / 2.0e11)
}

// GetOverlapMethod returns the overlap_method value or the default.
func (c *Settings) GetOverlapMethod() string {
	if c.OverlapMethod == nil {
		return "none"
	}
	return *c.OverlapMethod
}

// GetOverlapPtCut returns the overlap_pt_cut value or the default.
func (c *Settings) GetOverlapPtCut() float64 {
	if c.OverlapPtCut == nil {
		return 3.0
	}
	return *c.OverlapPtCut
}

// GetOverlapZ0Cut returns the overlap_z0_cut value or the default.
func (c *Settings) GetOverlapZ0Cut() float64 {
	if c.OverlapZ0Cut == nil {
		return 15.0
	}
	return *c.OverlapZ0Cut
}

// GetDeltaStubEpsilon returns the delta_stub_epsilon value or the default.
func (c *Settings) GetDeltaStubEpsilon() float64 {
	if c.DeltaStubEpsilon == nil {
		return 2.0
	}
	return *c.DeltaStubEpsilon
}

// GetBField returns the b_field value (Tesla) or the default.
func (c *Settings) GetBField() float64 {
	if c.BField == nil {
		return 3.8112
	}
	return *c.BField
}

// GetFirmwareType returns the firmware_type value or the default.
func (c *Settings) GetFirmwareType() int {
	if c.FirmwareType == nil {
		return 1
	}
	return *c.FirmwareType
}

// GetPhiSectorBits returns the phi_sector_bits value or the default.
func (c *Settings) GetPhiSectorBits() int {
	if c.PhiSectorBits == nil {
		return 6
	}
	return *c.PhiSectorBits
}

// GetPhiSBits returns the phis_bits value or the default.
func (c *Settings) GetPhiSBits() int {
	if c.PhiSBits == nil {
		return 14
	}
	return *c.PhiSBits
}

// GetPhiSRange returns the phis_range value (radians) or the default.
func (c *Settings) GetPhiSRange() float64 {
	if c.PhiSRange == nil {
		return 0.25
	}
	return *c.PhiSRange
}

// GetRtBits returns the rt_bits value or the default.
func (c *Settings) GetRtBits() int {
	if c.RtBits == nil {
		return 10
	}
	return *c.RtBits
}

// GetRtRange returns the rt_range value (cm) or the default.
func (c *Settings) GetRtRange() float64 {
	if c.RtRange == nil {
		return 103.0382
	}
	return *c.RtRange
}

// GetZBits returns the z_bits value or the default.
func (c *Settings) GetZBits() int {
	if c.ZBits == nil {
		return 12
	}
	return *c.ZBits
}

// GetZRange returns the z_range value (cm) or the default.
func (c *Settings) GetZRange() float64 {
	if c.ZRange == nil {
		return 640.0
	}
	return *c.ZRange
}

// GetDPhiBits returns the dphi_bits value or the default.
func (c *Settings) GetDPhiBits() int {
	if c.DPhiBits == nil {
		return 10
	}
	return *c.DPhiBits
}

// GetDPhiRange returns the dphi_range value (radians) or the default.
func (c *Settings) GetDPhiRange() float64 {
	if c.DPhiRange == nil {
		return 1.0
	}
	return *c.DPhiRange
}

// GetRhoBits returns the rho_bits value or the default.
func (c *Settings) GetRhoBits() int {
	if c.RhoBits == nil {
		return 6
	}
	return *c.RhoBits
}

// GetRhoRange returns the rho_range value or the default.
func (c *Settings) GetRhoRange() float64 {
	if c.RhoRange == nil {
		return 3.0
	}
	return *c.RhoRange
}

// GetPhiOBits returns the phio_bits value or the default.
func (c *Settings) GetPhiOBits() int {
	if c.PhiOBits == nil {
		return 15
	}
	return *c.PhiOBits
}

// GetPhiORange returns the phio_range value (radians) or the default.
func (c *Settings) GetPhiORange() float64 {
	if c.PhiORange == nil {
		return 1.3
	}
	return *c.PhiORange
}

// GetBendBits returns the bend_bits value or the default.
func (c *Settings) GetBendBits() int {
	if c.BendBits == nil {
		return 6
	}
	return *c.BendBits
}

// GetReduceLayerID returns the reduce_layer_id value or the default.
func (c *Settings) GetReduceLayerID() bool {
	if c.ReduceLayerID == nil {
		return true
	}
	return *c.ReduceLayerID
}

// GetNumPhiSectors returns the num_phi_sectors value or the default.
func (c *Settings) GetNumPhiSectors() int {
	if c.NumPhiSectors == nil {
		return 32
	}
	return *c.NumPhiSectors
}

// GetChosenRofPhi returns the chosen_r_of_phi value (cm) or the default.
func (c *Settings) GetChosenRofPhi() float64 {
	if c.ChosenRofPhi == nil {
		return 65.0
	}
	return *c.ChosenRofPhi
}

// GetHoughNbinsPt returns the hough_nbins_pt value or the default.
func (c *Settings) GetHoughNbinsPt() int {
	if c.HoughNbinsPt == nil {
		return 32
	}
	return *c.HoughNbinsPt
}
