package pipeline

import (
	"errors"
	"fmt"
	"sort"

	"github.com/banshee-data/l1track/internal/config"
	"github.com/banshee-data/l1track/internal/digitize"
	"github.com/banshee-data/l1track/internal/eventio"
	"github.com/banshee-data/l1track/internal/monitoring"
	"github.com/banshee-data/l1track/internal/overlap"
	"github.com/banshee-data/l1track/internal/sector"
	"github.com/banshee-data/l1track/internal/stub"
)

// Options tune a Processor.
type Options struct {
	// SkipDigitize stops after overlap removal.
	SkipDigitize bool
	// Overlap are passed to every sector's Resolver.
	Overlap []overlap.Option
}

// Digitized pairs a stub with its digitized form.
type Digitized struct {
	Stub    *stub.Stub
	Digital *digitize.DigitalStub
}

// StubError is a per-stub digitization failure.
type StubError struct {
	Stub *stub.Stub
	Err  error
}

func (e *StubError) Error() string { return e.Err.Error() }

func (e *StubError) Unwrap() error { return e.Err }

// SectorResult is the output of one phi sector.
type SectorResult struct {
	PhiSector int
	Stubs     []*stub.Stub // assigned to the sector, input order
	Pairs     []stub.Pair
	Filtered  []*stub.Stub
	Digitized []Digitized
	Errors    []*StubError
}

// Result is the output of one event.
type Result struct {
	EventID int
	Mode    overlap.Mode
	Sectors []SectorResult
}

// Filtered returns the surviving stubs of every sector in input order.
func (r *Result) Filtered() []*stub.Stub {
	var out []*stub.Stub
	for _, s := range r.Sectors {
		out = append(out, s.Filtered...)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Index < out[j].Index })
	return out
}

// NumPairs returns the number of pairs over all sectors.
func (r *Result) NumPairs() int {
	n := 0
	for _, s := range r.Sectors {
		n += len(s.Pairs)
	}
	return n
}

// NumDigitized returns the number of stubs digitized over all sectors.
func (r *Result) NumDigitized() int {
	n := 0
	for _, s := range r.Sectors {
		n += len(s.Digitized)
	}
	return n
}

// Errors returns every per-stub failure, sector by sector.
func (r *Result) Errors() []*StubError {
	var out []*StubError
	for _, s := range r.Sectors {
		out = append(out, s.Errors...)
	}
	return out
}

// Processor holds the configuration shared by every event.
type Processor struct {
	settings *config.Settings
	mode     overlap.Mode
	sectors  sector.Geometry
	format   *digitize.Format
	opts     Options
}

// New validates mode and settings and prepares the digitization format.
// A nil settings uses defaults.
func New(settings *config.Settings, mode overlap.Mode, opts Options) (*Processor, error) {
	if settings == nil {
		settings = config.EmptySettings()
	}
	m, err := overlap.ParseMode(string(mode))
	if err != nil {
		return nil, err
	}
	p := &Processor{
		settings: settings,
		mode:     m,
		sectors:  sector.FromSettings(settings),
		opts:     opts,
	}
	if !opts.SkipDigitize {
		p.format, err = digitize.NewFormat(settings)
		if err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Format returns the digitization format, or nil when digitization is skipped.
func (p *Processor) Format() *digitize.Format { return p.format }

// Mode returns the requested overlap mode.
func (p *Processor) Mode() overlap.Mode { return p.mode }

// Process runs overlap removal and digitization over one event. It fails
// only on configuration errors; per-stub digitization failures are
// reported in the result.
func (p *Processor) Process(ev eventio.Event) (*Result, error) {
	bySector, err := p.sectors.Split(ev.Stubs)
	if err != nil {
		return nil, err
	}

	res := &Result{EventID: ev.ID, Mode: p.mode, Sectors: make([]SectorResult, len(bySector))}
	for i, stubs := range bySector {
		sr, err := p.processSector(i, stubs)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", ev.ID, err)
		}
		res.Sectors[i] = sr
	}
	return res, nil
}

func (p *Processor) processSector(iPhiSec int, stubs []*stub.Stub) (SectorResult, error) {
	sr := SectorResult{PhiSector: iPhiSec, Stubs: stubs}

	r := overlap.NewResolver(stubs, p.settings, p.opts.Overlap...)
	pairs, err := r.Pairs(p.mode)
	if err != nil {
		return sr, err
	}
	filtered, err := r.Filtered(p.mode)
	if err != nil {
		return sr, err
	}
	sr.Pairs = pairs
	sr.Filtered = filtered

	label := p.mode.String()
	monitoring.StubsIn.WithLabelValues(label).Add(float64(len(stubs)))
	monitoring.StubsOut.WithLabelValues(label).Add(float64(len(filtered)))
	monitoring.PairsFound.WithLabelValues(label).Add(float64(len(pairs)))

	if p.format == nil {
		return sr, nil
	}
	for _, s := range filtered {
		d, err := digitize.DigitizeStub(p.format, s, iPhiSec)
		if err != nil {
			monitoring.DigitizeErrors.WithLabelValues(ErrorKind(err)).Inc()
			sr.Errors = append(sr.Errors, &StubError{Stub: s, Err: err})
			continue
		}
		monitoring.StubsDigitized.Inc()
		sr.Digitized = append(sr.Digitized, Digitized{Stub: s, Digital: d})
	}
	return sr, nil
}

// Process is a one-shot form of New followed by Processor.Process.
func Process(ev eventio.Event, settings *config.Settings, mode overlap.Mode, opts Options) (*Result, error) {
	p, err := New(settings, mode, opts)
	if err != nil {
		return nil, err
	}
	return p.Process(ev)
}

// ErrorKind labels a digitization error for metrics: the range field for
// a *digitize.RangeError, otherwise module_type, phi_sector, sequence or
// other.
func ErrorKind(err error) string {
	var re *digitize.RangeError
	switch {
	case errors.As(err, &re):
		return re.Field
	case errors.Is(err, digitize.ErrUnknownModuleType):
		return "module_type"
	case errors.Is(err, digitize.ErrOutOfRange):
		return "phi_sector"
	case errors.Is(err, digitize.ErrNotInitialized), errors.Is(err, digitize.ErrFrozen):
		return "sequence"
	default:
		return "other"
	}
}
