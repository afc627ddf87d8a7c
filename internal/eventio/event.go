package eventio

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"

	"github.com/banshee-data/l1track/internal/stub"
)

var (
	// ErrUnknownTruth is returned when a stub names a truth id the event
	// does not define.
	ErrUnknownTruth = errors.New("eventio: unknown truth particle")
	// ErrDuplicateTruth is returned when an event defines a truth id twice.
	ErrDuplicateTruth = errors.New("eventio: duplicate truth particle")
)

// Event is one collision: its stubs in input order and the truth
// particles they may be matched to.
type Event struct {
	ID    int
	Stubs []*stub.Stub
	Truth []*stub.TruthParticle
}

type fileRecord struct {
	Events []eventRecord `json:"events" validate:"dive"`
}

type eventRecord struct {
	EventID int                   `json:"event_id"`
	Truth   []*stub.TruthParticle `json:"truth,omitempty"`
	Stubs   []stubRecord          `json:"stubs" validate:"dive"`
}

type stubRecord struct {
	LayerID        int        `json:"layer_id" validate:"gte=1,lte=25"`
	LayerIDReduced int        `json:"layer_id_reduced" validate:"gte=0,lte=7"`
	ModuleID       int        `json:"module_id"`
	Barrel         bool       `json:"barrel"`
	PSModule       bool       `json:"ps_module"`
	MinR           float64    `json:"min_r" validate:"gte=0"`
	MaxR           float64    `json:"max_r" validate:"gtefield=MinR"`
	MinPhi         float64    `json:"min_phi"`
	MaxPhi         float64    `json:"max_phi"`
	MinZ           float64    `json:"min_z"`
	MaxZ           float64    `json:"max_z" validate:"gtefield=MinZ"`
	R              float64    `json:"r" validate:"gte=0"`
	Phi            float64    `json:"phi"`
	Z              float64    `json:"z"`
	Bend           float64    `json:"bend"`
	LocalU         [2]float64 `json:"local_u"`
	LocalV         [2]float64 `json:"local_v"`
	QOverPt        float64    `json:"q_over_pt"`
	QOverPtRes     float64    `json:"q_over_pt_res" validate:"gte=0"`
	Pitch          float64    `json:"pitch" validate:"gte=0"`
	Separation     float64    `json:"separation" validate:"gte=0"`
	DPhi           float64    `json:"dphi"`
	Rho            float64    `json:"rho"`
	MinQOverPtBin  int        `json:"min_q_over_pt_bin" validate:"gte=0"`
	MaxQOverPtBin  int        `json:"max_q_over_pt_bin" validate:"gtefield=MinQOverPtBin"`
	TruthIDs       []int      `json:"truth_ids,omitempty"`
}

var recordValidate = validator.New()

// Load reads an event file.
func Load(path string) ([]Event, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open event file: %w", err)
	}
	defer f.Close()

	events, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return events, nil
}

// Decode reads an event file from r. Stub indices are their positions
// within the event.
func Decode(r io.Reader) ([]Event, error) {
	var rec fileRecord
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&rec); err != nil {
		return nil, fmt.Errorf("failed to parse events JSON: %w", err)
	}
	if err := recordValidate.Struct(&rec); err != nil {
		return nil, fmt.Errorf("invalid events: %w", err)
	}

	events := make([]Event, 0, len(rec.Events))
	for _, er := range rec.Events {
		ev, err := er.event()
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", er.EventID, err)
		}
		events = append(events, ev)
	}
	return events, nil
}

func (er eventRecord) event() (Event, error) {
	truth := make(map[int]*stub.TruthParticle, len(er.Truth))
	for _, tp := range er.Truth {
		if tp == nil {
			continue
		}
		if _, ok := truth[tp.ID]; ok {
			return Event{}, fmt.Errorf("%w: id %d", ErrDuplicateTruth, tp.ID)
		}
		truth[tp.ID] = tp
	}

	ev := Event{ID: er.EventID, Truth: er.Truth, Stubs: make([]*stub.Stub, len(er.Stubs))}
	for i, sr := range er.Stubs {
		s := sr.stub(i)
		for _, id := range sr.TruthIDs {
			tp, ok := truth[id]
			if !ok {
				return Event{}, fmt.Errorf("stub %d: %w: id %d", i, ErrUnknownTruth, id)
			}
			s.TruthParticles = append(s.TruthParticles, tp)
		}
		ev.Stubs[i] = s
	}
	return ev, nil
}

func (sr stubRecord) stub(index int) *stub.Stub {
	return &stub.Stub{
		Index:          index,
		LayerID:        sr.LayerID,
		LayerIDReduced: sr.LayerIDReduced,
		ModuleID:       sr.ModuleID,
		Barrel:         sr.Barrel,
		PSModule:       sr.PSModule,
		MinR:           sr.MinR,
		MaxR:           sr.MaxR,
		MinPhi:         sr.MinPhi,
		MaxPhi:         sr.MaxPhi,
		MinZ:           sr.MinZ,
		MaxZ:           sr.MaxZ,
		R:              sr.R,
		Phi:            sr.Phi,
		Z:              sr.Z,
		Bend:           sr.Bend,
		LocalU:         sr.LocalU,
		LocalV:         sr.LocalV,
		QOverPt:        sr.QOverPt,
		QOverPtRes:     sr.QOverPtRes,
		Pitch:          sr.Pitch,
		Separation:     sr.Separation,
		DPhi:           sr.DPhi,
		Rho:            sr.Rho,
		MinQOverPtBin:  sr.MinQOverPtBin,
		MaxQOverPtBin:  sr.MaxQOverPtBin,
	}
}

func recordOf(s *stub.Stub) stubRecord {
	sr := stubRecord{
		LayerID:        s.LayerID,
		LayerIDReduced: s.LayerIDReduced,
		ModuleID:       s.ModuleID,
		Barrel:         s.Barrel,
		PSModule:       s.PSModule,
		MinR:           s.MinR,
		MaxR:           s.MaxR,
		MinPhi:         s.MinPhi,
		MaxPhi:         s.MaxPhi,
		MinZ:           s.MinZ,
		MaxZ:           s.MaxZ,
		R:              s.R,
		Phi:            s.Phi,
		Z:              s.Z,
		Bend:           s.Bend,
		LocalU:         s.LocalU,
		LocalV:         s.LocalV,
		QOverPt:        s.QOverPt,
		QOverPtRes:     s.QOverPtRes,
		Pitch:          s.Pitch,
		Separation:     s.Separation,
		DPhi:           s.DPhi,
		Rho:            s.Rho,
		MinQOverPtBin:  s.MinQOverPtBin,
		MaxQOverPtBin:  s.MaxQOverPtBin,
	}
	for _, tp := range s.TruthParticles {
		sr.TruthIDs = append(sr.TruthIDs, tp.ID)
	}
	return sr
}

// Encode writes events in the format Decode reads. Stubs are written in
// slice order, so a reloaded event renumbers them from zero.
func Encode(w io.Writer, events []Event) error {
	rec := fileRecord{Events: make([]eventRecord, len(events))}
	for i, ev := range events {
		er := eventRecord{EventID: ev.ID, Truth: ev.Truth, Stubs: make([]stubRecord, len(ev.Stubs))}
		for j, s := range ev.Stubs {
			er.Stubs[j] = recordOf(s)
		}
		rec.Events[i] = er
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return fmt.Errorf("failed to encode events JSON: %w", err)
	}
	return nil
}

// Save writes events to path.
func Save(path string, events []Event) error {
	f, err := os.Create(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("failed to create event file: %w", err)
	}
	if err := Encode(f, events); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
