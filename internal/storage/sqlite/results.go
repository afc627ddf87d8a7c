package sqlite

import (
	"context"
	"fmt"

	"github.com/banshee-data/l1track/internal/digitize"
	"github.com/banshee-data/l1track/internal/stub"
)

// PairRecord is one duplicate stub pair, identified by stub indices
// within the event.
type PairRecord struct {
	EventID        int `json:"event_id"`
	PhiSector      int `json:"phi_sector"`
	RedundantIndex int `json:"redundant_index"`
	KeptIndex      int `json:"kept_index"`
}

// PairRecords converts the pairs found in one sector of one event.
func PairRecords(eventID, phiSector int, pairs []stub.Pair) []PairRecord {
	out := make([]PairRecord, len(pairs))
	for i, p := range pairs {
		out[i] = PairRecord{
			EventID:        eventID,
			PhiSector:      phiSector,
			RedundantIndex: p.First.Index,
			KeptIndex:      p.Second.Index,
		}
	}
	return out
}

// DigitalStubRecord is the firmware word set of one stub. The phi sector
// is Codes.PhiSec.
type DigitalStubRecord struct {
	EventID   int            `json:"event_id"`
	StubIndex int            `json:"stub_index"`
	Codes     digitize.Codes `json:"codes"`
}

// InsertPairs stores pair records for a run in one transaction.
func (db *DB) InsertPairs(ctx context.Context, runID string, records []PairRecord) error {
	if len(records) == 0 {
		return nil
	}
	return retryOnBusy(func() error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO stub_pairs (run_id, event_id, phi_sector, redundant_index, kept_index)
			VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, r := range records {
			if _, err := stmt.ExecContext(ctx, runID, r.EventID, r.PhiSector, r.RedundantIndex, r.KeptIndex); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}

// PairsForRun returns a run's pairs in insertion order.
func (db *DB) PairsForRun(ctx context.Context, runID string) ([]PairRecord, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT event_id, phi_sector, redundant_index, kept_index
		FROM stub_pairs
		WHERE run_id = ?
		ORDER BY pair_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("query stub pairs: %w", err)
	}
	defer rows.Close()

	var out []PairRecord
	for rows.Next() {
		var r PairRecord
		if err := rows.Scan(&r.EventID, &r.PhiSector, &r.RedundantIndex, &r.KeptIndex); err != nil {
			return nil, fmt.Errorf("scan stub pair: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// InsertDigitalStubs stores digitized stubs for a run in one transaction.
func (db *DB) InsertDigitalStubs(ctx context.Context, runID string, records []DigitalStubRecord) error {
	if len(records) == 0 {
		return nil
	}
	return retryOnBusy(func() error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO digital_stubs (
				run_id, event_id, phi_sector, stub_index,
				phi_s, rt, z, dphi, rho, m_min, m_max,
				octant, phi_o, bend, module_type, layer_code
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for _, r := range records {
			c := r.Codes
			if _, err := stmt.ExecContext(ctx,
				runID, r.EventID, c.PhiSec, r.StubIndex,
				c.PhiS, c.Rt, c.Z, c.DPhi, c.Rho, c.MMin, c.MMax,
				c.Octant, c.PhiO, c.Bend, c.ModuleType, c.LayerCode,
			); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}

// DigitalStubsForRun returns a run's digitized stubs ordered by event,
// sector and stub index.
func (db *DB) DigitalStubsForRun(ctx context.Context, runID string) ([]DigitalStubRecord, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT event_id, phi_sector, stub_index,
		       phi_s, rt, z, dphi, rho, m_min, m_max,
		       octant, phi_o, bend, module_type, layer_code
		FROM digital_stubs
		WHERE run_id = ?
		ORDER BY event_id, phi_sector, stub_index`, runID)
	if err != nil {
		return nil, fmt.Errorf("query digital stubs: %w", err)
	}
	defer rows.Close()

	var out []DigitalStubRecord
	for rows.Next() {
		var r DigitalStubRecord
		c := &r.Codes
		if err := rows.Scan(
			&r.EventID, &c.PhiSec, &r.StubIndex,
			&c.PhiS, &c.Rt, &c.Z, &c.DPhi, &c.Rho, &c.MMin, &c.MMax,
			&c.Octant, &c.PhiO, &c.Bend, &c.ModuleType, &c.LayerCode,
		); err != nil {
			return nil, fmt.Errorf("scan digital stub: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
