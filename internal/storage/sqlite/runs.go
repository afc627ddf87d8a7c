package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned when a run id has no row.
var ErrRunNotFound = errors.New("run not found")

// Run is one invocation of a processing command over an event file.
type Run struct {
	RunID          string          `json:"run_id"`
	Command        string          `json:"command"`
	Mode           string          `json:"mode"`
	Source         string          `json:"source"`
	SettingsJSON   json.RawMessage `json:"settings_json,omitempty"`
	Events         int             `json:"events"`
	StubsIn        int             `json:"stubs_in"`
	StubsOut       int             `json:"stubs_out"`
	PairsFound     int             `json:"pairs_found"`
	DigitizeErrors int             `json:"digitize_errors"`
	CreatedAt      int64           `json:"created_at"`
}

// InsertRun persists a new run. If RunID is empty, a UUID is generated.
func (db *DB) InsertRun(ctx context.Context, run *Run) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.CreatedAt == 0 {
		run.CreatedAt = time.Now().UnixNano()
	}

	var settings interface{}
	if len(run.SettingsJSON) > 0 {
		settings = string(run.SettingsJSON)
	}

	return retryOnBusy(func() error {
		_, err := db.ExecContext(ctx, `
			INSERT INTO runs (
				run_id, command, mode, source, settings_json,
				events, stubs_in, stubs_out, pairs_found, digitize_errors, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, run.Command, run.Mode, run.Source, settings,
			run.Events, run.StubsIn, run.StubsOut, run.PairsFound, run.DigitizeErrors, run.CreatedAt,
		)
		return err
	})
}

// UpdateRunTotals stores the final counters of a run.
func (db *DB) UpdateRunTotals(ctx context.Context, run *Run) error {
	return retryOnBusy(func() error {
		res, err := db.ExecContext(ctx, `
			UPDATE runs
			SET events = ?, stubs_in = ?, stubs_out = ?, pairs_found = ?, digitize_errors = ?
			WHERE run_id = ?`,
			run.Events, run.StubsIn, run.StubsOut, run.PairsFound, run.DigitizeErrors, run.RunID,
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", ErrRunNotFound, run.RunID)
		}
		return nil
	})
}

// DeleteRun removes a run. Its pairs and digital stubs go with it.
func (db *DB) DeleteRun(ctx context.Context, runID string) error {
	return retryOnBusy(func() error {
		res, err := db.ExecContext(ctx, `DELETE FROM runs WHERE run_id = ?`, runID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil
	})
}

// GetRun returns a single run by id.
func (db *DB) GetRun(ctx context.Context, runID string) (*Run, error) {
	row := db.QueryRowContext(ctx, `
		SELECT run_id, command, mode, source, settings_json,
		       events, stubs_in, stubs_out, pairs_found, digitize_errors, created_at
		FROM runs
		WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("query run: %w", err)
	}
	return r, nil
}

// ListRuns returns the most recent runs, newest first. A limit of zero
// or less returns every run.
func (db *DB) ListRuns(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := db.QueryContext(ctx, `
		SELECT run_id, command, mode, source, settings_json,
		       events, stubs_in, stubs_out, pairs_found, digitize_errors, created_at
		FROM runs
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*Run, error) {
	var r Run
	var settings sql.NullString
	err := row.Scan(
		&r.RunID, &r.Command, &r.Mode, &r.Source, &settings,
		&r.Events, &r.StubsIn, &r.StubsOut, &r.PairsFound, &r.DigitizeErrors, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if settings.Valid {
		r.SettingsJSON = json.RawMessage(settings.String)
	}
	return &r, nil
}
