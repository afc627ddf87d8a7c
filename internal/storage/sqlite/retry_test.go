package sqlite

import (
	"errors"
	"testing"
)

func TestIsSQLiteBusy(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "database is locked", err: errors.New("database is locked (5) (SQLITE_BUSY)"), expected: true},
		{name: "SQLITE_BUSY", err: errors.New("SQLITE_BUSY"), expected: true},
		{name: "other error", err: errors.New("no such table: runs"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isSQLiteBusy(tt.err); got != tt.expected {
				t.Errorf("isSQLiteBusy(%v) = %v, want %v", tt.err, got, tt.expected)
			}
		})
	}
}

func TestRetryOnBusy(t *testing.T) {
	t.Run("success on first try", func(t *testing.T) {
		calls := 0
		err := retryOnBusy(func() error {
			calls++
			return nil
		})
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})

	t.Run("success after retry", func(t *testing.T) {
		calls := 0
		err := retryOnBusy(func() error {
			calls++
			if calls < 3 {
				return errors.New("database is locked (5) (SQLITE_BUSY)")
			}
			return nil
		})
		if err != nil {
			t.Errorf("expected no error, got %v", err)
		}
		if calls != 3 {
			t.Errorf("expected 3 calls, got %d", calls)
		}
	})

	t.Run("non-busy error is not retried", func(t *testing.T) {
		calls := 0
		want := errors.New("constraint failed")
		err := retryOnBusy(func() error {
			calls++
			return want
		})
		if !errors.Is(err, want) {
			t.Errorf("expected %v, got %v", want, err)
		}
		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		calls := 0
		err := retryOnBusy(func() error {
			calls++
			return errors.New("SQLITE_BUSY")
		})
		if err == nil {
			t.Error("expected error after exhausting retries")
		}
		if calls != maxBusyRetries {
			t.Errorf("expected %d calls, got %d", maxBusyRetries, calls)
		}
	})
}
