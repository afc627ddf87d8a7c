package sqlite

import (
	"strings"
	"time"
)

const (
	maxBusyRetries   = 5
	initialBusyDelay = 10 * time.Millisecond
)

// retryOnBusy runs fn, retrying with exponential backoff while SQLite
// reports the database as locked.
func retryOnBusy(fn func() error) error {
	delay := initialBusyDelay
	var err error
	for attempt := 0; attempt < maxBusyRetries; attempt++ {
		err = fn()
		if !isSQLiteBusy(err) {
			return err
		}
		if attempt < maxBusyRetries-1 {
			time.Sleep(delay)
			delay *= 2
		}
	}
	return err
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "database is locked") || strings.Contains(msg, "SQLITE_BUSY")
}
