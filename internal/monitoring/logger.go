package monitoring

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logf is the package-level diagnostic logger. It defaults to a zerolog
// console writer on stderr but may be replaced by SetLogger or
// UseZerolog. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = zerologf(NewConsoleLogger(zerolog.InfoLevel))

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}

// UseZerolog routes Logf through the given zerolog logger at info level.
func UseZerolog(logger zerolog.Logger) {
	Logf = zerologf(logger)
}

// NewConsoleLogger builds the human-readable stderr logger used by the CLI.
func NewConsoleLogger(level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func zerologf(logger zerolog.Logger) func(format string, v ...interface{}) {
	return func(format string, v ...interface{}) {
		logger.Info().Msg(fmt.Sprintf(format, v...))
	}
}
