package monitoring

import (
	"bytes"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
)

func TestSetLogger(t *testing.T) {
	// Save original logger
	original := Logf
	defer func() { Logf = original }()

	called := false
	customLogger := func(format string, v ...interface{}) {
		called = true
	}

	SetLogger(customLogger)
	Logf("test message")

	if !called {
		t.Error("Custom logger was not called")
	}

	// Now set to nil and verify it doesn't call our logger
	called = false
	SetLogger(nil)
	Logf("test")
	if called {
		t.Error("No-op logger should not have triggered callback")
	}
}

func TestUseZerolog(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var buf bytes.Buffer
	UseZerolog(zerolog.New(&buf))
	Logf("stub %d out of range", 7)

	if !strings.Contains(buf.String(), "stub 7 out of range") {
		t.Errorf("expected formatted message in output, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), `"level":"info"`) {
		t.Errorf("expected info level in output, got %q", buf.String())
	}
}

func TestUseZerolog_LevelFiltered(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	var buf bytes.Buffer
	UseZerolog(zerolog.New(&buf).Level(zerolog.WarnLevel))
	Logf("quiet")

	if buf.Len() != 0 {
		t.Errorf("expected no output below warn level, got %q", buf.String())
	}
}

func TestLogf_Default(t *testing.T) {
	if Logf == nil {
		t.Error("Logf should not be nil by default")
	}

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("Logf panicked: %v", r)
		}
	}()

	Logf("test message: %s", "value")
}

func TestMetrics_Increment(t *testing.T) {
	before := testutil.ToFloat64(PairsFound.WithLabelValues("test"))
	PairsFound.WithLabelValues("test").Add(2)
	after := testutil.ToFloat64(PairsFound.WithLabelValues("test"))

	if after-before != 2 {
		t.Errorf("expected counter to grow by 2, grew by %v", after-before)
	}
}
