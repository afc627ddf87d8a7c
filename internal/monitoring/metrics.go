package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// StubsIn counts stubs handed to overlap removal, by mode.
	StubsIn = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "l1track_overlap_stubs_in_total",
		Help: "Stubs handed to overlap removal by mode",
	}, []string{"mode"})

	// StubsOut counts stubs surviving overlap removal, by mode.
	StubsOut = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "l1track_overlap_stubs_out_total",
		Help: "Stubs surviving overlap removal by mode",
	}, []string{"mode"})

	// PairsFound counts duplicate stub pairs, by mode.
	PairsFound = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "l1track_overlap_pairs_total",
		Help: "Duplicate stub pairs found by mode",
	}, []string{"mode"})

	// StubsDigitized counts stubs that completed both digitization phases.
	StubsDigitized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "l1track_digitize_stubs_total",
		Help: "Stubs digitized",
	})

	// DigitizeErrors counts digitization failures by kind
	// (range field name, module_type, sequence).
	DigitizeErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "l1track_digitize_errors_total",
		Help: "Digitization failures by kind",
	}, []string{"kind"})

	// RoundTripMismatches counts stubs whose dequantized values drift
	// beyond the self-check tolerances.
	RoundTripMismatches = promauto.NewCounter(prometheus.CounterOpts{
		Name: "l1track_digitize_roundtrip_mismatch_total",
		Help: "Stubs failing the digitization round-trip self check",
	})
)
