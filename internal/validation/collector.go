package validation

import (
	"sort"
	"sync"
)

// Collector receives histogram fills. Names are the keys of Specs.
type Collector interface {
	// Fill adds weight w at x to a one-dimensional histogram.
	Fill(name string, x, w float64)
	// Fill2D adds one entry at (x, y) to a two-dimensional histogram.
	Fill2D(name string, x, y float64)
}

// Discard is a Collector that drops every fill.
var Discard Collector = discard{}

type discard struct{}

func (discard) Fill(string, float64, float64)   {}
func (discard) Fill2D(string, float64, float64) {}

// Weighted is one 1D fill.
type Weighted struct {
	X, W float64
}

// Point is one 2D fill.
type Point struct {
	X, Y float64
}

// Recorder is an in-memory Collector keeping every raw fill so sinks can
// bin or scatter them later. It is safe for concurrent use.
type Recorder struct {
	mu sync.Mutex
	h1 map[string][]Weighted
	h2 map[string][]Point
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		h1: make(map[string][]Weighted),
		h2: make(map[string][]Point),
	}
}

func (r *Recorder) Fill(name string, x, w float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.h1[name] = append(r.h1[name], Weighted{X: x, W: w})
}

func (r *Recorder) Fill2D(name string, x, y float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.h2[name] = append(r.h2[name], Point{X: x, Y: y})
}

// Names1D returns the filled 1D histogram names, sorted.
func (r *Recorder) Names1D() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sortedKeys(r.h1)
}

// Names2D returns the filled 2D histogram names, sorted.
func (r *Recorder) Names2D() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sortedKeys(r.h2)
}

// Values1D returns a copy of the fills of a 1D histogram.
func (r *Recorder) Values1D(name string) []Weighted {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Weighted(nil), r.h1[name]...)
}

// Values2D returns a copy of the fills of a 2D histogram.
func (r *Recorder) Values2D(name string) []Point {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Point(nil), r.h2[name]...)
}

// Entries returns the number of fills of a 1D or 2D histogram.
func (r *Recorder) Entries(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.h1[name]) + len(r.h2[name])
}

// Sum returns the total weight of a 1D histogram.
func (r *Recorder) Sum(name string) float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var sum float64
	for _, v := range r.h1[name] {
		sum += v.W
	}
	return sum
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
