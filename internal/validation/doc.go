// Package validation measures how well overlap removal works against
// simulation truth.
//
// Responsibilities: the formula check of pair (z0, q/pt) estimates against
// the shared truth particle, pair-finding efficiency and purity, and scans
// of the pt and z0 cuts. Results are filled into a Collector and summarised
// with gonum/stat.
// Key types: Collector, Recorder, Spec, FormulaeSummary,
// PairFindingSummary, CutScan.
//
// Dependency rule: validation may depend on stub, overlap and config. The
// core packages never import validation.
package validation
