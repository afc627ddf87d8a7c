// Package overlap removes duplicate stubs left by overlapping sensor
// modules before they reach the Hough transform.
//
// Responsibilities: neighbouring-module checks, the algebraic (z0, pt/q)
// estimate from a pair of stubs, heuristic and truth-informed pair
// finding, same-module delta-ray removal, and filtering.
// Key types: Resolver, Mode, TrackParams.
//
// Dependency rule: overlap may depend on stub, config and monitoring.
// It never records histograms; validation callers consume its return
// values instead.
package overlap
