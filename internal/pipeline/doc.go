// Package pipeline runs the stub-processing stage over one event: stubs
// are split into phi sectors, overlap removal runs within each sector,
// and the surviving stubs are digitized relative to their sector.
//
// A stub that fails digitization is reported in its sector's Errors and
// counted in monitoring.DigitizeErrors; it does not abort the event.
// Sectors are processed sequentially and Processor holds no per-event
// state, so one Processor may serve several goroutines.
package pipeline
