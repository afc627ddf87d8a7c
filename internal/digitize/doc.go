// Package digitize converts floating-point stub coordinates into the
// fixed-width integer words the track-finding firmware consumes, and
// back into the degraded floats the firmware effectively sees.
//
// Responsibilities: per-configuration multipliers (Format), the
// two-phase DigitalStub (Init stores the stub, Make quantizes it relative
// to a phi sector), range checking, the round-trip self check, layer and
// module-type encoding.
// Key types: Format, DigitalStub, InitParams, Codes, Values, RangeError.
//
// Dependency rule: digitize may depend on stub, sector, config and monitoring.
// A DigitalStub is owned by the caller that created it and is frozen
// once Make succeeds.
package digitize
