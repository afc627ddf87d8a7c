// Package stub owns the detector stub record shared by overlap removal
// and digitization.
//
// Responsibilities: the read-only Stub hit record, truth-particle
// association used for validation, and the StubPair type.
// Key types: Stub, TruthParticle, Pair.
//
// Dependency rule: stub depends on nothing else in this module.
// Stubs are owned by the input stage for the lifetime of one event;
// consumers only read them and return sub-selections.
package stub
