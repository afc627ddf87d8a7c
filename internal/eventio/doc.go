// Package eventio reads and writes stub events as JSON.
//
// A file holds {"events": [...]}. Each event lists its truth particles and
// its stubs; a stub refers to truth particles by id, in association order,
// and Decode resolves those ids to shared *stub.TruthParticle pointers so
// that truth matching can compare by identity.
package eventio
