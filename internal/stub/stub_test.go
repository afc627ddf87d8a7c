package stub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStub_Genuine(t *testing.T) {
	s := &Stub{}
	assert.False(t, s.Genuine())

	s.TruthParticles = []*TruthParticle{{ID: 1}}
	assert.True(t, s.Genuine())
}

func TestStub_BoxCentre(t *testing.T) {
	s := &Stub{MinR: 20, MaxR: 22, MinPhi: 0.1, MaxPhi: 0.3, MinZ: -5, MaxZ: 5}
	r, phi, z := s.BoxCentre()
	assert.InDelta(t, 21.0, r, 1e-12)
	assert.InDelta(t, 0.2, phi, 1e-12)
	assert.InDelta(t, 0.0, z, 1e-12)
}

func TestStub_LocalCentre(t *testing.T) {
	s := &Stub{LocalU: [2]float64{10, 12}, LocalV: [2]float64{3, 5}}
	u, v := s.LocalCentre()
	assert.Equal(t, 11.0, u)
	assert.Equal(t, 4.0, v)
}

func TestStub_HasTruthParticle(t *testing.T) {
	tp1 := &TruthParticle{ID: 1}
	tp2 := &TruthParticle{ID: 2}
	s := &Stub{TruthParticles: []*TruthParticle{tp1}}

	assert.True(t, s.HasTruthParticle(tp1))
	// Identity, not value equality, decides membership.
	assert.False(t, s.HasTruthParticle(&TruthParticle{ID: 1}))
	assert.False(t, s.HasTruthParticle(tp2))
}

func TestPair_SameLayerDifferentModule(t *testing.T) {
	a := &Stub{LayerID: 3, ModuleID: 10, Barrel: true}
	b := &Stub{LayerID: 3, ModuleID: 11, Barrel: true}
	c := &Stub{LayerID: 4, ModuleID: 12, Barrel: true}
	d := &Stub{LayerID: 3, ModuleID: 10, Barrel: true}

	assert.True(t, Pair{a, b}.SameLayerDifferentModule())
	assert.False(t, Pair{a, c}.SameLayerDifferentModule())
	assert.False(t, Pair{a, d}.SameLayerDifferentModule())
}

func TestDepair(t *testing.T) {
	s0 := &Stub{Index: 0}
	s1 := &Stub{Index: 1}
	s2 := &Stub{Index: 2}

	got := Depair([]Pair{{s2, s1}, {s1, s0}, {s2, s0}})
	require.Len(t, got, 3)
	assert.Same(t, s0, got[0])
	assert.Same(t, s1, got[1])
	assert.Same(t, s2, got[2])

	assert.Empty(t, Depair(nil))
}

func TestWithout(t *testing.T) {
	s0 := &Stub{Index: 0}
	s1 := &Stub{Index: 1}
	s2 := &Stub{Index: 2}

	got := Without([]*Stub{s0, s1, s2}, map[*Stub]struct{}{s1: {}})
	assert.Equal(t, []*Stub{s0, s2}, got)
}
