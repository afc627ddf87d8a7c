package overlap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/l1track/internal/stub"
)

func deltaStub(index, module int, u float64) *stub.Stub {
	return &stub.Stub{
		Index:    index,
		LayerID:  1,
		ModuleID: module,
		Barrel:   true,
		LocalU:   [2]float64{u - 0.5, u + 0.5},
	}
}

func TestDeltaPairs(t *testing.T) {
	a := deltaStub(0, 7, 100)
	b := deltaStub(1, 7, 101.5)
	c := deltaStub(2, 8, 101)
	d := deltaStub(3, 7, 140)
	e := deltaStub(4, 7, 104)

	pairs := DeltaPairs([]*stub.Stub{a, b, c, d, e}, 2.0)
	require.Len(t, pairs, 2)

	// Both orders of the close pair are reported; e is 2.5 from b.
	assert.Same(t, a, pairs[0].First)
	assert.Same(t, b, pairs[0].Second)
	assert.Same(t, b, pairs[1].First)
	assert.Same(t, a, pairs[1].Second)
}

func TestDeltaPairs_Chain(t *testing.T) {
	a := deltaStub(0, 7, 100)
	b := deltaStub(1, 7, 101.5)
	c := deltaStub(2, 7, 103)

	// a-c are 3 apart, so only a-b and b-c are close.
	pairs := DeltaPairs([]*stub.Stub{a, b, c}, 2.0)
	require.Len(t, pairs, 4)
	assert.Same(t, a, pairs[0].First)
	assert.Same(t, b, pairs[1].First)
	assert.Same(t, a, pairs[1].Second)
	assert.Same(t, b, pairs[2].First)
	assert.Same(t, c, pairs[2].Second)
	assert.Same(t, c, pairs[3].First)

	assert.Empty(t, DeltaKiller([]*stub.Stub{a, b, c}, 2.0))
}

func TestDeltaKiller(t *testing.T) {
	a := deltaStub(0, 7, 100)
	b := deltaStub(1, 7, 101.5)
	c := deltaStub(2, 8, 101)

	t.Run("removes both close same-module stubs", func(t *testing.T) {
		got := DeltaKiller([]*stub.Stub{a, b, c}, 2.0)
		assert.Equal(t, []*stub.Stub{c}, got)
	})

	t.Run("lone close pair leaves nothing", func(t *testing.T) {
		assert.Empty(t, DeltaKiller([]*stub.Stub{a, b}, 2.0))
	})

	t.Run("epsilon is exclusive", func(t *testing.T) {
		got := DeltaKiller([]*stub.Stub{a, b, c}, 1.5)
		assert.Len(t, got, 3)
	})

	t.Run("resolver mode", func(t *testing.T) {
		r := NewResolver([]*stub.Stub{a, b, c}, nil)
		got, err := r.Filtered(ModeDeltaKiller)
		require.NoError(t, err)
		assert.Equal(t, []*stub.Stub{c}, got)

		pairs, err := r.Pairs(ModeDeltaKiller)
		require.NoError(t, err)
		assert.Len(t, pairs, 2)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, DeltaKiller(nil, 2.0))
	})
}
