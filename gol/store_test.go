package gol

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_Sweep_RetainsOnlyReachableNodes(t *testing.T) {
	s := NewStore(StoreConfig{})
	dead := s.InternLeaf(false)
	alive := s.InternLeaf(true)

	kept, err := s.InternInner(alive, dead, dead, dead, 1)
	require.NoError(t, err)
	_, err = s.InternInner(dead, alive, dead, dead, 1)
	require.NoError(t, err)

	before := s.Size()
	require.Greater(t, before, int64(0))

	s.Sweep(kept)
	assert.Less(t, s.Size(), before, "the unreachable node must be dropped by the sweep")

	again, err := s.InternInner(alive, dead, dead, dead, 1)
	require.NoError(t, err)
	assert.True(t, kept.Equal(again), "sweeping must not disturb a still-reachable node's identity")

	recreated, err := s.InternInner(dead, alive, dead, dead, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), recreated.Population().Int64())
}

func TestStore_Sweep_AlwaysKeepsCanonicalLeaves(t *testing.T) {
	s := NewStore(StoreConfig{})
	dead := s.InternLeaf(false)

	s.Sweep() // no roots at all

	stillDead := s.InternLeaf(false)
	assert.True(t, dead.Equal(stillDead), "the canonical leaves must survive a sweep even with no live roots")
}

func TestStore_SetAlive_RebuildsOnlyThePath(t *testing.T) {
	s := NewStore(StoreConfig{})
	root, err := s.Empty(3)
	require.NoError(t, err)

	next, err := s.SetAlive(root, big.NewInt(-1), big.NewInt(-1))
	require.NoError(t, err)

	assert.Equal(t, int64(1), next.Population().Int64())

	empty2, err := s.Empty(2)
	require.NoError(t, err)
	assert.True(t, next.NE().Equal(empty2))
	assert.True(t, next.SW().Equal(empty2))
	assert.True(t, next.SE().Equal(empty2))
	assert.False(t, next.NW().Equal(empty2), "the quadrant containing the newly live cell must differ from empty")
}

func TestStore_RegionContains_Level0IsOriginOnly(t *testing.T) {
	s := NewStore(StoreConfig{})
	assert.True(t, s.RegionContains(0, big.NewInt(0), big.NewInt(0)))
	assert.False(t, s.RegionContains(0, big.NewInt(1), big.NewInt(0)))
}

func TestStore_RegionContains_Level3Bounds(t *testing.T) {
	s := NewStore(StoreConfig{})
	assert.True(t, s.RegionContains(3, big.NewInt(-4), big.NewInt(3)))
	assert.False(t, s.RegionContains(3, big.NewInt(4), big.NewInt(0)))
	assert.False(t, s.RegionContains(3, big.NewInt(-5), big.NewInt(0)))
}
