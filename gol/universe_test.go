package gol

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniverse_EmptyUniverse_StepAdvancesGenerationNotPopulation(t *testing.T) {
	u := NewUniverse()

	require.NoError(t, u.Step())

	assert.Equal(t, int64(1), u.Generation().Int64())
	assert.Equal(t, int64(0), u.Population().Int64())
}

func TestUniverse_Blinker_OscillatesWithPeriod2(t *testing.T) {
	u := NewUniverse()
	require.NoError(t, u.SetCellsAlive(
		Coord{X: -1, Y: 0},
		Coord{X: 0, Y: 0},
		Coord{X: 1, Y: 0},
	))
	require.Equal(t, int64(3), u.Population().Int64())

	require.NoError(t, u.Step())
	assert.Equal(t, int64(3), u.Population().Int64(), "a blinker's population never changes")

	require.NoError(t, u.Step())
	assert.Equal(t, int64(3), u.Population().Int64())
	assert.Equal(t, int64(2), u.Generation().Int64())

	cellsAtGen2 := u.CollectDisplayList(big.NewInt(0), big.NewInt(0))
	assert.ElementsMatch(t, cellsFor(-1, 0, 0, 0, 1, 0), coordPairs(cellsAtGen2), "after two steps the blinker must be back to its starting orientation")
}

func TestUniverse_Block_IsStillLife(t *testing.T) {
	u := NewUniverse()
	require.NoError(t, u.SetCellsAlive(
		Coord{X: 0, Y: 0},
		Coord{X: 1, Y: 0},
		Coord{X: 0, Y: 1},
		Coord{X: 1, Y: 1},
	))

	for i := 0; i < 5; i++ {
		require.NoError(t, u.Step())
		assert.Equal(t, int64(4), u.Population().Int64())
	}

	cells := coordPairs(u.CollectDisplayList(big.NewInt(0), big.NewInt(0)))
	assert.ElementsMatch(t, cellsFor(0, 0, 1, 0, 0, 1, 1, 1), cells)
}

func TestUniverse_Glider_PreservesPopulationForever(t *testing.T) {
	u := NewUniverse()
	require.NoError(t, u.SetCellsAlive(
		Coord{X: 1, Y: 0},
		Coord{X: 2, Y: 1},
		Coord{X: 0, Y: 2},
		Coord{X: 1, Y: 2},
		Coord{X: 2, Y: 2},
	))

	for i := 0; i < 16; i++ {
		require.NoError(t, u.Step())
		assert.Equal(t, int64(5), u.Population().Int64(), "a glider's population never changes")
	}
}

func TestUniverse_GliderFarFromOrigin_EvolvesIdenticallyToOneAtOrigin(t *testing.T) {
	offset := new(big.Int).Lsh(big.NewInt(1), 60) // 2^60

	u := NewUniverse()
	base := []Coord{
		{X: 1, Y: 0}, {X: 2, Y: 1}, {X: 0, Y: 2}, {X: 1, Y: 2}, {X: 2, Y: 2},
	}
	for _, c := range base {
		x := new(big.Int).Add(offset, big.NewInt(c.X))
		y := new(big.Int).Add(offset, big.NewInt(c.Y))
		require.NoError(t, u.SetCellAlive(x.Int64(), y.Int64()))
	}

	ref := NewUniverse()
	require.NoError(t, ref.SetCellsAlive(base...))

	for i := 0; i < 8; i++ {
		require.NoError(t, u.Step())
		require.NoError(t, ref.Step())
		assert.Equal(t, int64(5), u.Population().Int64())
	}

	want := make([][2]int64, 0, 5)
	for _, p := range coordPairs(ref.CollectDisplayList(big.NewInt(0), big.NewInt(0))) {
		want = append(want, [2]int64{p[0] + offset.Int64(), p[1] + offset.Int64()})
	}
	assert.ElementsMatch(t, want, coordPairs(u.CollectDisplayList(big.NewInt(0), big.NewInt(0))))
}

func TestUniverse_BlinkerStraddlingInt64Boundary_SurvivesAThousandSteps(t *testing.T) {
	near := int64(1<<63 - 2) // the blinker's east cell sits at math.MaxInt64

	u := NewUniverse()
	require.NoError(t, u.SetCellsAlive(
		Coord{X: near - 1, Y: near},
		Coord{X: near, Y: near},
		Coord{X: near + 1, Y: near},
	))

	for i := 0; i < 1000; i++ {
		require.NoError(t, u.Step())
		assert.Equal(t, int64(3), u.Population().Int64())
	}
	assert.Equal(t, int64(1000), u.Generation().Int64())
}

func TestUniverse_Stats_ReflectsRunningCounters(t *testing.T) {
	u := NewUniverse()
	require.NoError(t, u.SetCellsAlive(Coord{X: -1, Y: 0}, Coord{X: 0, Y: 0}, Coord{X: 1, Y: 0}))
	require.NoError(t, u.Step())

	stats := u.Stats()
	assert.Equal(t, int64(1), stats.Generation.Int64())
	assert.Equal(t, int64(3), stats.Population.Int64())
	assert.Greater(t, stats.NodeCount, int64(0))
	assert.GreaterOrEqual(t, stats.NodesCreated, stats.NodeCount)
}

func TestUniverse_GCDisabled_NeverSweeps(t *testing.T) {
	u := NewUniverseWithConfig(GCConfig{Mode: GCDisabled})
	require.NoError(t, u.SetCellsAlive(Coord{X: -1, Y: 0}, Coord{X: 0, Y: 0}, Coord{X: 1, Y: 0}))

	before := u.store.NodesCreated()
	for i := 0; i < 10; i++ {
		require.NoError(t, u.Step())
	}
	// With GC disabled, NodesCreated only grows; liveCount (Size) should
	// track it exactly since nothing was ever swept away.
	assert.Equal(t, u.store.NodesCreated(), u.store.Size())
	assert.Greater(t, u.store.NodesCreated(), before)
}

// cellsFor groups a flat x0,y0,x1,y1,... list into [2]int64 pairs.
func cellsFor(coords ...int64) [][2]int64 {
	out := make([][2]int64, 0, len(coords)/2)
	for i := 0; i < len(coords); i += 2 {
		out = append(out, [2]int64{coords[i], coords[i+1]})
	}
	return out
}

func coordPairs(cells []Cell) [][2]int64 {
	out := make([][2]int64, 0, len(cells))
	for _, c := range cells {
		out = append(out, [2]int64{c.X.Int64(), c.Y.Int64()})
	}
	return out
}
