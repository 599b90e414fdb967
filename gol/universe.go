package gol

import (
	"log/slog"
	"math/big"
)

// kStartLevel is the smallest level a Universe's root is ever allowed to
// shrink to. Below level 3 there isn't enough surrounding border to
// evolve correctly, so Step never compacts past it.
const kStartLevel = 3

// Coord is a cell coordinate bounded to a signed 64-bit integer, the input
// form SetCellAlive and SetCellsAlive accept before promoting to big.Int.
type Coord struct {
	X, Y int64
}

// Cell is a live cell's coordinate in the unbounded board's coordinate
// space, as returned by CollectDisplayList.
type Cell struct {
	X, Y *big.Int
}

// Stats is a snapshot of a Universe's run-time counters, useful for
// logging or a benchmarking harness external to this package.
type Stats struct {
	Generation   *big.Int
	Population   *big.Int
	Level        int
	NodeCount    int64
	NodesCreated int64
}

// Universe drives the HashLife simulation: it owns the root node, the
// generation counter, and the node store backing both, and exposes the
// expand/evolve/compact/collect-garbage lifecycle as a single Step call.
type Universe struct {
	store      *Store
	root       *Node
	generation *big.Int
	gc         *collector
	log        *slog.Logger
}

// NewUniverse creates an empty Universe with the default GC policy.
func NewUniverse() *Universe {
	return NewUniverseWithConfig(DefaultGCConfig())
}

// NewUniverseWithConfig creates an empty Universe with an explicit GC
// policy and node-store capacity.
func NewUniverseWithConfig(cfg GCConfig) *Universe {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	store := NewStore(StoreConfig{MaxNodes: cfg.MaxNodes, Logger: log})
	root, err := store.Empty(kStartLevel)
	if err != nil {
		// Can't happen: the store has just been created and a MaxNodes
		// cap small enough to reject the handful of nodes an empty
		// level-3 tree needs isn't a usable configuration at all.
		panic(err)
	}
	return &Universe{
		store:      store,
		root:       root,
		generation: big.NewInt(0),
		gc:         newCollector(store, cfg, log),
		log:        log,
	}
}

// SetCellAlive marks the cell at (x, y) alive, expanding the root as
// needed so the coordinate falls inside it. Only meaningful before the
// first Step; HashLife does not support injecting new live cells into an
// already-evolved universe.
func (u *Universe) SetCellAlive(x, y int64) error {
	return u.setCellAlive(big.NewInt(x), big.NewInt(y))
}

// SetCellsAlive is SetCellAlive applied to a batch of coordinates.
func (u *Universe) SetCellsAlive(coords ...Coord) error {
	for _, c := range coords {
		if err := u.SetCellAlive(c.X, c.Y); err != nil {
			return err
		}
	}
	return nil
}

func (u *Universe) setCellAlive(x, y *big.Int) error {
	for !u.store.RegionContains(u.root.level, x, y) {
		expanded, err := u.expandRoot(u.root)
		if err != nil {
			return err
		}
		u.root = expanded
	}
	newRoot, err := u.store.SetAlive(u.root, x, y)
	if err != nil {
		return err
	}
	u.root = newRoot
	return nil
}

// Step advances the universe exactly one generation: it expands the root
// until the border is wide enough to evolve safely, evolves it, compacts
// the result back down if the outer border went unused, and then runs a
// GC sweep if the configured policy calls for one. The generation counter
// always advances, even when the root is entirely empty, matching the
// externally observable behavior this package commits to: stepping an
// empty universe is a no-op on population but not on generation.
//
// On error the universe is left exactly as it was before the call: the
// root and generation fields are only overwritten once every allocation
// needed to produce their new values has already succeeded.
func (u *Universe) Step() error {
	root := u.root
	for {
		if root.level > kStartLevel && borderSufficient(root) {
			break
		}
		expanded, err := u.expandRoot(root)
		if err != nil {
			return err
		}
		root = expanded
	}

	next, err := u.store.Evolve(root)
	if err != nil {
		return err
	}

	next, err = u.compact(next)
	if err != nil {
		return err
	}

	u.root = next
	u.generation = new(big.Int).Add(u.generation, one)
	u.gc.maybeCollect(u.generation, u.root)
	return nil
}

// borderSufficient reports whether root's outer ring is wide enough that
// evolving it by one generation can't be affected by anything further
// out: true once each quadrant's whole population is already accounted
// for by its innermost grandchild, i.e. growth hasn't reached the edge.
func borderSufficient(root *Node) bool {
	return root.nw.population.Cmp(root.nw.se.se.population) == 0 &&
		root.ne.population.Cmp(root.ne.sw.sw.population) == 0 &&
		root.sw.population.Cmp(root.sw.ne.ne.population) == 0 &&
		root.se.population.Cmp(root.se.nw.nw.population) == 0
}

// expandRoot wraps root in a new, empty border one level larger: the new
// root's four quadrants are each root's old corresponding child surrounded
// by three empty siblings, so growth always has somewhere to go before it
// ever reaches the tree's actual edge.
func (u *Universe) expandRoot(root *Node) (*Node, error) {
	level := root.level
	empty, err := u.store.Empty(level - 1)
	if err != nil {
		return nil, err
	}
	newNW, err := u.store.InternInner(empty, empty, empty, root.nw, level)
	if err != nil {
		return nil, err
	}
	newNE, err := u.store.InternInner(empty, empty, root.ne, empty, level)
	if err != nil {
		return nil, err
	}
	newSW, err := u.store.InternInner(empty, root.sw, empty, empty, level)
	if err != nil {
		return nil, err
	}
	newSE, err := u.store.InternInner(root.se, empty, empty, empty, level)
	if err != nil {
		return nil, err
	}
	return u.store.InternInner(newNW, newNE, newSW, newSE, level+1)
}

// compact reverses expandRoot's growth once it's no longer needed: while
// root's twelve peripheral grandchildren are all empty and root is still
// above the minimum level, root shrinks by pulling its four innermost
// grandchildren up to be the new root's direct children.
func (u *Universe) compact(root *Node) (*Node, error) {
	for root.level > kStartLevel {
		empty, err := u.store.Empty(root.level - 2)
		if err != nil {
			return nil, err
		}
		if root.nw.nw != empty || root.nw.ne != empty || root.nw.sw != empty ||
			root.ne.nw != empty || root.ne.ne != empty || root.ne.se != empty ||
			root.sw.nw != empty || root.sw.sw != empty || root.sw.se != empty ||
			root.se.ne != empty || root.se.sw != empty || root.se.se != empty {
			break
		}
		shrunk, err := u.store.InternInner(root.nw.se, root.ne.sw, root.sw.ne, root.se.nw, root.level-1)
		if err != nil {
			return nil, err
		}
		root = shrunk
	}
	return root, nil
}

// Generation returns a copy of the number of generations this universe has
// stepped through.
func (u *Universe) Generation() *big.Int { return new(big.Int).Set(u.generation) }

// Population returns a copy of the current total live-cell count.
func (u *Universe) Population() *big.Int { return u.root.Population() }

// Level returns the root's current level.
func (u *Universe) Level() int { return u.root.level }

// Stats returns a snapshot of the universe's counters.
func (u *Universe) Stats() Stats {
	return Stats{
		Generation:   u.Generation(),
		Population:   u.Population(),
		Level:        u.root.level,
		NodeCount:    u.store.Size(),
		NodesCreated: u.store.NodesCreated(),
	}
}

// CollectDisplayList walks the quadtree and returns every live cell's
// coordinate, offset so that (originX, originY) is where the root's own
// center sits. Passing (0, 0) returns coordinates in the universe's
// native coordinate space.
func (u *Universe) CollectDisplayList(originX, originY *big.Int) []Cell {
	var out []Cell
	collect(u.store, u.root, originX, originY, &out)
	return out
}

func collect(s *Store, n *Node, ox, oy *big.Int, out *[]Cell) {
	if n.population.Sign() == 0 {
		return
	}
	if n.level == 0 {
		if n.alive {
			*out = append(*out, Cell{X: new(big.Int).Set(ox), Y: new(big.Int).Set(oy)})
		}
		return
	}
	if n.level == 1 {
		west := new(big.Int).Sub(ox, one)
		north := new(big.Int).Sub(oy, one)
		collect(s, n.nw, west, north, out)
		collect(s, n.ne, ox, north, out)
		collect(s, n.sw, west, oy, out)
		collect(s, n.se, ox, oy, out)
		return
	}
	offset := s.Pow2(n.level - 2)
	west := new(big.Int).Sub(ox, offset)
	east := new(big.Int).Add(ox, offset)
	north := new(big.Int).Sub(oy, offset)
	south := new(big.Int).Add(oy, offset)
	collect(s, n.nw, west, north, out)
	collect(s, n.ne, east, north, out)
	collect(s, n.sw, west, south, out)
	collect(s, n.se, east, south, out)
}
