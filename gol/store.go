package gol

import (
	"encoding/binary"
	"hash/fnv"
	"log/slog"
	"math/big"
)

// StoreConfig configures a Store's resource limits and diagnostics.
type StoreConfig struct {
	// MaxNodes caps the number of live canonical nodes the store will hold
	// at once. Zero means unlimited. Exceeding it turns InternInner/Empty
	// calls into OutOfMemoryError instead of growing without bound.
	MaxNodes int64
	Logger   *slog.Logger
}

// Store is the canonicalizing node store: the single authority for turning
// a structural description of a node (its level, and for an inner node its
// four children) into a unique *Node handle. Two calls describing the same
// structure always return the same pointer, which is what lets the
// Evolution Engine treat pointer equality as a free substitute for
// structural equality.
type Store struct {
	buckets      map[uint64][]*Node
	emptyByLevel map[int]*Node
	deadLeaf     *Node
	aliveLeaf    *Node
	pow2         *pow2Cache
	nextID       uint64
	created      int64
	liveCount    int64
	maxNodes     int64
	log          *slog.Logger
}

// NewStore creates a Store and its two canonical leaves.
func NewStore(cfg StoreConfig) *Store {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	s := &Store{
		buckets:      make(map[uint64][]*Node),
		emptyByLevel: make(map[int]*Node),
		pow2:         newPow2Cache(),
		maxNodes:     cfg.MaxNodes,
		log:          log,
	}
	s.deadLeaf = s.mustIntern(nodeKey{level: 0, leaf: true, leafAlive: false})
	s.aliveLeaf = s.mustIntern(nodeKey{level: 0, leaf: true, leafAlive: true})
	return s
}

// InternLeaf returns the one canonical dead or alive leaf. There are ever
// only two leaf handles for the life of a Store.
func (s *Store) InternLeaf(alive bool) *Node {
	if alive {
		return s.aliveLeaf
	}
	return s.deadLeaf
}

// InternInner returns the canonical node for the given four children at
// the given level, creating it if this exact combination hasn't been seen
// before. All four children must already be canonical handles at level-1;
// passing a node that didn't come from this Store is a precondition
// violation.
func (s *Store) InternInner(nw, ne, sw, se *Node, level int) (*Node, error) {
	precondition(level >= 1, "InternInner: level must be >= 1, got %d", level)
	precondition(nw != nil && ne != nil && sw != nil && se != nil, "InternInner: children must not be nil")
	precondition(nw.level == level-1 && ne.level == level-1 && sw.level == level-1 && se.level == level-1,
		"InternInner: all children must be level %d, got nw=%d ne=%d sw=%d se=%d", level-1, nw.level, ne.level, sw.level, se.level)
	return s.intern(nodeKey{level: level, nw: nw, ne: ne, sw: sw, se: se})
}

// Empty returns the canonical all-dead node at the given level, building it
// bottom-up and caching it the first time each level is requested.
func (s *Store) Empty(level int) (*Node, error) {
	if level == 0 {
		return s.deadLeaf, nil
	}
	if n, ok := s.emptyByLevel[level]; ok {
		return n, nil
	}
	child, err := s.Empty(level - 1)
	if err != nil {
		return nil, err
	}
	n, err := s.InternInner(child, child, child, child, level)
	if err != nil {
		return nil, err
	}
	s.emptyByLevel[level] = n
	return n, nil
}

func (s *Store) mustIntern(key nodeKey) *Node {
	n, err := s.intern(key)
	if err != nil {
		panic(err)
	}
	return n
}

func (s *Store) intern(key nodeKey) (*Node, error) {
	h := hashKey(key)
	for _, n := range s.buckets[h] {
		if key.equal(n) {
			return n, nil
		}
	}
	if s.maxNodes > 0 && s.liveCount >= s.maxNodes {
		err := &OutOfMemoryError{Level: key.level, NodeCount: s.liveCount, Limit: s.maxNodes}
		s.log.Warn("node store exhausted",
			slog.Int("level", key.level),
			slog.Int64("nodes", s.liveCount),
			slog.Int64("limit", s.maxNodes),
		)
		return nil, err
	}
	n := s.materialize(key)
	s.buckets[h] = append(s.buckets[h], n)
	s.created++
	s.liveCount++
	return n, nil
}

func (s *Store) materialize(key nodeKey) *Node {
	id := s.nextID
	s.nextID++
	if key.leaf {
		pop := big.NewInt(0)
		if key.leafAlive {
			pop = big.NewInt(1)
		}
		return &Node{id: id, level: 0, alive: key.leafAlive, population: pop}
	}
	pop := new(big.Int).Add(key.nw.population, key.ne.population)
	pop.Add(pop, key.sw.population)
	pop.Add(pop, key.se.population)
	return &Node{
		id:         id,
		level:      key.level,
		alive:      pop.Sign() > 0,
		population: pop,
		nw:         key.nw,
		ne:         key.ne,
		sw:         key.sw,
		se:         key.se,
	}
}

// hashKey folds a node's level and (for inner nodes) its four children's
// identities into a single uint64 using FNV-1a. Writing the four child IDs
// to the hasher's running state in nw, ne, sw, se order makes the result
// depend on that order: swapping two children changes the hash, so the
// store can't collapse an nw/ne swap into a false match the way a
// plain-sum combiner would.
func hashKey(k nodeKey) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	write := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	write(uint64(k.level))
	if k.leaf {
		if k.leafAlive {
			write(1)
		} else {
			write(0)
		}
		return h.Sum64()
	}
	write(k.nw.id)
	write(k.ne.id)
	write(k.sw.id)
	write(k.se.id)
	return h.Sum64()
}

// NodesCreated returns the lifetime count of canonical nodes this store
// has ever materialized, including ones later reclaimed by Sweep.
func (s *Store) NodesCreated() int64 { return s.created }

// Size returns the number of canonical nodes the store currently holds:
// those that survived the last Sweep plus every node created since (the
// running total if Sweep has never run).
func (s *Store) Size() int64 { return s.liveCount }

// Sweep performs mark-and-sweep garbage collection: every node reachable
// from roots via nw/ne/sw/se/next survives; everything else is dropped
// from the store's buckets and empty-node cache. The two canonical leaves
// always survive regardless of reachability, since recreating them would
// only duplicate work, never change behavior.
func (s *Store) Sweep(roots ...*Node) {
	mark := make(map[*Node]struct{}, s.liveCount)
	mark[s.deadLeaf] = struct{}{}
	mark[s.aliveLeaf] = struct{}{}
	var visit func(n *Node)
	visit = func(n *Node) {
		if n == nil {
			return
		}
		if _, ok := mark[n]; ok {
			return
		}
		mark[n] = struct{}{}
		visit(n.nw)
		visit(n.ne)
		visit(n.sw)
		visit(n.se)
		visit(n.next)
	}
	for _, r := range roots {
		visit(r)
	}
	for h, bucket := range s.buckets {
		kept := bucket[:0]
		for _, n := range bucket {
			if _, ok := mark[n]; ok {
				kept = append(kept, n)
			}
		}
		if len(kept) == 0 {
			delete(s.buckets, h)
		} else {
			s.buckets[h] = kept
		}
	}
	for lvl, n := range s.emptyByLevel {
		if _, ok := mark[n]; !ok {
			delete(s.emptyByLevel, lvl)
		}
	}
	s.liveCount = int64(len(mark))
}

// SetAlive returns the canonical node obtained by setting the cell at
// (x, y) alive within n's region, rebuilding only the path from the root
// to that cell and reusing every untouched sibling subtree. Precondition:
// (x, y) must fall inside n's region; the caller (Universe) is responsible
// for expanding the root until that holds.
func (s *Store) SetAlive(n *Node, x, y *big.Int) (*Node, error) {
	if n.level == 0 {
		return s.aliveLeaf, nil
	}
	precondition(s.RegionContains(n.level, x, y), "SetAlive: (%s, %s) is outside the level-%d region", x, y, n.level)
	offset := s.ChildOffset(n.level)
	west := x.Sign() < 0
	north := y.Sign() < 0
	childX, childY := x, y
	if offset.Sign() != 0 {
		if west {
			childX = new(big.Int).Add(x, offset)
		} else {
			childX = new(big.Int).Sub(x, offset)
		}
		if north {
			childY = new(big.Int).Add(y, offset)
		} else {
			childY = new(big.Int).Sub(y, offset)
		}
	}
	switch {
	case west && north:
		child, err := s.SetAlive(n.nw, childX, childY)
		if err != nil {
			return nil, err
		}
		return s.InternInner(child, n.ne, n.sw, n.se, n.level)
	case !west && north:
		child, err := s.SetAlive(n.ne, childX, childY)
		if err != nil {
			return nil, err
		}
		return s.InternInner(n.nw, child, n.sw, n.se, n.level)
	case west && !north:
		child, err := s.SetAlive(n.sw, childX, childY)
		if err != nil {
			return nil, err
		}
		return s.InternInner(n.nw, n.ne, child, n.se, n.level)
	default:
		child, err := s.SetAlive(n.se, childX, childY)
		if err != nil {
			return nil, err
		}
		return s.InternInner(n.nw, n.ne, n.sw, child, n.level)
	}
}
