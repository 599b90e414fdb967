package gol

// applyRule implements Conway's rule directly: a live cell with exactly 2
// or 3 live neighbors stays alive; a dead cell with exactly 3 live
// neighbors is born. Kept as its own named function, independent of the
// region bookkeeping around it, so it can be tested in isolation.
func applyRule(alive bool, liveNeighbors int) bool {
	if alive {
		return liveNeighbors == 2 || liveNeighbors == 3
	}
	return liveNeighbors == 3
}

// Evolve returns n's successor one generation later, at level n.Level()-1.
// The result is memoized on n itself (n.next), so calling Evolve twice on
// the same canonical node does the recursive work exactly once — and
// because evolution only ever depends on a node's content, two different
// parts of the tree that happen to canonicalize to the same node share
// that memo for free.
func (s *Store) Evolve(n *Node) (*Node, error) {
	precondition(n.level >= 2, "Evolve: node level must be >= 2, got %d", n.level)
	if n.next != nil {
		return n.next, nil
	}
	if n.population.Sign() == 0 {
		// An all-dead node's children are, by construction of the store,
		// themselves the canonical empty node one level down (any node
		// with zero population already collapsed to Store.Empty at
		// intern time) so reusing nw here is exact, not an approximation.
		n.next = n.nw
		return n.next, nil
	}
	var result *Node
	var err error
	if n.level == 2 {
		result, err = s.evolveLevel2(n)
	} else {
		result, err = s.evolveLevelN(n)
	}
	if err != nil {
		return nil, err
	}
	n.next = result
	return result, nil
}

// evolveLevel2 is the recursion's base case: n is a level-2 node (a 4x4
// region) whose level-0 grandchildren are individual cells, so the next
// generation's four level-1 quadrants can be computed directly from
// neighbor counts without any further recursion.
func (s *Store) evolveLevel2(n *Node) (*Node, error) {
	nw, ne, sw, se := n.nw, n.ne, n.sw, n.se

	b := func(x *Node) int {
		if x.alive {
			return 1
		}
		return 0
	}

	newNWAlive := applyRule(nw.se.alive, b(nw.nw)+b(nw.ne)+b(ne.nw)+b(nw.sw)+b(ne.sw)+b(sw.nw)+b(sw.ne)+b(se.nw))
	newNEAlive := applyRule(ne.sw.alive, b(nw.ne)+b(ne.nw)+b(ne.ne)+b(nw.se)+b(ne.se)+b(sw.ne)+b(se.nw)+b(se.ne))
	newSWAlive := applyRule(sw.ne.alive, b(nw.sw)+b(nw.se)+b(ne.sw)+b(sw.nw)+b(se.nw)+b(sw.sw)+b(sw.se)+b(se.sw))
	newSEAlive := applyRule(se.nw.alive, b(nw.se)+b(ne.sw)+b(ne.se)+b(sw.ne)+b(se.ne)+b(sw.se)+b(se.sw)+b(se.se))

	return s.InternInner(
		s.InternLeaf(newNWAlive),
		s.InternLeaf(newNEAlive),
		s.InternLeaf(newSWAlive),
		s.InternLeaf(newSEAlive),
		1,
	)
}

// evolveLevelN is the recursive case for any node at level 3 or above. It
// decomposes n into nine overlapping level-(L-2) "nonants" built from
// n's grandchildren, reassembles those into four overlapping level-(L-1)
// quadrants, evolves each quadrant one generation (recursing into Evolve),
// and combines the four results into the final level-(L-1) successor.
func (s *Store) evolveLevelN(n *Node) (*Node, error) {
	level := n.level
	nw, ne, sw, se := n.nw, n.ne, n.sw, n.se

	var err error
	in := func(a, b, c, d *Node, lvl int) *Node {
		if err != nil {
			return nil
		}
		var node *Node
		node, err = s.InternInner(a, b, c, d, lvl)
		return node
	}

	nwInner := in(nw.nw.se, nw.ne.sw, nw.sw.ne, nw.se.nw, level-2)
	nInner := in(nw.ne.se, ne.nw.sw, nw.se.ne, ne.sw.nw, level-2)
	neInner := in(ne.nw.se, ne.ne.sw, ne.sw.ne, ne.se.nw, level-2)
	wInner := in(nw.sw.se, nw.se.sw, sw.nw.ne, sw.ne.nw, level-2)
	cInner := in(nw.se.se, ne.sw.sw, sw.ne.ne, se.nw.nw, level-2)
	eInner := in(ne.sw.se, ne.se.sw, se.nw.ne, se.ne.nw, level-2)
	swInner := in(sw.nw.se, sw.ne.sw, sw.sw.ne, sw.se.nw, level-2)
	sInner := in(sw.ne.se, se.nw.sw, sw.se.ne, se.sw.nw, level-2)
	seInner := in(se.nw.se, se.ne.sw, se.sw.ne, se.se.nw, level-2)
	if err != nil {
		return nil, err
	}

	quadNW := in(nwInner, nInner, wInner, cInner, level-1)
	quadNE := in(nInner, neInner, cInner, eInner, level-1)
	quadSW := in(wInner, cInner, swInner, sInner, level-1)
	quadSE := in(cInner, eInner, sInner, seInner, level-1)
	if err != nil {
		return nil, err
	}

	newNW, err := s.Evolve(quadNW)
	if err != nil {
		return nil, err
	}
	newNE, err := s.Evolve(quadNE)
	if err != nil {
		return nil, err
	}
	newSW, err := s.Evolve(quadSW)
	if err != nil {
		return nil, err
	}
	newSE, err := s.Evolve(quadSE)
	if err != nil {
		return nil, err
	}

	return s.InternInner(newNW, newNE, newSW, newSE, level-1)
}
