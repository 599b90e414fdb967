package gol

import "math/big"

// Node is an immutable quadtree node: either a leaf (level 0, a single
// cell) or an inner node with four canonical children one level smaller.
// Nodes are never constructed directly; Store.InternLeaf and
// Store.InternInner are the only way to obtain a handle, which is what
// makes two structurally identical subtrees collapse to one *Node.
//
// The next field is the one mutable piece of state on a Node: it memoizes
// this node's one-generation successor once the Evolution Engine computes
// it, and is set at most once. Single-threaded cooperative execution is
// assumed package-wide, so no synchronization guards this.
type Node struct {
	id             uint64
	level          int
	alive          bool
	population     *big.Int
	nw, ne, sw, se *Node
	next           *Node
}

// Level reports this node's level: 0 for a leaf, L for an inner node whose
// children are level L-1.
func (n *Node) Level() int { return n.level }

// Alive reports whether this leaf's single cell is alive. For an inner
// node it reports whether any cell in its region is alive (population > 0).
func (n *Node) Alive() bool { return n.alive }

// IsLeaf reports whether this node is a level-0 single cell.
func (n *Node) IsLeaf() bool { return n.level == 0 }

// Population returns a copy of the count of live cells in this node's
// region. A copy is returned because the underlying big.Int is shared by
// every canonical handle with this same content; mutating it in place
// would corrupt every other node that happens to be structurally equal.
func (n *Node) Population() *big.Int { return new(big.Int).Set(n.population) }

// NW, NE, SW, SE return this node's four children. Nil for a leaf.
func (n *Node) NW() *Node { return n.nw }
func (n *Node) NE() *Node { return n.ne }
func (n *Node) SW() *Node { return n.sw }
func (n *Node) SE() *Node { return n.se }

// Equal reports whether other is the same canonical node. Because nodes
// are interned, structural equality and handle identity coincide, so this
// is an O(1) pointer comparison rather than a recursive tree walk.
func (n *Node) Equal(other *Node) bool {
	return n == other
}

// nodeKey is the structural identity a node was (or would be) interned
// under. Used by Store to look up or create canonical nodes.
type nodeKey struct {
	level          int
	leaf           bool
	leafAlive      bool
	nw, ne, sw, se *Node
}

func (k nodeKey) equal(n *Node) bool {
	if n.level != k.level {
		return false
	}
	if k.leaf {
		return n.IsLeaf() && n.alive == k.leafAlive
	}
	return n.nw == k.nw && n.ne == k.ne && n.sw == k.sw && n.se == k.se
}
