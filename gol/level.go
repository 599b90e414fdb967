package gol

import "math/big"

// one is a shared read-only constant; big.Int operations never mutate
// their operands, only their receiver, so sharing this is safe as long as
// nothing ever calls one.Add/Sub/... with one as the receiver.
var one = big.NewInt(1)

// pow2Cache memoizes 2^k for small, frequently reused exponents so the hot
// expand/evolve/compact/display path doesn't re-run big.Int exponentiation
// on every call. It grows on demand rather than being bounded by a fixed
// table size, unlike the original implementation's LEVEL_MAX-sized table.
type pow2Cache struct {
	values []*big.Int
}

func newPow2Cache() *pow2Cache {
	return &pow2Cache{values: []*big.Int{big.NewInt(1)}}
}

// at returns 2^k. The returned value is a shared cache entry: callers must
// treat it as read-only and copy it before mutating (new(big.Int).Set(...)
// or use it only as an operand, never a receiver).
func (c *pow2Cache) at(k int) *big.Int {
	if k < 0 {
		return big.NewInt(0)
	}
	for len(c.values) <= k {
		prev := c.values[len(c.values)-1]
		c.values = append(c.values, new(big.Int).Lsh(prev, 1))
	}
	return c.values[k]
}

// Pow2 returns 2^k as a shared, read-only big.Int.
func (s *Store) Pow2(k int) *big.Int {
	return s.pow2.at(k)
}

// ChildOffset is the distance from a node's center to the center of one of
// its four children: 2^(level-2) for level >= 2, and 0 for level 0 or 1
// (a leaf has no children, and a level-1 node's four single-cell children
// are told apart by the sign of each coordinate alone).
func (s *Store) ChildOffset(level int) *big.Int {
	if level < 2 {
		return big.NewInt(0)
	}
	return s.Pow2(level - 2)
}

// RegionContains reports whether (x, y) falls inside the square a level-L
// node covers: [-2^(L-1), 2^(L-1)-1] on both axes, or the single point
// (0, 0) at level 0.
func (s *Store) RegionContains(level int, x, y *big.Int) bool {
	if level == 0 {
		return x.Sign() == 0 && y.Sign() == 0
	}
	half := s.Pow2(level - 1)
	max := new(big.Int).Sub(half, one)
	min := new(big.Int).Neg(half)
	return x.Cmp(min) >= 0 && x.Cmp(max) <= 0 && y.Cmp(min) >= 0 && y.Cmp(max) <= 0
}
