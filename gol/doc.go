// Package gol implements the recursive quadtree core of a HashLife-style
// Conway's Game of Life engine: a canonicalizing node store, memoized
// one-generation evolution, and a Universe that drives expand / evolve /
// compact / collect-garbage over an effectively unbounded board.
//
// Coordinates, populations and generation counts are arbitrary precision
// (math/big) so the board has no practical edge; levels are plain ints,
// since a level-64 node already spans 2^64 cells on a side.
package gol
