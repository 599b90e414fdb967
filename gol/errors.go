package gol

import "fmt"

// OutOfMemoryError reports that the node store could not materialize a new
// canonical node because doing so would exceed its configured capacity. It
// is the only runtime error this package produces; every other failure
// mode is a precondition violation and panics instead (see precondition).
type OutOfMemoryError struct {
	Level     int
	NodeCount int64
	Limit     int64
}

func (e *OutOfMemoryError) Error() string {
	return fmt.Sprintf("gol: out of memory interning level-%d node (store holds %d nodes, limit %d)", e.Level, e.NodeCount, e.Limit)
}

// precondition panics with a formatted message when ok is false. Used for
// programmer-error conditions (mismatched child levels, evolving below
// level 2, and the like) that the caller is expected to never trigger in
// correct usage, mirroring the teacher's handleErr panic-on-error idiom.
func precondition(ok bool, format string, args ...interface{}) {
	if !ok {
		panic(fmt.Sprintf("gol: "+format, args...))
	}
}
