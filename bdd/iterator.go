// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// PathIterator walks every root-to-terminal path of a BDD, depth-first and
// low-branch first, yielding the Assignment that reaches each terminal
// together with the terminal's value. It holds no reference on the nodes
// it visits: the caller must keep root (and so every node the iterator
// touches) alive for the iterator's lifetime.
type PathIterator struct {
	store      *Store
	stack      []pathFrame
	assignment Assignment
	value      int32
	done       bool
}

type pathFrame struct {
	node      Node
	variable  int32
	takenHigh bool
}

// NewPathIterator returns an iterator positioned at the first path of the
// BDD rooted at root (depth-first, low branch first).
func NewPathIterator(s *Store, root Node) *PathIterator {
	it := &PathIterator{store: s}
	it.descendLow(root)
	return it
}

func (it *PathIterator) descendLow(n Node) {
	for !n.IsTerminal() {
		v := it.store.Variable(n)
		it.stack = append(it.stack, pathFrame{node: n, variable: v})
		it.assignment.Set(v, CellFalse)
		n = it.store.Low(n)
	}
	it.value = n.Value()
}

// Done reports whether every path has been visited.
func (it *PathIterator) Done() bool {
	return it.done
}

// Assignment returns the path currently reached. The returned pointer is
// reused by subsequent calls to Advance; callers that need to keep a path
// around must Clone it.
func (it *PathIterator) Assignment() *Assignment {
	return &it.assignment
}

// Value returns the terminal value of the path currently reached.
func (it *PathIterator) Value() int32 {
	return it.value
}

// Advance moves to the next path, in depth-first, low-first order: pop
// frames until one still has an unexplored high branch, flip its cell to
// CellTrue, and descend low-first from there to a terminal.
func (it *PathIterator) Advance() {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		if !top.takenHigh {
			top.takenHigh = true
			it.assignment.Set(top.variable, CellTrue)
			it.descendLow(it.store.High(top.node))
			return
		}
		it.assignment.Cut(top.variable)
		it.stack = it.stack[:len(it.stack)-1]
	}
	it.done = true
}

// ExpandedIterator enumerates every concrete assignment subsumed by a
// source Assignment's Either cells, over the first n variables. It
// implements the expansion as a binary counter over the Either positions:
// bit i of the counter selects the concrete value of the i-th Either
// position.
type ExpandedIterator struct {
	base    *Assignment
	either  []int32
	counter uint64
	total   uint64
}

// NewExpandedIterator returns an iterator over every concrete assignment
// that agrees with base on every non-Either cell in [0, n).
func NewExpandedIterator(base *Assignment, n int32) *ExpandedIterator {
	var either []int32
	for v := int32(0); v < n; v++ {
		if base.Get(v) == Either {
			either = append(either, v)
		}
	}
	return &ExpandedIterator{
		base:   base,
		either: either,
		total:  uint64(1) << uint(len(either)),
	}
}

// Done reports whether every expansion has been produced.
func (it *ExpandedIterator) Done() bool {
	return it.counter >= it.total
}

// Count returns the total number of concrete assignments this iterator
// will produce (2^k, k the number of Either positions).
func (it *ExpandedIterator) Count() uint64 {
	return it.total
}

// Value returns the current concrete assignment. Each call allocates a
// fresh Assignment; callers that only need the address bits should read
// them directly rather than retaining every expansion.
func (it *ExpandedIterator) Value() *Assignment {
	result := it.base.Clone()
	for i, v := range it.either {
		if (it.counter>>uint(i))&1 == 1 {
			result.Set(v, CellTrue)
		} else {
			result.Set(v, CellFalse)
		}
	}
	return result
}

// Advance moves to the next concrete assignment.
func (it *ExpandedIterator) Advance() {
	it.counter++
}
