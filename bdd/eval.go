// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// Eval follows assignment from root to a terminal without allocation or
// recursion, per spec.md §4.6: at each nonterminal, sample the assignment
// at the node's variable and descend to the high child if the cell is
// CellTrue, otherwise to the low child (Either defaults to the low
// branch, same as CellFalse — a fully concrete address assignment never
// leaves a cell Either within the range of variables the BDD branches on).
func (s *Store) Eval(root Node, assignment *Assignment) int32 {
	n := root
	for !n.IsTerminal() {
		v := s.Variable(n)
		if assignment.Get(v) == CellTrue {
			n = s.High(n)
		} else {
			n = s.Low(n)
		}
	}
	return n.Value()
}
