// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import "testing"

//********************************************************************************************

func TestAssignmentSetGetCut(t *testing.T) {
	a := NewAssignment()
	if a.Get(3) != Either {
		t.Errorf("fresh assignment: expected Either at 3, got %v", a.Get(3))
	}
	a.Set(3, CellTrue)
	if a.Get(3) != CellTrue {
		t.Errorf("after Set(3, CellTrue): expected CellTrue, got %v", a.Get(3))
	}
	if a.Get(1) != Either {
		t.Errorf("gap variable 1: expected Either, got %v", a.Get(1))
	}
	a.Cut(2)
	if a.Get(3) != Either {
		t.Errorf("after Cut(2): expected Either at 3, got %v", a.Get(3))
	}
	if a.Get(1) != Either {
		t.Errorf("after Cut(2): expected Either at 1, got %v", a.Get(1))
	}
}

func TestAssignmentEqual(t *testing.T) {
	a := NewAssignment()
	a.Set(0, CellFalse)
	a.Set(5, CellTrue)

	b := NewAssignment()
	b.Set(0, CellFalse)
	b.Set(5, CellTrue)
	if !a.Equal(b) {
		t.Errorf("expected a and b to be equal")
	}

	b.Set(9, CellFalse)
	if a.Equal(b) {
		t.Errorf("expected a and b to differ once b sets a cell a leaves Either")
	}
}
