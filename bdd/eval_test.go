// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import "testing"

//********************************************************************************************

func TestEval(t *testing.T) {
	s, err := New(3)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	v0, err := s.Nonterminal(0, False, True)
	if err != nil {
		t.Fatalf("Nonterminal: %v", err)
	}
	v1, err := s.Nonterminal(1, False, True)
	if err != nil {
		t.Fatalf("Nonterminal: %v", err)
	}
	f, err := s.And(v0, v1)
	if err != nil {
		t.Fatalf("And: %v", err)
	}

	for _, tt := range []struct {
		c0, c1   Cell
		expected int32
	}{
		{CellTrue, CellTrue, 1},
		{CellTrue, CellFalse, 0},
		{CellFalse, CellTrue, 0},
		{CellFalse, CellFalse, 0},
	} {
		a := NewAssignment()
		a.Set(0, tt.c0)
		a.Set(1, tt.c1)
		if got := s.Eval(f, a); got != tt.expected {
			t.Errorf("Eval(%v, %v) = %d, want %d", tt.c0, tt.c1, got, tt.expected)
		}
	}
}
