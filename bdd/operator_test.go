// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import "testing"

//********************************************************************************************

func TestMin3(t *testing.T) {
	var tests = []struct {
		p, q, r  int32
		expected int32
	}{
		{3, 2, 3, 2},
		{4, 4, 4, 4},
		{2, 3, 3, 2},
		{3, 2, 2, 2},
		{3, 3, 2, 2},
		{1, 2, 3, 1},
	}
	for _, tt := range tests {
		actual := min3(tt.p, tt.q, tt.r)
		if actual != tt.expected {
			t.Errorf("min3(%d, %d, %d): expected %d, actual %d", tt.p, tt.q, tt.r, tt.expected, actual)
		}
	}
}

//********************************************************************************************

func var0(s *Store) (Node, error) {
	return s.Nonterminal(0, False, True)
}

func var1(s *Store) (Node, error) {
	return s.Nonterminal(1, False, True)
}

func TestAndOrBasics(t *testing.T) {
	s, err := New(4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	v0, err := var0(s)
	if err != nil {
		t.Fatalf("var0: %v", err)
	}
	v1, err := var1(s)
	if err != nil {
		t.Fatalf("var1: %v", err)
	}

	if res, _ := s.And(v0, True); res != v0 {
		t.Errorf("x AND true: expected x, got %d", res)
	}
	if res, _ := s.And(v0, False); res != False {
		t.Errorf("x AND false: expected false, got %d", res)
	}
	if res, _ := s.Or(v0, False); res != v0 {
		t.Errorf("x OR false: expected x, got %d", res)
	}
	if res, _ := s.Or(v0, True); res != True {
		t.Errorf("x OR true: expected true, got %d", res)
	}

	and01, err := s.And(v0, v1)
	if err != nil {
		t.Fatalf("And: %v", err)
	}
	commuted, err := s.And(v1, v0)
	if err != nil {
		t.Fatalf("And: %v", err)
	}
	if and01 != commuted {
		t.Errorf("AND is not commutative in the node store: %d != %d", and01, commuted)
	}
}

func TestIteMatchesAndOr(t *testing.T) {
	s, err := New(4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f, err := var0(s)
	if err != nil {
		t.Fatalf("var0: %v", err)
	}
	g, err := var1(s)
	if err != nil {
		t.Fatalf("var1: %v", err)
	}
	notF, err := s.Not(f)
	if err != nil {
		t.Fatalf("Not: %v", err)
	}

	// ite(f, g, not f) should equal (f and g) or (not f and not f) = (f and g) or not f
	left, err := s.Ite(f, g, notF)
	if err != nil {
		t.Fatalf("Ite: %v", err)
	}
	fg, err := s.And(f, g)
	if err != nil {
		t.Fatalf("And: %v", err)
	}
	right, err := s.Or(fg, notF)
	if err != nil {
		t.Fatalf("Or: %v", err)
	}
	if left != right {
		t.Errorf("ite(f,g,not f) != (f and g) or not f: %d != %d", left, right)
	}
}

func TestNotInvolution(t *testing.T) {
	s, err := New(4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	f, err := var0(s)
	if err != nil {
		t.Fatalf("var0: %v", err)
	}
	notF, err := s.Not(f)
	if err != nil {
		t.Fatalf("Not: %v", err)
	}
	notNotF, err := s.Not(notF)
	if err != nil {
		t.Fatalf("Not: %v", err)
	}
	if notNotF != f {
		t.Errorf("not(not(f)) != f: %d != %d", notNotF, f)
	}
}

func TestReduction(t *testing.T) {
	s, err := New(4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	n, err := s.Nonterminal(0, True, True)
	if err != nil {
		t.Fatalf("Nonterminal: %v", err)
	}
	if n != True {
		t.Errorf("nonterminal(v, x, x) must reduce to x: got %d, want %d", n, True)
	}
}

func TestUniqueness(t *testing.T) {
	s, err := New(4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	a, err := s.Nonterminal(1, False, True)
	if err != nil {
		t.Fatalf("Nonterminal: %v", err)
	}
	s.Incref(a)
	b, err := s.Nonterminal(1, False, True)
	if err != nil {
		t.Fatalf("Nonterminal: %v", err)
	}
	if a != b {
		t.Errorf("two calls with the same (variable, low, high) must return the same id: %d != %d", a, b)
	}
}

func TestRefcountReclaims(t *testing.T) {
	s, err := New(4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	n, err := s.Nonterminal(0, False, True)
	if err != nil {
		t.Fatalf("Nonterminal: %v", err)
	}
	before := s.ReachableCount(n)
	if before != 1 {
		t.Fatalf("expected 1 reachable node, got %d", before)
	}
	s.Decref(n)
	// A fresh request for the same triple must allocate a brand new node:
	// the old one was fully reclaimed, not just decremented.
	again, err := s.Nonterminal(0, False, True)
	if err != nil {
		t.Fatalf("Nonterminal: %v", err)
	}
	if again != n {
		// Whether the slot is reused is an implementation detail (the free
		// list may or may not hand back the same index); what matters is
		// that the node is usable and reachable again.
		t.Logf("node index changed after reclaim+recreate: %d -> %d", n, again)
	}
	if s.ReachableCount(again) != 1 {
		t.Errorf("expected 1 reachable node after recreate, got %d", s.ReachableCount(again))
	}
}
