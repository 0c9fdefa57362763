// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// This file implements AND, OR, ITE and NOT following the recursive
// structure of the teacher library's apply/ite (hoperations.go), adapted to
// explicit reference counting: every Store method below borrows its Node
// arguments (it never changes their reference count) and returns exactly
// one fresh reference that the caller owns. There is no refstack protecting
// values mid-recursion, unlike the teacher: nothing is ever reclaimed except
// by an explicit Decref, so a value survives as long as something (a local
// variable, a cache entry, an arena slot) holds a reference to it.

// And returns the conjunction of a and b.
func (s *Store) And(a, b Node) (Node, error) {
	return s.and(a, b)
}

// Or returns the disjunction of a and b.
func (s *Store) Or(a, b Node) (Node, error) {
	return s.or(a, b)
}

// Not returns the negation of n.
func (s *Store) Not(n Node) (Node, error) {
	return s.not(n)
}

// Ite computes the Node for "if f then g else h", i.e. (f /\ g) \/ (not f /\
// h), in a single recursive pass.
func (s *Store) Ite(f, g, h Node) (Node, error) {
	return s.ite(f, g, h)
}

func (s *Store) and(a, b Node) (Node, error) {
	if a == b {
		s.Incref(a)
		return a, nil
	}
	if a == False || b == False {
		return False, nil
	}
	if a == True {
		s.Incref(b)
		return b, nil
	}
	if b == True {
		s.Incref(a)
		return a, nil
	}
	if res, ok := s.and_.lookup(a, b); ok {
		s.Incref(res)
		return res, nil
	}
	va, vb := s.Variable(a), s.Variable(b)
	var v int32
	var lowA, highA, lowB, highB Node
	switch {
	case va == vb:
		v, lowA, highA, lowB, highB = va, s.Low(a), s.High(a), s.Low(b), s.High(b)
	case va < vb:
		v, lowA, highA, lowB, highB = va, s.Low(a), s.High(a), b, b
	default:
		v, lowA, highA, lowB, highB = vb, a, a, s.Low(b), s.High(b)
	}
	low, err := s.and(lowA, lowB)
	if err != nil {
		return 0, err
	}
	high, err := s.and(highA, highB)
	if err != nil {
		s.Decref(low)
		return 0, err
	}
	res, err := s.Nonterminal(v, low, high)
	if err != nil {
		return 0, err
	}
	s.and_.store(s, a, b, res)
	return res, nil
}

func (s *Store) or(a, b Node) (Node, error) {
	if a == b {
		s.Incref(a)
		return a, nil
	}
	if a == True || b == True {
		return True, nil
	}
	if a == False {
		s.Incref(b)
		return b, nil
	}
	if b == False {
		s.Incref(a)
		return a, nil
	}
	if res, ok := s.or_.lookup(a, b); ok {
		s.Incref(res)
		return res, nil
	}
	va, vb := s.Variable(a), s.Variable(b)
	var v int32
	var lowA, highA, lowB, highB Node
	switch {
	case va == vb:
		v, lowA, highA, lowB, highB = va, s.Low(a), s.High(a), s.Low(b), s.High(b)
	case va < vb:
		v, lowA, highA, lowB, highB = va, s.Low(a), s.High(a), b, b
	default:
		v, lowA, highA, lowB, highB = vb, a, a, s.Low(b), s.High(b)
	}
	low, err := s.or(lowA, lowB)
	if err != nil {
		return 0, err
	}
	high, err := s.or(highA, highB)
	if err != nil {
		s.Decref(low)
		return 0, err
	}
	res, err := s.Nonterminal(v, low, high)
	if err != nil {
		return 0, err
	}
	s.or_.store(s, a, b, res)
	return res, nil
}

func (s *Store) not(n Node) (Node, error) {
	if n == False {
		return True, nil
	}
	if n == True {
		return False, nil
	}
	if res, ok := s.not_.lookup(n); ok {
		s.Incref(res)
		return res, nil
	}
	low, err := s.not(s.Low(n))
	if err != nil {
		return 0, err
	}
	high, err := s.not(s.High(n))
	if err != nil {
		s.Decref(low)
		return 0, err
	}
	res, err := s.Nonterminal(s.Variable(n), low, high)
	if err != nil {
		return 0, err
	}
	s.not_.store(s, n, res)
	return res, nil
}

// min3 returns the smallest of p, q and r.
func min3(p, q, r int32) int32 {
	if p <= q {
		if p <= r {
			return p
		}
		return r
	}
	if q <= r {
		return q
	}
	return r
}

// iteCofactor returns n's low (branch == false) or high (branch == true)
// cofactor with respect to variable v, or n itself if n's own variable is
// not v (meaning n does not depend on v and so is its own cofactor). This
// mirrors the teacher's ite_low/ite_high (hoperations.go), generalized to a
// single helper parameterized on which branch to take.
func (s *Store) iteCofactor(n Node, varOfN, v int32, branch bool) Node {
	if varOfN != v {
		return n
	}
	if branch {
		return s.High(n)
	}
	return s.Low(n)
}

func (s *Store) ite(f, g, h Node) (Node, error) {
	switch {
	case f == True:
		s.Incref(g)
		return g, nil
	case f == False:
		s.Incref(h)
		return h, nil
	case g == h:
		s.Incref(g)
		return g, nil
	case g == True && h == False:
		s.Incref(f)
		return f, nil
	case g == False && h == True:
		return s.not(f)
	}
	if res, ok := s.ite_.lookup(f, g, h); ok {
		s.Incref(res)
		return res, nil
	}
	vf, vg, vh := s.Variable(f), s.Variable(g), s.Variable(h)
	v := min3(vf, vg, vh)
	low, err := s.ite(
		s.iteCofactor(f, vf, v, false),
		s.iteCofactor(g, vg, v, false),
		s.iteCofactor(h, vh, v, false),
	)
	if err != nil {
		return 0, err
	}
	high, err := s.ite(
		s.iteCofactor(f, vf, v, true),
		s.iteCofactor(g, vg, v, true),
		s.iteCofactor(h, vh, v, true),
	)
	if err != nil {
		s.Decref(low)
		return 0, err
	}
	res, err := s.Nonterminal(v, low, high)
	if err != nil {
		return 0, err
	}
	s.ite_.store(s, f, g, h, res)
	return res, nil
}
