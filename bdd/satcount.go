// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import "math/big"

// Satcount returns the number of satisfying assignments of the variables
// in [startVar, width) consistent with n, as arbitrary-precision integer
// arithmetic (a BDD over a wide address space easily exceeds 2^63). It
// generalizes the teacher library's hoperations.go Satcount: the teacher
// always counts over the Store's fixed Varnum, whereas a caller here
// supplies its own width so it can count a subtree against a narrower
// declared domain (see ipset.Set.Cardinality, which counts the IPv4 and
// IPv6 halves of an address-family split against their own bit widths).
func (s *Store) Satcount(n Node, startVar, width int32) *big.Int {
	memo := make(map[Node]*big.Int)
	var rec func(n Node, varPos int32) *big.Int
	rec = func(n Node, varPos int32) *big.Int {
		switch n {
		case False:
			return big.NewInt(0)
		case True:
			return new(big.Int).Lsh(big.NewInt(1), uint(width-varPos))
		}
		nv := s.Variable(n)
		gap := uint(nv - varPos)
		base, ok := memo[n]
		if !ok {
			base = new(big.Int).Add(rec(s.Low(n), nv+1), rec(s.High(n), nv+1))
			memo[n] = base
		}
		return new(big.Int).Lsh(base, gap)
	}
	return rec(n, startVar)
}
