// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ipset

import (
	"math/big"
	"net/netip"

	"github.com/dalzilio/ipbdd/bdd"
)

// Set owns a single BDD root: the function over (family, address bits)
// that is 1 exactly for the addresses the set contains. A Set borrows its
// Store; the Store must outlive every Set built over it (spec.md §9,
// "Global state").
type Set struct {
	store *bdd.Store
	root  bdd.Node
}

// NewSet returns an empty Set rooted in store.
func NewSet(store *bdd.Store) *Set {
	return &Set{store: store, root: bdd.False}
}

// Root returns the set's root node, for use by the serialize package.
func (s *Set) Root() bdd.Node {
	return s.root
}

// Store returns the node store this set is built over.
func (s *Set) Store() *bdd.Store {
	return s.store
}

// SetFromRoot wraps an already-built root (e.g. one produced by
// serialize.Read) into a Set. The caller transfers its reference on root
// to the returned Set.
func SetFromRoot(store *bdd.Store, root bdd.Node) *Set {
	return &Set{store: store, root: root}
}

// Add inserts addr into the set. It returns true if the set already
// contained addr (the operation left it unchanged).
func (s *Set) Add(addr netip.Addr) (unchanged bool, err error) {
	a, length, err := encodeAddress(addr)
	if err != nil {
		return false, err
	}
	return s.union(a, length)
}

// AddNetwork inserts every address in prefix into the set. Unless loose is
// true, a prefix whose host bits are non-zero is rejected as
// ErrInvalidNetwork.
func (s *Set) AddNetwork(prefix netip.Prefix, loose bool) (unchanged bool, err error) {
	a, length, err := encodeNetwork(prefix, loose)
	if err != nil {
		return false, err
	}
	return s.union(a, length)
}

func (s *Set) union(a *bdd.Assignment, length int32) (bool, error) {
	path, err := buildPath(s.store, a, length)
	if err != nil {
		return false, err
	}
	newRoot, err := s.store.Or(path, s.root)
	s.store.Decref(path)
	if err != nil {
		return false, err
	}
	unchanged := newRoot == s.root
	s.store.Decref(s.root)
	s.root = newRoot
	return unchanged, nil
}

// Remove deletes addr from the set, if present.
func (s *Set) Remove(addr netip.Addr) error {
	a, length, err := encodeAddress(addr)
	if err != nil {
		return err
	}
	return s.subtract(a, length)
}

// RemoveNetwork deletes every address in prefix from the set.
func (s *Set) RemoveNetwork(prefix netip.Prefix, loose bool) error {
	a, length, err := encodeNetwork(prefix, loose)
	if err != nil {
		return err
	}
	return s.subtract(a, length)
}

func (s *Set) subtract(a *bdd.Assignment, length int32) error {
	path, err := buildPath(s.store, a, length)
	if err != nil {
		return err
	}
	complement, err := s.store.Not(path)
	s.store.Decref(path)
	if err != nil {
		return err
	}
	newRoot, err := s.store.And(complement, s.root)
	s.store.Decref(complement)
	if err != nil {
		return err
	}
	s.store.Decref(s.root)
	s.root = newRoot
	return nil
}

// Contains reports whether addr is a member of the set.
func (s *Set) Contains(addr netip.Addr) (bool, error) {
	a, _, err := encodeAddress(addr)
	if err != nil {
		return false, err
	}
	return s.store.Eval(s.root, a) != 0, nil
}

// IsEmpty reports whether the set contains no address.
func (s *Set) IsEmpty() bool {
	return s.root == bdd.False
}

// IsEqual reports whether s and other contain exactly the same addresses.
// Because both are canonicalized by the shared node store, this reduces to
// root id equality; it is only meaningful when s and other share a Store.
func (s *Set) IsEqual(other *Set) bool {
	return s.root == other.root
}

// Cardinality returns the number of addresses the set contains, as an
// arbitrary-precision integer (a full IPv6 set alone holds 2^128
// addresses, far past any machine int). When the root tests variable 0,
// it splits into an IPv4 branch (High) and an IPv6 branch (Low) -- see
// family.go; when both halves are the same function, reduction drops
// variable 0 and the root itself stands for both halves. Each half is
// counted against its own bit width, and the two counts are summed.
func (s *Set) Cardinality() *big.Int {
	switch s.root {
	case bdd.False:
		return big.NewInt(0)
	case bdd.True:
		total := new(big.Int).Lsh(big.NewInt(1), uint(ipv4Bits))
		return total.Add(total, new(big.Int).Lsh(big.NewInt(1), uint(ipv6Bits)))
	}
	v4Root, v6Root := s.root, s.root
	if s.store.Variable(s.root) == familyVar {
		v4Root, v6Root = s.store.High(s.root), s.store.Low(s.root)
	}
	v4 := s.store.Satcount(v4Root, familyVar+1, familyVar+1+ipv4Bits)
	v6 := s.store.Satcount(v6Root, familyVar+1, familyVar+1+ipv6Bits)
	return v4.Add(v4, v6)
}

// MemorySize estimates the set's footprint as the number of reachable
// nonterminal nodes times nodeBytes.
func (s *Set) MemorySize(nodeBytes int) int {
	return s.store.ReachableCount(s.root) * nodeBytes
}

// Close releases the set's reference on its root. The Set must not be used
// afterward.
func (s *Set) Close() {
	s.store.Decref(s.root)
	s.root = bdd.False
}

// Iterate returns every individual address the set contains, in depth-first
// order.
func (s *Set) Iterate() []Record {
	return iteratePaths(s.store, s.root, 1, false)
}

// IterateNetworks returns a disjoint CIDR cover of every address the set
// contains.
func (s *Set) IterateNetworks() []Record {
	return iteratePaths(s.store, s.root, 1, true)
}
