// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ipset

import (
	"net/netip"

	"github.com/dalzilio/ipbdd/bdd"
)

// Map owns a BDD root whose terminal range is an arbitrary non-negative
// integer, plus the default value returned for addresses it was never
// asked to map (spec.md §4.4). Per the open question recorded in
// DESIGN.md, a Map supports only Set and Get: removal is not part of its
// contract.
type Map struct {
	store *bdd.Store
	root  bdd.Node
	deflt int32
}

// NewMap returns a Map rooted in store whose every address maps to deflt.
func NewMap(store *bdd.Store, deflt int32) *Map {
	return &Map{store: store, root: bdd.Terminal(deflt), deflt: deflt}
}

// Root returns the map's root node, for use by the serialize package.
func (m *Map) Root() bdd.Node {
	return m.root
}

// Store returns the node store this map is built over.
func (m *Map) Store() *bdd.Store {
	return m.store
}

// Default returns the value addresses map to until explicitly Set.
func (m *Map) Default() int32 {
	return m.deflt
}

// MapFromRoot wraps an already-built root into a Map with the given
// default. The caller transfers its reference on root to the returned Map.
func MapFromRoot(store *bdd.Store, root bdd.Node, deflt int32) *Map {
	return &Map{store: store, root: root, deflt: deflt}
}

// Set maps addr to value. It is implemented directly as
// Ite(path, Terminal(value), root): on the path's assignment the function
// now returns value, everywhere else it is unchanged.
func (m *Map) Set(addr netip.Addr, value int32) error {
	a, length, err := encodeAddress(addr)
	if err != nil {
		return err
	}
	return m.assign(a, length, value)
}

// SetNetwork maps every address in prefix to value.
func (m *Map) SetNetwork(prefix netip.Prefix, value int32, loose bool) error {
	a, length, err := encodeNetwork(prefix, loose)
	if err != nil {
		return err
	}
	return m.assign(a, length, value)
}

func (m *Map) assign(a *bdd.Assignment, length int32, value int32) error {
	path, err := buildPath(m.store, a, length)
	if err != nil {
		return err
	}
	valueNode := bdd.Terminal(value)
	newRoot, err := m.store.Ite(path, valueNode, m.root)
	m.store.Decref(path)
	if err != nil {
		return err
	}
	m.store.Decref(m.root)
	m.root = newRoot
	return nil
}

// Get returns the value addr maps to (the map's default if it was never
// explicitly set).
func (m *Map) Get(addr netip.Addr) (int32, error) {
	a, _, err := encodeAddress(addr)
	if err != nil {
		return 0, err
	}
	return m.store.Eval(m.root, a), nil
}

// IsEmpty reports whether every address still maps to the default value.
func (m *Map) IsEmpty() bool {
	return m.root == bdd.Terminal(m.deflt)
}

// IsEqual reports whether m and other map every address to the same
// value. As with Set.IsEqual, this is only meaningful when m and other
// share a Store: canonicalization then reduces it to root id equality.
func (m *Map) IsEqual(other *Map) bool {
	return m.root == other.root
}

// Iterate returns every individual address that maps to value.
func (m *Map) Iterate(value int32) []Record {
	return iteratePaths(m.store, m.root, value, false)
}

// IterateNetworks returns a disjoint CIDR cover of every address that maps
// to value.
func (m *Map) IterateNetworks(value int32) []Record {
	return iteratePaths(m.store, m.root, value, true)
}

// MemorySize estimates the map's footprint as the number of reachable
// nonterminal nodes times nodeBytes.
func (m *Map) MemorySize(nodeBytes int) int {
	return m.store.ReachableCount(m.root) * nodeBytes
}

// Close releases the map's reference on its root. The Map must not be used
// afterward.
func (m *Map) Close() {
	m.store.Decref(m.root)
	m.root = bdd.False
}
