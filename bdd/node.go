// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

// Node is a reference to an element of a BDD: either a terminal, carrying a
// value directly, or a nonterminal, carrying an index into the owning
// Store's node arena. Node is a plain value (not a pointer): it can be
// compared in constant time and copied freely without transferring
// ownership of the underlying arena slot. The owning Store is the only
// thing that may mutate what a Node refers to.
//
// We tag terminals using the sign: a nonnegative Node is a nonterminal
// arena index; a negative Node encodes the terminal value v as -(v+1). This
// leaves 2^31 nonterminal slots and 2^31 terminal values, matching the
// on-disk signed int32 node id used by the serialized format.
type Node int32

// terminal returns the Node encoding terminal value v. v must be >= 0.
func terminal(v int32) Node {
	return Node(-(v + 1))
}

// IsTerminal reports whether n refers to a terminal (leaf) value.
func (n Node) IsTerminal() bool {
	return n < 0
}

// Value returns the terminal value carried by n. Calling it on a
// nonterminal Node returns an unspecified result; callers must check
// IsTerminal first.
func (n Node) Value() int32 {
	return int32(-n) - 1
}

func (n Node) index() int32 {
	return int32(n)
}

// False is the constant Node denoting the Boolean value 0.
var False = terminal(0)

// True is the constant Node denoting the Boolean value 1.
var True = terminal(1)

// From returns the constant Node for Boolean value v.
func From(v bool) Node {
	if v {
		return True
	}
	return False
}

// Terminal returns the Node for terminal value v, which must be >= 0. Maps
// use this to build the constant function for an arbitrary default or
// mapped value; sets only ever need False and True.
func Terminal(v int32) Node {
	return terminal(v)
}
