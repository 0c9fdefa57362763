// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ipset

import (
	"net/netip"

	"github.com/dalzilio/ipbdd/bdd"
)

// Variable 0 selects the address family: CellTrue means IPv4, CellFalse
// means IPv6. Variables 1..32 (IPv4) or 1..128 (IPv6) are the address bits
// in big-endian order, per spec.md §3.
const (
	familyVar int32 = 0
	ipv4Bits  int32 = 32
	ipv6Bits  int32 = 128
)

// encodeAddress returns the full-length Assignment for addr (every address
// bit forced, none Either) together with the assignment's length (one past
// the last forced variable: 1+32 for IPv4, 1+128 for IPv6).
func encodeAddress(addr netip.Addr) (*bdd.Assignment, int32, error) {
	a := bdd.NewAssignment()
	var bits []byte
	var totalBits int32
	switch {
	case addr.Is4():
		a.Set(familyVar, bdd.CellTrue)
		b4 := addr.As4()
		bits = b4[:]
		totalBits = ipv4Bits
	case addr.Is4In6():
		b4 := addr.As4()
		a.Set(familyVar, bdd.CellTrue)
		bits = b4[:]
		totalBits = ipv4Bits
	case addr.Is6():
		a.Set(familyVar, bdd.CellFalse)
		b16 := addr.As16()
		bits = b16[:]
		totalBits = ipv6Bits
	default:
		return nil, 0, newError(ErrInvalidAddress, "encodeAddress", "address %q is not a valid IPv4 or IPv6 address", addr)
	}
	setBits(a, bits, totalBits)
	return a, familyVar + 1 + totalBits, nil
}

func setBits(a *bdd.Assignment, bits []byte, totalBits int32) {
	for i := int32(0); i < totalBits; i++ {
		byteIdx := i / 8
		shift := uint(7 - (i % 8))
		cell := bdd.CellFalse
		if bits[byteIdx]&(1<<shift) != 0 {
			cell = bdd.CellTrue
		}
		a.Set(familyVar+1+i, cell)
	}
}

// encodeNetwork returns the Assignment for prefix truncated to its CIDR
// length: bits within the prefix are forced, bits past it are Either
// ("don't care"). Unless loose is set, a network whose host bits are
// non-zero is rejected (spec.md §4.4, "CIDR validation").
func encodeNetwork(prefix netip.Prefix, loose bool) (*bdd.Assignment, int32, error) {
	if !prefix.IsValid() {
		return nil, 0, newError(ErrInvalidNetwork, "encodeNetwork", "invalid prefix %v", prefix)
	}
	full, totalLen, err := encodeAddress(prefix.Addr())
	if err != nil {
		return nil, 0, err
	}
	bits := int32(prefix.Bits())
	cut := familyVar + 1 + bits
	if !loose {
		for v := cut; v < totalLen; v++ {
			if full.Get(v) == bdd.CellTrue {
				return nil, 0, newError(ErrInvalidNetwork, "encodeNetwork", "network %v has non-zero host bits", prefix)
			}
		}
	}
	full.Cut(cut)
	return full, cut, nil
}

// buildPath materializes a linear chain of nonterminal nodes representing
// exactly the variable assignment in a (a "path BDD"), true only for that
// single assignment (or, when a has Either cells within [0,length), for
// every concrete assignment agreeing with a elsewhere: those variables
// are simply never tested, matching the "don't care" semantics of a CIDR
// network). It returns one reference the caller owns.
func buildPath(store *bdd.Store, a *bdd.Assignment, length int32) (bdd.Node, error) {
	current := bdd.True
	for v := length - 1; v >= 0; v-- {
		switch a.Get(v) {
		case bdd.CellTrue:
			n, err := store.Nonterminal(v, bdd.False, current)
			if err != nil {
				store.Decref(current)
				return 0, err
			}
			current = n
		case bdd.CellFalse:
			n, err := store.Nonterminal(v, current, bdd.False)
			if err != nil {
				store.Decref(current)
				return 0, err
			}
			current = n
		default: // Either: this variable is never tested on the path
		}
	}
	return current, nil
}
