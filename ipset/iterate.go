// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ipset

import (
	"net/netip"

	"github.com/dalzilio/ipbdd/bdd"
)

// Record is one entry produced by iteration: an address (the network
// address when Prefix < the family's full width) and the number of
// significant leading bits.
type Record struct {
	Addr   netip.Addr
	Prefix int
}

// iteratePaths walks every root-to-terminal path of root whose value
// equals desiredValue and expands it into Records. When networks is
// false, every path is expanded down to individual /32 or /128 addresses;
// when true, a path's own trailing run of untested ("don't care") address
// bits becomes the network's host portion directly — no expansion needed
// past the last variable the path actually tested, which is exactly the
// BDD subtree spec.md §6 describes as "all of whose address bits are
// EITHER".
func iteratePaths(store *bdd.Store, root bdd.Node, desiredValue int32, networks bool) []Record {
	var out []Record
	it := bdd.NewPathIterator(store, root)
	for !it.Done() {
		if it.Value() == desiredValue {
			out = append(out, expandPath(it.Assignment(), networks)...)
		}
		it.Advance()
	}
	return out
}

// expandPath turns one BDD path into one or more Records. A path whose
// family cell (variable 0) is Either is not yet specific to IPv4 or IPv6:
// it yields both, IPv4 first (spec.md §6).
func expandPath(path *bdd.Assignment, networks bool) []Record {
	var out []Record
	families := []bdd.Cell{bdd.CellTrue, bdd.CellFalse} // IPv4 first, then IPv6
	if fam := path.Get(familyVar); fam != bdd.Either {
		families = []bdd.Cell{fam}
	}
	for _, f := range families {
		totalBits := ipv4Bits
		if f == bdd.CellFalse {
			totalBits = ipv6Bits
		}
		readBits := totalBits
		if networks {
			cut := path.Len() - (familyVar + 1)
			if cut < 0 {
				cut = 0
			}
			if cut > totalBits {
				cut = totalBits
			}
			readBits = cut
		}
		full := path.Clone()
		full.Set(familyVar, f)
		exp := bdd.NewExpandedIterator(full, familyVar+1+readBits)
		for !exp.Done() {
			buf := addressBytes(exp.Value(), f, readBits, totalBits)
			prefix := int(totalBits)
			if networks {
				prefix = int(readBits)
			}
			out = append(out, Record{Addr: toAddr(buf, f), Prefix: prefix})
			exp.Advance()
		}
	}
	return out
}

// addressBytes reads the first readBits address-bit variables out of a and
// packs them big-endian into a zero-initialized buffer sized for the
// family (4 bytes for IPv4, 16 for IPv6); bits past readBits stay zero,
// which is exactly the canonical "network address" convention for a CIDR
// summary.
func addressBytes(a *bdd.Assignment, fam bdd.Cell, readBits, totalBits int32) []byte {
	size := totalBits / 8
	buf := make([]byte, size)
	for i := int32(0); i < readBits; i++ {
		if a.Get(familyVar+1+i) == bdd.CellTrue {
			buf[i/8] |= 1 << uint(7-(i%8))
		}
	}
	return buf
}

func toAddr(buf []byte, fam bdd.Cell) netip.Addr {
	if fam == bdd.CellTrue {
		var b4 [4]byte
		copy(b4[:], buf)
		return netip.AddrFrom4(b4)
	}
	var b16 [16]byte
	copy(b16[:], buf)
	return netip.AddrFrom16(b16)
}
