// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

// Package serialize implements the versioned binary encoding for a BDD
// rooted Set or Map. The teacher library has no serialization of its own
// (rudd is in-memory only); the wire format and its reachability-ordered
// write path are new, specified by spec.md §4.5 and grounded in the same
// postorder traversal bdd.Store.Walk already performs for
// bdd.Store.ReachableCount.
package serialize

import (
	"encoding/binary"
	"io"

	"github.com/dalzilio/ipbdd/bdd"
	"github.com/dalzilio/ipbdd/ipset"
	"github.com/pkg/errors"
)

var magic = [6]byte{'I', 'P', ' ', 's', 'e', 't'}

const formatVersion uint16 = 1

const headerSize = 6 + 2 + 8 + 4 // magic + version + total length + node count

// recordSize is the on-disk size of one nonterminal record: 1 byte
// variable, 4 bytes low, 4 bytes high.
const recordSize = 1 + 4 + 4

// maxNonterminals preserves the on-disk signed int32 node-id limit (see
// DESIGN.md, open question (iii)): a disk id is "-1, -2, ..." so at most
// 2^31-1 nonterminals may be written.
const maxNonterminals = (1 << 31) - 1

// Write serializes the BDD rooted at root to w, using store to resolve
// node structure. It is used for both Sets and Maps: a Map's arbitrary
// terminal values fit the same "non-negative integer" terminal encoding a
// Set's 0/1 values do.
func Write(w io.Writer, store *bdd.Store, root bdd.Node) error {
	var order []bdd.Node
	store.Walk(root, func(n bdd.Node) {
		order = append(order, n)
	})
	if len(order) > maxNonterminals {
		return ipset.WrapError(ipset.ErrParse, "serialize.Write", errors.Errorf("too many nonterminals to serialize (%d)", len(order)))
	}

	diskID := make(map[bdd.Node]int32, len(order))
	for i, n := range order {
		diskID[n] = -int32(i + 1)
	}

	resolve := func(n bdd.Node) int32 {
		if n.IsTerminal() {
			return n.Value()
		}
		return diskID[n]
	}

	totalLength := uint64(headerSize) + uint64(len(order))*recordSize + 4
	header := make([]byte, headerSize)
	copy(header[0:6], magic[:])
	binary.BigEndian.PutUint16(header[6:8], formatVersion)
	binary.BigEndian.PutUint64(header[8:16], totalLength)
	binary.BigEndian.PutUint32(header[16:20], uint32(len(order)))
	if _, err := w.Write(header); err != nil {
		return ipset.WrapError(ipset.ErrIO, "serialize.Write", err)
	}

	buf := make([]byte, recordSize)
	for _, n := range order {
		buf[0] = byte(store.Variable(n))
		binary.BigEndian.PutUint32(buf[1:5], uint32(resolve(store.Low(n))))
		binary.BigEndian.PutUint32(buf[5:9], uint32(resolve(store.High(n))))
		if _, err := w.Write(buf); err != nil {
			return ipset.WrapError(ipset.ErrIO, "serialize.Write", err)
		}
	}

	var trailer [4]byte
	binary.BigEndian.PutUint32(trailer[:], uint32(resolve(root)))
	if _, err := w.Write(trailer[:]); err != nil {
		return ipset.WrapError(ipset.ErrIO, "serialize.Write", err)
	}
	return nil
}

// Read deserializes a BDD from r into store, returning its root. Every
// record's children are mapped from disk ids to in-memory bdd.Node before
// being passed to store.Nonterminal: because the format guarantees
// children precede their parents, the mapping for low and high is always
// already known (spec.md §4.5, "Read path").
func Read(r io.Reader, store *bdd.Store) (bdd.Node, error) {
	header := make([]byte, headerSize)
	if _, err := io.ReadFull(r, header); err != nil {
		return 0, ipset.WrapError(ipset.ErrIO, "serialize.Read", err)
	}
	if string(header[0:6]) != string(magic[:]) {
		return 0, ipset.WrapError(ipset.ErrParse, "serialize.Read", errors.New("bad magic"))
	}
	version := binary.BigEndian.Uint16(header[6:8])
	if version != formatVersion {
		return 0, ipset.WrapError(ipset.ErrParse, "serialize.Read", errors.Errorf("unknown format version %d", version))
	}
	totalLength := binary.BigEndian.Uint64(header[8:16])
	count := binary.BigEndian.Uint32(header[16:20])

	expected := uint64(headerSize) + uint64(count)*recordSize + 4
	if totalLength != expected {
		return 0, ipset.WrapError(ipset.ErrParse, "serialize.Read", errors.Errorf("length field %d does not match record count %d", totalLength, count))
	}

	// inMemory[i] holds the in-memory Node for disk id -(i+1).
	inMemory := make([]bdd.Node, count)
	buf := make([]byte, recordSize)
	for i := uint32(0); i < count; i++ {
		if _, err := io.ReadFull(r, buf); err != nil {
			return 0, ipset.WrapError(ipset.ErrIO, "serialize.Read", err)
		}
		variable := int32(buf[0])
		diskLow := int32(binary.BigEndian.Uint32(buf[1:5]))
		diskHigh := int32(binary.BigEndian.Uint32(buf[5:9]))
		low, err := resolveDiskID(diskLow, inMemory, i)
		if err != nil {
			return 0, ipset.WrapError(ipset.ErrParse, "serialize.Read", err)
		}
		high, err := resolveDiskID(diskHigh, inMemory, i)
		if err != nil {
			return 0, ipset.WrapError(ipset.ErrParse, "serialize.Read", err)
		}
		store.Incref(low)
		store.Incref(high)
		n, err := store.Nonterminal(variable, low, high)
		if err != nil {
			return 0, ipset.WrapError(ipset.ErrParse, "serialize.Read", err)
		}
		inMemory[i] = n
	}

	var trailer [4]byte
	if _, err := io.ReadFull(r, trailer[:]); err != nil {
		return 0, ipset.WrapError(ipset.ErrIO, "serialize.Read", err)
	}
	rootDiskID := int32(binary.BigEndian.Uint32(trailer[:]))
	root, err := resolveDiskID(rootDiskID, inMemory, count)
	if err != nil {
		return 0, ipset.WrapError(ipset.ErrParse, "serialize.Read", err)
	}

	if _, err := r.Read(make([]byte, 1)); err != io.EOF {
		if err == nil {
			return 0, ipset.WrapError(ipset.ErrParse, "serialize.Read", errors.New("trailing bytes after the serialized BDD"))
		}
		return 0, ipset.WrapError(ipset.ErrIO, "serialize.Read", err)
	}

	store.Incref(root)
	for _, n := range inMemory {
		store.Decref(n)
	}
	return root, nil
}

// resolveDiskID turns a disk-encoded child id into an in-memory Node.
// Non-negative ids are terminal values; negative ids "-1, -2, ..." index
// already-read nonterminals. before is the 0-based position of the record
// currently being read (or count, when resolving the trailing root id):
// a reference must index a strictly earlier record, enforcing "children
// precede their parents" on read as well as on write.
func resolveDiskID(id int32, inMemory []bdd.Node, before uint32) (bdd.Node, error) {
	if id >= 0 {
		return bdd.Terminal(id), nil
	}
	idx := uint32(-id - 1)
	if idx >= before {
		return 0, errors.Errorf("child reference %d out of range at record %d", id, before)
	}
	return inMemory[idx], nil
}
