// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package serialize

import (
	"bytes"
	"os"

	"github.com/dalzilio/ipbdd/bdd"
	"github.com/dalzilio/ipbdd/ipset"
	"github.com/edsrzf/mmap-go"
)

// LoadMapped reads a serialized BDD from path without copying the file
// into a read buffer first: the file is memory-mapped read-only and Read
// parses directly out of the mapping. This matters for the large,
// mostly-read-only snapshot files a long-lived IP-set service loads at
// startup, the same case erigon's dependency on mmap-go exists to serve.
//
// The returned Closer must be closed once the returned root (and anything
// derived from it) is no longer needed; closing unmaps the file.
func LoadMapped(path string, store *bdd.Store) (bdd.Node, *MappedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, nil, ipset.WrapError(ipset.ErrIO, "serialize.LoadMapped", err)
	}
	defer f.Close()

	m, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return 0, nil, ipset.WrapError(ipset.ErrIO, "serialize.LoadMapped", err)
	}

	root, err := Read(bytes.NewReader(m), store)
	if err != nil {
		_ = m.Unmap()
		return 0, nil, err
	}
	return root, &MappedFile{region: m}, nil
}

// MappedFile owns the memory mapping behind a LoadMapped root.
type MappedFile struct {
	region mmap.MMap
}

// Close unmaps the underlying file.
func (mf *MappedFile) Close() error {
	if mf == nil || mf.region == nil {
		return nil
	}
	err := mf.region.Unmap()
	mf.region = nil
	if err != nil {
		return ipset.WrapError(ipset.ErrIO, "MappedFile.Close", err)
	}
	return nil
}
