// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package serialize_test

import (
	"bytes"
	"net/netip"
	"os"
	"path/filepath"
	"testing"

	"github.com/dalzilio/ipbdd/bdd"
	"github.com/dalzilio/ipbdd/ipset"
	"github.com/dalzilio/ipbdd/serialize"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *bdd.Store {
	t.Helper()
	s, err := bdd.New(129)
	require.NoError(t, err)
	return s
}

func TestWriteReadEmptySet(t *testing.T) {
	store := newStore(t)
	s := ipset.NewSet(store)

	var buf bytes.Buffer
	require.NoError(t, serialize.Write(&buf, store, s.Root()))

	// Header-only: no nonterminal records, trailing terminal id 0.
	require.Equal(t, 24, buf.Len())

	root, err := serialize.Read(bytes.NewReader(buf.Bytes()), store)
	require.NoError(t, err)
	require.True(t, root.IsTerminal())
	require.Equal(t, int32(0), root.Value())
}

func TestWriteReadRoundtrip(t *testing.T) {
	store := newStore(t)
	s := ipset.NewSet(store)
	_, err := s.AddNetwork(netip.MustParsePrefix("10.0.0.0/8"), false)
	require.NoError(t, err)
	_, err = s.Add(netip.MustParseAddr("192.168.1.1"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, serialize.Write(&buf, store, s.Root()))

	other := newStore(t)
	root, err := serialize.Read(bytes.NewReader(buf.Bytes()), other)
	require.NoError(t, err)

	reloaded := ipset.SetFromRoot(other, root)
	ok, err := reloaded.Contains(netip.MustParseAddr("10.1.2.3"))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = reloaded.Contains(netip.MustParseAddr("192.168.1.1"))
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = reloaded.Contains(netip.MustParseAddr("11.0.0.0"))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestReadRejectsBadMagic(t *testing.T) {
	store := newStore(t)
	buf := bytes.Repeat([]byte{0}, 24)
	_, err := serialize.Read(bytes.NewReader(buf), store)
	require.Error(t, err)

	var typed *ipset.Error
	require.ErrorAs(t, err, &typed)
	require.Equal(t, ipset.ErrParse, typed.Kind)
}

func TestReadRejectsTrailingBytes(t *testing.T) {
	store := newStore(t)
	s := ipset.NewSet(store)
	_, err := s.AddNetwork(netip.MustParsePrefix("10.0.0.0/8"), false)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, serialize.Write(&buf, store, s.Root()))
	buf.WriteByte(0xff)

	other := newStore(t)
	_, err = serialize.Read(bytes.NewReader(buf.Bytes()), other)
	require.Error(t, err)

	var typed *ipset.Error
	require.ErrorAs(t, err, &typed)
	require.Equal(t, ipset.ErrParse, typed.Kind)
}

func TestLoadMapped(t *testing.T) {
	store := newStore(t)
	s := ipset.NewSet(store)
	_, err := s.AddNetwork(netip.MustParsePrefix("172.16.0.0/12"), false)
	require.NoError(t, err)

	dir := t.TempDir()
	path := filepath.Join(dir, "set.bin")

	var buf bytes.Buffer
	require.NoError(t, serialize.Write(&buf, store, s.Root()))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	other := newStore(t)
	root, mapped, err := serialize.LoadMapped(path, other)
	require.NoError(t, err)
	defer mapped.Close()

	reloaded := ipset.SetFromRoot(other, root)
	ok, err := reloaded.Contains(netip.MustParseAddr("172.16.5.5"))
	require.NoError(t, err)
	require.True(t, ok)
}
