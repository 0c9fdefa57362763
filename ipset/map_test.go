// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package ipset_test

import (
	"net/netip"
	"testing"

	"github.com/dalzilio/ipbdd/ipset"
	"github.com/stretchr/testify/require"
)

func TestMapDefault(t *testing.T) {
	m := ipset.NewMap(newStore(t), 0)
	v, err := m.Get(netip.MustParseAddr("10.0.0.1"))
	require.NoError(t, err)
	require.Equal(t, int32(0), v)
	require.True(t, m.IsEmpty())
}

func TestMapSetGet(t *testing.T) {
	m := ipset.NewMap(newStore(t), 0)
	require.NoError(t, m.SetNetwork(netip.MustParsePrefix("192.168.0.0/16"), 7, false))
	require.NoError(t, m.Set(netip.MustParseAddr("192.168.1.1"), 42))

	v, err := m.Get(netip.MustParseAddr("192.168.0.1"))
	require.NoError(t, err)
	require.Equal(t, int32(7), v)

	v, err = m.Get(netip.MustParseAddr("192.168.1.1"))
	require.NoError(t, err)
	require.Equal(t, int32(42), v)

	v, err = m.Get(netip.MustParseAddr("10.0.0.1"))
	require.NoError(t, err)
	require.Equal(t, int32(0), v)

	require.False(t, m.IsEmpty())
}

func TestMapIterateByValue(t *testing.T) {
	m := ipset.NewMap(newStore(t), 0)
	require.NoError(t, m.SetNetwork(netip.MustParsePrefix("192.168.0.0/16"), 7, false))
	require.NoError(t, m.Set(netip.MustParseAddr("192.168.1.1"), 42))

	sevens := m.IterateNetworks(7)
	require.NotEmpty(t, sevens)
	for _, r := range sevens {
		require.GreaterOrEqual(t, r.Prefix, 16)
	}

	fortyTwos := m.Iterate(42)
	require.Len(t, fortyTwos, 1)
	require.Equal(t, netip.MustParseAddr("192.168.1.1"), fortyTwos[0].Addr)
	require.Equal(t, 32, fortyTwos[0].Prefix)
}

func TestMapIsEqual(t *testing.T) {
	store := newStore(t)
	a := ipset.NewMap(store, 0)
	b := ipset.NewMap(store, 0)
	require.True(t, a.IsEqual(b))

	require.NoError(t, a.Set(netip.MustParseAddr("1.2.3.4"), 9))
	require.False(t, a.IsEqual(b))

	require.NoError(t, b.Set(netip.MustParseAddr("1.2.3.4"), 9))
	require.True(t, a.IsEqual(b))
}
