// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package addrtext_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/dalzilio/ipbdd/addrtext"
	"github.com/dalzilio/ipbdd/ipset"
	"github.com/stretchr/testify/require"
)

func TestScanSkipsBlankAndComments(t *testing.T) {
	input := `# a comment

10.0.0.0/8
  indented lines are ignored too
`
	var entries []addrtext.Entry
	err := addrtext.Scan(strings.NewReader(input), func(e addrtext.Entry) error {
		entries = append(entries, e)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, 3, entries[0].Line)
	require.Equal(t, "10.0.0.0/8", entries[0].Prefix.String())
	require.False(t, entries[0].Remove)
}

func TestScanBareAddressDefaultsToHostPrefix(t *testing.T) {
	var entries []addrtext.Entry
	err := addrtext.Scan(strings.NewReader("192.168.1.1\n::1\n"), func(e addrtext.Entry) error {
		entries = append(entries, e)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, 32, entries[0].Prefix.Bits())
	require.Equal(t, 128, entries[1].Prefix.Bits())
}

func TestScanRemoveMarker(t *testing.T) {
	var entries []addrtext.Entry
	err := addrtext.Scan(strings.NewReader("!10.0.0.0/8\n! 10.1.0.0/16\n"), func(e addrtext.Entry) error {
		entries = append(entries, e)
		return nil
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.True(t, entries[0].Remove)
	require.True(t, entries[1].Remove)
	require.Equal(t, "10.1.0.0/16", entries[1].Prefix.String())
}

func TestScanAccumulatesLineErrorsWithoutStopping(t *testing.T) {
	input := "10.0.0.0/8\nnot-an-address\n192.168.1.1\n"
	var entries []addrtext.Entry
	err := addrtext.Scan(strings.NewReader(input), func(e addrtext.Entry) error {
		entries = append(entries, e)
		return nil
	})
	require.Error(t, err)
	require.Len(t, entries, 2, "the valid lines surrounding the bad one must still be delivered")

	var typed *ipset.Error
	require.ErrorAs(t, err, &typed)
	require.Equal(t, ipset.ErrInvalidAddress, typed.Kind)
}

func TestScanPropagatesCallbackError(t *testing.T) {
	boom := errors.New("boom")
	err := addrtext.Scan(strings.NewReader("10.0.0.0/8\n"), func(e addrtext.Entry) error {
		return boom
	})
	require.Error(t, err)
}
