// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ava-labs/ftledger/codec"
)

func TestFormatAndParseBalance(t *testing.T) {
	require := require.New(t)

	testCases := []struct {
		input    string
		decimals uint8
		expected string
	}{
		{"1000000000", 9, "1.000000000"},
		{"123456789", 9, "0.123456789"},
		{"5", 9, "0.000000005"},
		{"0", 9, "0.000000000"},
		{"1000000000000000000000000000", 24, "1000.000000000000000000000000"},
		{"42", 0, "42"},
	}
	for _, tc := range testCases {
		formatted := FormatBalance(codec.MustParseAmount(tc.input), tc.decimals)
		require.Equal(tc.expected, formatted)

		parsed, err := ParseBalance(tc.expected, tc.decimals)
		require.NoError(err)
		require.Equal(tc.input, parsed.String())
	}

	short, err := ParseBalance("1.5", 24)
	require.NoError(err)
	require.Equal("1500000000000000000000000", short.String())

	for _, bad := range []string{"", ".", "invalid", "-1", "1.0000000001"} {
		_, err := ParseBalance(bad, 9)
		require.ErrorIs(err, ErrInvalidBalance, bad)
	}

	// beyond u128
	_, err = ParseBalance("340282366920938463463374607431768211456", 0)
	require.ErrorIs(err, codec.ErrAmountOverflow)
}

func TestInitSubDirectory(t *testing.T) {
	require := require.New(t)

	p, err := InitSubDirectory(t.TempDir(), "db")
	require.NoError(err)
	info, err := os.Stat(p)
	require.NoError(err)
	require.True(info.IsDir())
}

func TestGetHostPort(t *testing.T) {
	require := require.New(t)

	host, err := GetHost("http://127.0.0.1:9650/ext/ft")
	require.NoError(err)
	require.Equal("127.0.0.1", host)
	port, err := GetPort("http://127.0.0.1:9650/ext/ft")
	require.NoError(err)
	require.Equal("9650", port)
}

func TestBoundedBuffer(t *testing.T) {
	require := require.New(t)

	_, err := NewBoundedBuffer[int](0)
	require.ErrorIs(err, errInvalidMaxSize)

	b, err := NewBoundedBuffer[int](2)
	require.NoError(err)
	_, ok := b.Last()
	require.False(ok)

	_, ok = b.Insert(1)
	require.False(ok)
	b.Insert(2)
	evicted, ok := b.Insert(3)
	require.True(ok)
	require.Equal(1, evicted)
	require.Equal([]int{2, 3}, b.Items())
	last, ok := b.Last()
	require.True(ok)
	require.Equal(3, last)
	require.Equal(2, b.Len())

	seenThrough := func(n int) func(int) bool {
		return func(i int) bool { return i <= n }
	}
	require.Equal([]int{2, 3}, b.After(seenThrough(0)))
	require.Equal([]int{3}, b.After(seenThrough(2)))
	require.Empty(b.After(seenThrough(3)))
}
