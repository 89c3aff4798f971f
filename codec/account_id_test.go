// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAccountIDVerify(t *testing.T) {
	require := require.New(t)

	require.NoError(AccountID("ab").Verify())
	require.NoError(AccountID(strings.Repeat("a", 64)).Verify())
	require.ErrorIs(AccountID("a").Verify(), ErrInvalidAccountID)
	require.ErrorIs(AccountID(strings.Repeat("a", 65)).Verify(), ErrInvalidAccountID)

	// Identifiers are case-sensitive and never normalized.
	upper, err := ParseAccountID("Alice.near")
	require.NoError(err)
	require.NotEqual(AccountID("alice.near"), upper)
}

func TestAccountKey(t *testing.T) {
	require := require.New(t)

	k := AccountKey(0x7, "bob")
	require.Equal([]byte{0x7, 3, 0, 0, 0, 'b', 'o', 'b'}, k)
	require.Len(AccountKey(0x0, AccountID(strings.Repeat("a", 64))), 1+4+64)
}
