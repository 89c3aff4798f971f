// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/stretchr/testify/require"
)

func TestRecordSize(t *testing.T) {
	require.Equal(t, uint64(3+5+RecordOverhead), RecordSize([]byte("key"), []byte("value")))
	require.Equal(t, uint64(RecordOverhead), RecordSize(nil, nil))
}

func TestMutableStorageUsage(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	s := NewMutableStorage()

	require.NoError(s.Insert(ctx, []byte("a"), []byte("12")))
	require.Equal(RecordSize([]byte("a"), []byte("12")), s.StorageUsage())

	// overwriting charges only the new value
	require.NoError(s.Insert(ctx, []byte("a"), []byte("1234")))
	require.Equal(RecordSize([]byte("a"), []byte("1234")), s.StorageUsage())
	v, err := s.GetValue(ctx, []byte("a"))
	require.NoError(err)
	require.Equal([]byte("1234"), v)

	require.NoError(s.Remove(ctx, []byte("a")))
	require.Zero(s.StorageUsage())
	require.Zero(s.Len())
	_, err = s.GetValue(ctx, []byte("a"))
	require.ErrorIs(err, database.ErrNotFound)

	// removing a missing key is a no-op
	require.NoError(s.Remove(ctx, []byte("a")))
	require.Zero(s.StorageUsage())
}

func TestImmutableStorage(t *testing.T) {
	require := require.New(t)
	s := ImmutableStorage{"a": []byte("1")}

	v, err := s.GetValue(context.Background(), []byte("a"))
	require.NoError(err)
	require.Equal([]byte("1"), v)
	_, err = s.GetValue(context.Background(), []byte("b"))
	require.ErrorIs(err, database.ErrNotFound)
}
