// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"testing"

	"github.com/ava-labs/avalanchego/api/metrics"
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/database/memdb"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/ftledger/pebble"
	"github.com/ava-labs/ftledger/state"
	"github.com/ava-labs/ftledger/tstate"
)

func TestApplyTracksUsage(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()

	s, err := New(memdb.New())
	require.NoError(err)
	require.Zero(s.StorageUsage())

	require.NoError(s.Apply(ctx, map[string]maybe.Maybe[[]byte]{
		"alice": maybe.Some([]byte{1, 2}),
		"bob":   maybe.Some([]byte{3}),
		"carol": maybe.Nothing[[]byte](),
	}))
	expected := state.RecordSize([]byte("alice"), []byte{1, 2}) + state.RecordSize([]byte("bob"), []byte{3})
	require.Equal(expected, s.StorageUsage())

	// overwrite and delete
	require.NoError(s.Apply(ctx, map[string]maybe.Maybe[[]byte]{
		"alice": maybe.Some([]byte{1, 2, 3, 4}),
		"bob":   maybe.Nothing[[]byte](),
	}))
	require.Equal(state.RecordSize([]byte("alice"), []byte{1, 2, 3, 4}), s.StorageUsage())

	_, err = s.GetValue(ctx, []byte("bob"))
	require.ErrorIs(err, database.ErrNotFound)
	v, err := s.GetValue(ctx, []byte("alice"))
	require.NoError(err)
	require.Equal([]byte{1, 2, 3, 4}, v)
}

func TestUsageSurvivesReload(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := memdb.New()

	s, err := New(db)
	require.NoError(err)
	require.NoError(s.Apply(ctx, map[string]maybe.Maybe[[]byte]{
		"alice": maybe.Some([]byte{1}),
	}))

	reloaded, err := New(db)
	require.NoError(err)
	require.Equal(s.StorageUsage(), reloaded.StorageUsage())
}

func TestReservedKeys(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()

	s, err := New(memdb.New())
	require.NoError(err)
	_, err = s.GetValue(ctx, usageKey)
	require.ErrorIs(err, ErrReservedKey)
	require.ErrorIs(s.Apply(ctx, map[string]maybe.Maybe[[]byte]{
		string(usageKey): maybe.Some([]byte{0}),
	}), ErrReservedKey)
}

func TestCorruptUsage(t *testing.T) {
	require := require.New(t)
	db := memdb.New()
	require.NoError(db.Put(usageKey, []byte{1}))

	_, err := New(db)
	require.ErrorIs(err, ErrCorruptUsage)
}

func TestViewCommit(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()

	s, err := New(memdb.New())
	require.NoError(err)

	view := tstate.New(s)
	require.NoError(view.Insert(ctx, []byte("alice"), []byte{1}))
	require.NoError(view.Insert(ctx, []byte("tmp"), []byte{2}))
	require.NoError(view.Remove(ctx, []byte("tmp")))
	require.NoError(view.Commit(ctx))

	require.Equal(view.StorageUsage(), s.StorageUsage())
	_, err = s.GetValue(ctx, []byte("tmp"))
	require.ErrorIs(err, database.ErrNotFound)
}

func TestOpenPebble(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	dir := t.TempDir()
	cfg := pebble.NewDefaultConfig()
	cfg.Sync = false

	s, db, err := Open(cfg, dir, metrics.NewPrefixGatherer())
	require.NoError(err)
	require.NoError(s.Apply(ctx, map[string]maybe.Maybe[[]byte]{
		"alice": maybe.Some([]byte{1}),
	}))
	usage := s.StorageUsage()
	require.NoError(db.Close())

	s, db, err = Open(cfg, dir, metrics.NewPrefixGatherer())
	require.NoError(err)
	require.Equal(usage, s.StorageUsage())
	require.NoError(db.Close())
}

func TestApplyReleasesBatch(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	cfg := pebble.NewDefaultConfig()
	cfg.Sync = false

	s, db, err := Open(cfg, t.TempDir(), metrics.NewPrefixGatherer())
	require.NoError(err)
	defer db.Close()

	require.ErrorIs(s.Apply(ctx, map[string]maybe.Maybe[[]byte]{
		"alice":          maybe.Some([]byte{1}),
		string(usageKey): maybe.Some([]byte{0}),
	}), ErrReservedKey)
	require.Zero(db.OpenBatches())
	require.Zero(s.StorageUsage())

	require.NoError(s.Apply(ctx, map[string]maybe.Maybe[[]byte]{
		"alice": maybe.Some([]byte{1}),
	}))
	require.Zero(db.OpenBatches())
	v, err := s.GetValue(ctx, []byte("alice"))
	require.NoError(err)
	require.Equal([]byte{1}, v)
}
