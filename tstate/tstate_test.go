// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"errors"
	"testing"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/ftledger/state"
)

var (
	testKey  = []byte("key")
	testVal  = []byte("value")
	testVal2 = []byte("value2")

	errApply = errors.New("apply failed")
)

type TestDB struct {
	*state.MutableStorage
	applyErr error
	applied  int
}

func NewTestDB() *TestDB {
	return &TestDB{MutableStorage: state.NewMutableStorage()}
}

func (db *TestDB) Apply(ctx context.Context, changes map[string]maybe.Maybe[[]byte]) error {
	if db.applyErr != nil {
		return db.applyErr
	}
	db.applied++
	for k, v := range changes {
		if v.IsNothing() {
			if err := db.Remove(ctx, []byte(k)); err != nil {
				return err
			}
			continue
		}
		if err := db.Insert(ctx, []byte(k), v.Value()); err != nil {
			return err
		}
	}
	return nil
}

func TestGetValueReadsThrough(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := NewTestDB()
	require.NoError(db.Insert(ctx, testKey, testVal))

	tsv := New(db)
	val, err := tsv.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(testVal, val)

	_, err = tsv.GetValue(ctx, []byte("missing"))
	require.ErrorIs(err, database.ErrNotFound)
}

func TestInsertIsBuffered(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := NewTestDB()

	tsv := New(db)
	require.NoError(tsv.Insert(ctx, testKey, testVal))
	require.Equal(1, tsv.OpIndex())
	require.Equal(1, tsv.PendingChanges())

	// Nothing reaches the database until commit
	_, err := db.GetValue(ctx, testKey)
	require.ErrorIs(err, database.ErrNotFound)

	val, err := tsv.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(testVal, val)

	require.NoError(tsv.Commit(ctx))
	val, err = db.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(testVal, val)
	require.Equal(1, db.applied)

	require.ErrorIs(tsv.Commit(ctx), ErrCommitted)
	require.ErrorIs(tsv.Insert(ctx, testKey, testVal2), ErrCommitted)
}

func TestRemoveCommitGet(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := NewTestDB()
	require.NoError(db.Insert(ctx, testKey, testVal))

	tsv := New(db)
	require.NoError(tsv.Remove(ctx, testKey))
	exists, err := tsv.Exists(ctx, testKey)
	require.NoError(err)
	require.False(exists)
	require.NoError(tsv.Commit(ctx))

	_, err = db.GetValue(ctx, testKey)
	require.ErrorIs(err, database.ErrNotFound)
	require.Zero(db.StorageUsage())
}

func TestRemoveMissingIsNoop(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()

	tsv := New(NewTestDB())
	require.NoError(tsv.Remove(ctx, testKey))
	require.Zero(tsv.OpIndex())
	require.Zero(tsv.PendingChanges())
}

func TestRollback(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := NewTestDB()
	require.NoError(db.Insert(ctx, testKey, testVal))
	base := db.StorageUsage()

	tsv := New(db)
	require.Equal(base, tsv.StorageUsage())

	// modify existing key, then add a new one
	require.NoError(tsv.Insert(ctx, testKey, testVal2))
	restore := tsv.OpIndex()
	require.NoError(tsv.Insert(ctx, []byte("new"), testVal))
	require.NoError(tsv.Remove(ctx, testKey))
	require.Equal(3, tsv.OpIndex())

	tsv.Rollback(ctx, restore)
	require.Equal(restore, tsv.OpIndex())
	val, err := tsv.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(testVal2, val)
	exists, err := tsv.Exists(ctx, []byte("new"))
	require.NoError(err)
	require.False(exists)
	require.Equal(base+uint64(len(testVal2)-len(testVal)), tsv.StorageUsage())

	tsv.Rollback(ctx, 0)
	require.Zero(tsv.PendingChanges())
	require.Equal(base, tsv.StorageUsage())
	val, err = tsv.GetValue(ctx, testKey)
	require.NoError(err)
	require.Equal(testVal, val)
}

func TestRollbackToDeleted(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := NewTestDB()
	require.NoError(db.Insert(ctx, testKey, testVal))

	tsv := New(db)
	require.NoError(tsv.Remove(ctx, testKey))
	restore := tsv.OpIndex()
	require.NoError(tsv.Insert(ctx, testKey, testVal2))
	tsv.Rollback(ctx, restore)

	exists, err := tsv.Exists(ctx, testKey)
	require.NoError(err)
	require.False(exists)
	require.Zero(tsv.StorageUsage())
}

func TestStorageUsage(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()

	tsv := New(NewTestDB())
	require.NoError(tsv.Insert(ctx, testKey, testVal))
	require.Equal(state.RecordSize(testKey, testVal), tsv.StorageUsage())

	require.NoError(tsv.Insert(ctx, testKey, testVal2))
	require.Equal(state.RecordSize(testKey, testVal2), tsv.StorageUsage())

	require.NoError(tsv.Remove(ctx, testKey))
	require.Zero(tsv.StorageUsage())
}

func TestCommitFailureKeepsView(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	db := NewTestDB()
	db.applyErr = errApply

	tsv := New(db)
	require.NoError(tsv.Insert(ctx, testKey, testVal))
	require.ErrorIs(tsv.Commit(ctx), errApply)
	require.Zero(db.Len())

	// the view is still usable after a failed commit
	db.applyErr = nil
	require.NoError(tsv.Commit(ctx))
	require.Equal(1, db.Len())
}

func TestInsertNil(t *testing.T) {
	require := require.New(t)
	tsv := New(NewTestDB())
	require.ErrorIs(tsv.Insert(context.TODO(), testKey, nil), ErrNilValue)
}
