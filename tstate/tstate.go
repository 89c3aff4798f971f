// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"

	"github.com/ava-labs/ftledger/state"
)

const defaultOps = 4

var _ state.Metered = (*TStateView)(nil)

// Database is the storage a [TStateView] reads through and commits into.
type Database interface {
	state.Immutable
	state.Usage

	// Apply atomically writes [changes] (Nothing means delete).
	Apply(ctx context.Context, changes map[string]maybe.Maybe[[]byte]) error
}

type op struct {
	k string

	pastExists  bool
	pastV       []byte
	pastChanged bool
	pastUsage   uint64
}

// TStateView buffers modifications on top of a [Database] until [Commit] is
// called. Every modification is journaled, so any suffix of them can be
// reverted with [Rollback]. Nothing reaches the underlying database unless
// the view is committed.
type TStateView struct {
	db                 Database
	pendingChangedKeys map[string]maybe.Maybe[[]byte]

	// Ops is a record of all operations performed on the view. Tracking
	// operations allows for reverting state to a certain point-in-time.
	ops []*op

	usage     uint64
	committed bool
}

// New returns a new view over [db].
func New(db Database) *TStateView {
	return &TStateView{
		db:                 db,
		pendingChangedKeys: make(map[string]maybe.Maybe[[]byte]),
		ops:                make([]*op, 0, defaultOps),
		usage:              db.StorageUsage(),
	}
}

// Rollback restores the view to the ts.ops[restorePoint] operation.
func (ts *TStateView) Rollback(_ context.Context, restorePoint int) {
	if restorePoint < 0 || restorePoint > len(ts.ops) {
		return
	}
	for i := len(ts.ops) - 1; i >= restorePoint; i-- {
		op := ts.ops[i]
		ts.usage = op.pastUsage

		// write -> base state
		//
		// Remove all key changes from the view if the key was not previously
		// modified.
		if !op.pastChanged {
			delete(ts.pendingChangedKeys, op.k)
			continue
		}

		// write -> nothing (previously deleted in this view)
		if !op.pastExists {
			ts.pendingChangedKeys[op.k] = maybe.Nothing[[]byte]()
			continue
		}

		// write -> last value
		ts.pendingChangedKeys[op.k] = maybe.Some(op.pastV)
	}
	ts.ops = ts.ops[:restorePoint]
}

// OpIndex returns the number of operations done on ts.
func (ts *TStateView) OpIndex() int {
	return len(ts.ops)
}

// GetValue returns the value associated with [key], reading through to the
// database for keys the view has not touched.
func (ts *TStateView) GetValue(ctx context.Context, key []byte) ([]byte, error) {
	v, _, exists, err := ts.getValue(ctx, string(key))
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, database.ErrNotFound
	}
	return v, nil
}

// Exists returns whether or not the associated [key] is present.
func (ts *TStateView) Exists(ctx context.Context, key []byte) (bool, error) {
	_, _, exists, err := ts.getValue(ctx, string(key))
	return exists, err
}

func (ts *TStateView) getValue(ctx context.Context, key string) ([]byte, bool, bool, error) {
	if v, ok := ts.pendingChangedKeys[key]; ok {
		if v.IsNothing() {
			return nil, true, false, nil
		}
		return v.Value(), true, true, nil
	}
	v, err := ts.db.GetValue(ctx, []byte(key))
	switch {
	case err == nil:
		return v, false, true, nil
	case errors.Is(err, database.ErrNotFound):
		return nil, false, false, nil
	default:
		return nil, false, false, err
	}
}

// Insert sets or updates [key] to [value].
//
// Any bytes passed into [Insert] will be consumed by the view and should
// not be modified/referenced after this call.
func (ts *TStateView) Insert(ctx context.Context, key []byte, value []byte) error {
	if ts.committed {
		return ErrCommitted
	}
	if value == nil {
		return ErrNilValue
	}
	k := string(key)
	past, changed, exists, err := ts.getValue(ctx, k)
	if err != nil {
		return err
	}
	usage := ts.usage
	if exists {
		usage -= state.RecordSize(key, past)
	}
	ts.ops = append(ts.ops, &op{
		k: k,

		pastExists:  exists,
		pastV:       past,
		pastChanged: changed,
		pastUsage:   ts.usage,
	})
	ts.usage = usage + state.RecordSize(key, value)
	ts.pendingChangedKeys[k] = maybe.Some(value)
	return nil
}

// Remove deletes [key]. Removing a missing key is a no-op.
func (ts *TStateView) Remove(ctx context.Context, key []byte) error {
	if ts.committed {
		return ErrCommitted
	}
	k := string(key)
	past, changed, exists, err := ts.getValue(ctx, k)
	if err != nil {
		return err
	}
	if !exists {
		return nil
	}
	size := state.RecordSize(key, past)
	if size > ts.usage {
		return ErrUsageUnderflow
	}
	ts.ops = append(ts.ops, &op{
		k: k,

		pastExists:  true,
		pastV:       past,
		pastChanged: changed,
		pastUsage:   ts.usage,
	})
	ts.usage -= size
	ts.pendingChangedKeys[k] = maybe.Nothing[[]byte]()
	return nil
}

// StorageUsage returns the number of bytes the database would hold if the
// view were committed now.
func (ts *TStateView) StorageUsage() uint64 {
	return ts.usage
}

func (ts *TStateView) PendingChanges() int {
	return len(ts.pendingChangedKeys)
}

// Commit writes all pending changes to the database in one batch. The view
// cannot be modified afterwards.
func (ts *TStateView) Commit(ctx context.Context) error {
	if ts.committed {
		return ErrCommitted
	}
	if err := ts.db.Apply(ctx, ts.pendingChangedKeys); err != nil {
		return err
	}
	ts.committed = true
	return nil
}
