// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/ava-labs/avalanchego/api/metrics"
	"github.com/ava-labs/avalanchego/database"
	"github.com/ava-labs/avalanchego/utils/maybe"

	smath "github.com/ava-labs/avalanchego/utils/math"

	"github.com/ava-labs/ftledger/consts"
	"github.com/ava-labs/ftledger/pebble"
	"github.com/ava-labs/ftledger/state"
	"github.com/ava-labs/ftledger/tstate"
	"github.com/ava-labs/ftledger/utils"
)

var _ tstate.Database = (*Store)(nil)

// Backend is the key-value database a [Store] persists into.
type Backend interface {
	database.KeyValueReader
	database.KeyValueWriter
	database.KeyValueDeleter
	database.Batcher
}

// Store is a [Backend] that keeps an exact count of the bytes occupied by its
// records. The count is persisted alongside the records so it survives
// restarts.
type Store struct {
	l     sync.RWMutex
	db    Backend
	usage uint64
}

// Open creates a pebble-backed store in a subdirectory of [dataDir] and
// registers its metrics with [gatherer].
func Open(cfg pebble.Config, dataDir string, gatherer metrics.MultiGatherer) (*Store, *pebble.Database, error) {
	path, err := utils.InitSubDirectory(dataDir, Namespace)
	if err != nil {
		return nil, nil, err
	}
	db, registry, err := pebble.New(path, cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := gatherer.Register(Namespace, registry); err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	s, err := New(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return s, db, nil
}

// New wraps [db], restoring the usage counter if one was persisted.
func New(db Backend) (*Store, error) {
	s := &Store{db: db}
	v, err := db.Get(usageKey)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return s, nil
	case err != nil:
		return nil, err
	}
	if len(v) != consts.Uint64Len {
		return nil, fmt.Errorf("%w: length %d", ErrCorruptUsage, len(v))
	}
	s.usage = binary.BigEndian.Uint64(v)
	return s, nil
}

func (s *Store) GetValue(_ context.Context, key []byte) ([]byte, error) {
	if isReserved(key) {
		return nil, ErrReservedKey
	}
	s.l.RLock()
	defer s.l.RUnlock()

	return s.db.Get(key)
}

func (s *Store) StorageUsage() uint64 {
	s.l.RLock()
	defer s.l.RUnlock()

	return s.usage
}

// Apply writes [changes] and the updated usage counter in a single batch.
func (s *Store) Apply(_ context.Context, changes map[string]maybe.Maybe[[]byte]) error {
	s.l.Lock()
	defer s.l.Unlock()

	usage := s.usage
	batch := s.db.NewBatch()
	// Batches that own resources are released on every early return. Write
	// already released them on success.
	if closer, ok := batch.(io.Closer); ok {
		defer closer.Close()
	}
	for k, v := range changes {
		key := []byte(k)
		if isReserved(key) {
			return ErrReservedKey
		}
		past, err := s.db.Get(key)
		switch {
		case err == nil:
			usage, err = smath.Sub(usage, state.RecordSize(key, past))
			if err != nil {
				return fmt.Errorf("%w: %w", ErrUsageUnderflow, err)
			}
		case errors.Is(err, database.ErrNotFound):
			if v.IsNothing() {
				continue
			}
		default:
			return err
		}
		if v.IsNothing() {
			if err := batch.Delete(key); err != nil {
				return err
			}
			continue
		}
		if err := batch.Put(key, v.Value()); err != nil {
			return err
		}
		usage, err = smath.Add64(usage, state.RecordSize(key, v.Value()))
		if err != nil {
			return err
		}
	}
	if err := batch.Put(usageKey, binary.BigEndian.AppendUint64(nil, usage)); err != nil {
		return err
	}
	if err := batch.Write(); err != nil {
		return err
	}
	s.usage = usage
	return nil
}

func isReserved(key []byte) bool {
	return len(key) > 0 && key[0] == usagePrefix
}
