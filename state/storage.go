// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"

	"github.com/ava-labs/avalanchego/database"
)

var (
	_ Immutable = ImmutableStorage(nil)
	_ Metered   = (*MutableStorage)(nil)
)

// ImmutableStorage implements [state.Immutable] by wrapping a key-value map
type ImmutableStorage map[string][]byte

func (i ImmutableStorage) GetValue(_ context.Context, key []byte) (value []byte, err error) {
	if v, has := i[string(key)]; has {
		return v, nil
	}
	return nil, database.ErrNotFound
}

// MutableStorage is an in-memory [Metered] store.
type MutableStorage struct {
	m     map[string][]byte
	usage uint64
}

func NewMutableStorage() *MutableStorage {
	return &MutableStorage{m: make(map[string][]byte)}
}

func (s *MutableStorage) GetValue(_ context.Context, key []byte) (value []byte, err error) {
	if v, has := s.m[string(key)]; has {
		return v, nil
	}
	return nil, database.ErrNotFound
}

func (s *MutableStorage) Insert(_ context.Context, key []byte, value []byte) error {
	k := string(key)
	if past, ok := s.m[k]; ok {
		s.usage -= RecordSize(key, past)
	}
	s.m[k] = value
	s.usage += RecordSize(key, value)
	return nil
}

func (s *MutableStorage) Remove(_ context.Context, key []byte) error {
	k := string(key)
	past, ok := s.m[k]
	if !ok {
		return nil
	}
	delete(s.m, k)
	s.usage -= RecordSize(key, past)
	return nil
}

func (s *MutableStorage) StorageUsage() uint64 {
	return s.usage
}

func (s *MutableStorage) Len() int {
	return len(s.m)
}
