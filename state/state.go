// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package state

import (
	"context"
)

type Immutable interface {
	GetValue(ctx context.Context, key []byte) (value []byte, err error)
}

type Mutable interface {
	Immutable

	Insert(ctx context.Context, key []byte, value []byte) error
	Remove(ctx context.Context, key []byte) error
}

// Usage is implemented by storage that can report exactly how many bytes
// its records currently occupy. Registration fees are quoted from the
// difference between two readings.
type Usage interface {
	StorageUsage() uint64
}

// Metered is storage that can be read, written and measured.
type Metered interface {
	Mutable
	Usage
}

// RecordOverhead is the fixed number of bytes charged for every record in
// addition to its key and value.
const RecordOverhead = 40

// RecordSize returns the number of bytes charged for storing [value] under
// [key].
func RecordSize(key []byte, value []byte) uint64 {
	return uint64(len(key) + len(value) + RecordOverhead)
}
