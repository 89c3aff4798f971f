// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"errors"

	"github.com/ava-labs/avalanchego/utils/buffer"
)

var errInvalidMaxSize = errors.New("maxSize must be greater than 0")

// BoundedBuffer keeps the [maxSize] most recently inserted items, oldest
// first. It is not safe for concurrent use.
type BoundedBuffer[T any] struct {
	items   buffer.Deque[T]
	maxSize int
}

func NewBoundedBuffer[T any](maxSize int) (*BoundedBuffer[T], error) {
	if maxSize < 1 {
		return nil, errInvalidMaxSize
	}
	return &BoundedBuffer[T]{
		items:   buffer.NewUnboundedDeque[T](maxSize + 1),
		maxSize: maxSize,
	}, nil
}

// Insert appends [elt] and returns the item it pushed out, if any.
func (b *BoundedBuffer[T]) Insert(elt T) (T, bool) {
	var (
		evicted T
		ok      bool
	)
	if b.items.Len() == b.maxSize {
		evicted, ok = b.items.PopLeft()
	}
	b.items.PushRight(elt)
	return evicted, ok
}

func (b *BoundedBuffer[T]) Last() (T, bool) {
	return b.items.PeekRight()
}

// Items returns every buffered item, oldest first.
func (b *BoundedBuffer[T]) Items() []T {
	return b.items.List()
}

// After returns the items following the newest one matching [seen]. [seen]
// must hold for a prefix of the buffer and fail for the rest.
func (b *BoundedBuffer[T]) After(seen func(T) bool) []T {
	items := b.items.List()
	start := len(items)
	for start > 0 && !seen(items[start-1]) {
		start--
	}
	return items[start:]
}

func (b *BoundedBuffer[T]) Len() int {
	return b.items.Len()
}
