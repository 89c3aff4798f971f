// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package lockmap provides per-key locks that are created on first use and
// dropped once nobody holds or waits on them.
package lockmap

import (
	"sync"

	"golang.org/x/exp/slices"
)

type holderLock struct {
	holders int
	mu      sync.RWMutex
}

type Lockmap struct {
	l sync.Mutex
	m map[string]*holderLock
}

func New(initSize int) *Lockmap {
	return &Lockmap{
		m: make(map[string]*holderLock, initSize),
	}
}

func (l *Lockmap) Lock(key string) {
	l.lock(key, true)
}

func (l *Lockmap) Unlock(key string) {
	l.unlock(key, true)
}

func (l *Lockmap) RLock(key string) {
	l.lock(key, false)
}

func (l *Lockmap) RUnlock(key string) {
	l.unlock(key, false)
}

// LockAll write-locks every distinct key in a fixed order, so two callers
// locking overlapping sets can never deadlock. The returned func releases
// all of them.
func (l *Lockmap) LockAll(keys ...string) func() {
	keys = dedup(keys)
	for _, key := range keys {
		l.lock(key, true)
	}
	return func() {
		for i := len(keys) - 1; i >= 0; i-- {
			l.unlock(keys[i], true)
		}
	}
}

func (l *Lockmap) lock(key string, write bool) {
	l.l.Lock()
	hl, ok := l.m[key]
	if !ok {
		hl = &holderLock{}
		l.m[key] = hl
	}
	hl.holders++
	l.l.Unlock()

	if write {
		hl.mu.Lock()
	} else {
		hl.mu.RLock()
	}
}

func (l *Lockmap) unlock(key string, write bool) {
	l.l.Lock()
	defer l.l.Unlock()

	hl, ok := l.m[key]
	if !ok {
		panic("lockmap: unlock of unlocked key " + key)
	}
	if write {
		hl.mu.Unlock()
	} else {
		hl.mu.RUnlock()
	}
	hl.holders--
	if hl.holders == 0 {
		delete(l.m, key)
	}
}

// Locks is the number of keys currently held or waited on.
func (l *Lockmap) Locks() int {
	l.l.Lock()
	defer l.l.Unlock()

	return len(l.m)
}

// dedup returns the distinct keys in ascending order.
func dedup(keys []string) []string {
	sorted := slices.Clone(keys)
	slices.Sort(sorted)
	return slices.Compact(sorted)
}
