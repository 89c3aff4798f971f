// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package receiver

import (
	"fmt"
	"sync"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/ava-labs/ftledger/codec"
)

// Registry maps accounts to the receivers that handle their notifications.
type Registry struct {
	l sync.RWMutex
	m map[codec.AccountID]Receiver
}

func NewRegistry() *Registry {
	return &Registry{m: map[codec.AccountID]Receiver{}}
}

func (r *Registry) Set(id codec.AccountID, receiver Receiver) {
	r.l.Lock()
	defer r.l.Unlock()

	r.m[id] = receiver
}

func (r *Registry) Delete(id codec.AccountID) {
	r.l.Lock()
	defer r.l.Unlock()

	delete(r.m, id)
}

// Get returns [ErrNoReceiver] if nothing handles [id].
func (r *Registry) Get(id codec.AccountID) (Receiver, error) {
	r.l.RLock()
	defer r.l.RUnlock()

	receiver, ok := r.m[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoReceiver, id)
	}
	return receiver, nil
}

// Accounts returns every account with a receiver, sorted.
func (r *Registry) Accounts() []codec.AccountID {
	r.l.RLock()
	accounts := maps.Keys(r.m)
	r.l.RUnlock()

	slices.Sort(accounts)
	return accounts
}
