// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"context"
	"sync"
)

var _ Subscription[Event] = (*Recorder)(nil)

// Recorder keeps every accepted event in emission order.
type Recorder struct {
	l      sync.RWMutex
	events []Event
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) Accept(_ context.Context, e Event) error {
	r.l.Lock()
	defer r.l.Unlock()

	r.events = append(r.events, e)
	return nil
}

func (*Recorder) Close() error {
	return nil
}

// Events returns a copy of the recorded events.
func (r *Recorder) Events() []Event {
	r.l.RLock()
	defer r.l.RUnlock()

	events := make([]Event, len(r.events))
	copy(events, r.events)
	return events
}

// Since returns the events recorded after the first [n].
func (r *Recorder) Since(n int) []Event {
	r.l.RLock()
	defer r.l.RUnlock()

	if n >= len(r.events) {
		return nil
	}
	if n < 0 {
		n = 0
	}
	events := make([]Event, len(r.events)-n)
	copy(events, r.events[n:])
	return events
}

func (r *Recorder) Len() int {
	r.l.RLock()
	defer r.l.RUnlock()

	return len(r.events)
}
