// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"encoding/json"
	"fmt"

	"github.com/ava-labs/ftledger/event"
)

// SubscribeMessage is sent by a client to start receiving events. Buffered
// events with a sequence number above Since are replayed first.
type SubscribeMessage struct {
	Since uint64 `json:"since"`
}

// EventMessage carries one event. Seq starts at 1 and increases by one for
// every event the node emits.
type EventMessage struct {
	Seq   uint64          `json:"seq"`
	Event json.RawMessage `json:"event"`
}

func PackEventMessage(seq uint64, e event.Event) ([]byte, error) {
	env, err := e.Envelope()
	if err != nil {
		return nil, err
	}
	return json.Marshal(&EventMessage{Seq: seq, Event: env})
}

func UnpackEventMessage(msg []byte) (uint64, event.Event, error) {
	var m EventMessage
	if err := json.Unmarshal(msg, &m); err != nil {
		return 0, event.Event{}, fmt.Errorf("%w: %w", ErrInvalidMessage, err)
	}
	if m.Seq == 0 || len(m.Event) == 0 {
		return 0, event.Event{}, ErrMessageMissing
	}
	e, err := event.ParseEnvelope(m.Event)
	return m.Seq, e, err
}
