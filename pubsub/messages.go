// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"encoding/json"
	"fmt"
)

// CreateBatchMessage packs JSON messages into a single JSON array.
func CreateBatchMessage(msgs [][]byte) ([]byte, error) {
	raw := make([]json.RawMessage, len(msgs))
	for i, msg := range msgs {
		raw[i] = msg
	}
	return json.Marshal(raw)
}

// ParseBatchMessage unpacks a JSON array of messages. A message that is not
// an array is treated as a batch of one.
func ParseBatchMessage(maxSize int, msg []byte) ([][]byte, error) {
	if len(msg) > maxSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, len(msg), maxSize)
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(msg, &raw); err != nil {
		if !json.Valid(msg) {
			return nil, err
		}
		return [][]byte{msg}, nil
	}
	msgs := make([][]byte, len(raw))
	for i, r := range raw {
		msgs[i] = r
	}
	return msgs, nil
}
