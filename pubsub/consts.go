// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package pubsub

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/units"
)

type ServerConfig struct {
	// Size of the ws read buffer
	ReadBufferSize int `json:"readBufferSize"`
	// Size of the ws write buffer
	WriteBufferSize int `json:"writeBufferSize"`
	// Maximum number of batches waiting to be written to a peer
	MaxPendingMessages int `json:"maxPendingMessages"`
	// Maximum message size in bytes read from a peer
	MaxReadMessageSize int `json:"maxReadMessageSize"`
	// Maximum size in bytes of a batch written to a peer
	MaxWriteMessageSize int `json:"maxWriteMessageSize"`
	// How long messages are held before a partial batch is written
	MaxMessageWait time.Duration `json:"maxMessageWait"`
	// Time allowed to write a message to the peer
	WriteWait time.Duration `json:"writeWait"`
	// Time allowed to read the next pong message from the peer
	PongWait time.Duration `json:"pongWait"`
	// Send pings to peer with this period. Must be less than PongWait.
	PingPeriod time.Duration `json:"pingPeriod"`
}

func NewDefaultServerConfig() ServerConfig {
	return ServerConfig{
		ReadBufferSize:      units.KiB,
		WriteBufferSize:     units.KiB,
		MaxPendingMessages:  1_024,
		MaxReadMessageSize:  units.KiB,
		MaxWriteMessageSize: 64 * units.KiB,
		MaxMessageWait:      10 * time.Millisecond,
		WriteWait:           10 * time.Second,
		PongWait:            60 * time.Second,
		PingPeriod:          54 * time.Second,
	}
}
