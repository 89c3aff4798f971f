// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import "errors"

var (
	// ErrClosed is returned by a [WebSocketClient] after Close.
	ErrClosed = errors.New("event feed client closed")

	ErrMessageMissing = errors.New("event message missing")
	ErrInvalidMessage = errors.New("invalid event message")
)
