// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

const (
	Name = "ftledger"

	// routes under [server.BaseURL]
	JSONRPCEndpoint   = "ft"
	WebSocketEndpoint = "events"
	MetricsEndpoint   = "metrics"
)
