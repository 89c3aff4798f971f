// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scheduler

import "time"

type Config struct {
	// Workers is the number of receiver calls made concurrently.
	Workers int `json:"workers"`
	// Backlog is the number of notified transfers that may wait for a
	// worker before TransferCall blocks.
	Backlog int `json:"backlog"`
	// ReceiverTimeout bounds each receiver call. The sender and receiver
	// locks stay held during the call, so a receiver that calls back into
	// the scheduler for either account blocks until the timeout and its
	// transfer resolves as a failure with a refund.
	ReceiverTimeout time.Duration `json:"receiverTimeout"`
}

func NewDefaultConfig() Config {
	return Config{
		Workers:         4,
		Backlog:         1_024,
		ReceiverTimeout: 10 * time.Second,
	}
}
