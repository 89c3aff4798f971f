// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package scheduler

import (
	"errors"
	"fmt"

	"github.com/ava-labs/ftledger/token"
)

var (
	ErrStopped     = errors.New("scheduler stopped")
	ErrNotStarted  = errors.New("scheduler not started")
	ErrTimeout     = fmt.Errorf("%w: timed out", token.ErrReceiverFailure)
	ErrPanic       = fmt.Errorf("%w: panicked", token.ErrReceiverFailure)
	ErrInterrupted = fmt.Errorf("%w: interrupted by restart", token.ErrReceiverFailure)
)
