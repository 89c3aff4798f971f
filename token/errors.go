// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"errors"

	"github.com/ava-labs/ftledger/ledger"
)

var (
	ErrNotRegistered       = ledger.ErrNotRegistered
	ErrAlreadyRegistered   = ledger.ErrAlreadyRegistered
	ErrInsufficientBalance = ledger.ErrInsufficientBalance
	ErrOverflow            = ledger.ErrOverflow
	ErrInvalidTransfer     = ledger.ErrInvalidTransfer
	ErrZeroAmount          = ledger.ErrZeroAmount
	ErrSelfTransfer        = ledger.ErrSelfTransfer
	ErrNonZeroBalance      = ledger.ErrNonZeroBalance

	ErrReceiverFailure     = errors.New("receiver failure")
	ErrMalformedOutcome    = errors.New("malformed receiver outcome")
	ErrInsufficientDeposit = errors.New("insufficient storage deposit")
	ErrUnknownTransfer     = errors.New("unknown transfer")
	ErrNotInitialized      = errors.New("token not initialized")
	ErrCorruptPending      = errors.New("corrupt pending transfer")
)
