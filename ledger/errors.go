// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"errors"
	"fmt"

	"github.com/ava-labs/ftledger/codec"
)

var (
	ErrNotRegistered       = errors.New("account not registered")
	ErrAlreadyRegistered   = errors.New("account already registered")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrOverflow            = errors.New("balance overflow")
	ErrInvalidTransfer     = errors.New("invalid transfer")
	ErrZeroAmount          = fmt.Errorf("%w: amount must be positive", ErrInvalidTransfer)
	ErrSelfTransfer        = fmt.Errorf("%w: sender and receiver must differ", ErrInvalidTransfer)
	ErrInvalidAccountID    = codec.ErrInvalidAccountID
	ErrNonZeroBalance      = errors.New("account balance is not zero")
	ErrAlreadyMeasured     = errors.New("registration cost already measured")
	ErrNotMeasured         = errors.New("registration cost not measured")
	ErrAlreadyBootstrapped = errors.New("ledger already bootstrapped")
	ErrCorruptRecord       = errors.New("corrupt record")
)
