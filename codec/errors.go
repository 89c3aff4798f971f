// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "errors"

var (
	ErrInvalidAccountID   = errors.New("invalid account id")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrAmountOverflow     = errors.New("amount overflows u128")
	ErrAmountUnderflow    = errors.New("amount underflows zero")
	ErrInsufficientLength = errors.New("insufficient length")
)
