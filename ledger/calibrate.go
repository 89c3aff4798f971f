// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"fmt"
	"strings"

	"github.com/ava-labs/ftledger/codec"
	"github.com/ava-labs/ftledger/consts"
)

// LongestAccountID is the synthetic identifier registered while measuring
// the worst-case footprint of an account record.
var LongestAccountID = codec.AccountID(strings.Repeat(string(consts.LongestAccountIDChar), consts.MaxAccountIDLen))

// MeasureRegistrationCost registers [LongestAccountID], records how many
// bytes of storage that consumed and removes it again. Storage usage is
// unchanged apart from the contract record holding the result.
func (l *Ledger) MeasureRegistrationCost(ctx context.Context) (uint64, error) {
	c, err := l.contract(ctx)
	if err != nil {
		return 0, err
	}
	if c.BytesForLongestAccountID != 0 {
		return 0, ErrAlreadyMeasured
	}

	initial := l.mu.StorageUsage()
	registered, err := l.Register(ctx, LongestAccountID)
	if err != nil {
		return 0, err
	}
	if !registered {
		return 0, fmt.Errorf("%w: %s", ErrAlreadyRegistered, LongestAccountID)
	}
	bytes := l.mu.StorageUsage() - initial
	if err := l.mu.Remove(ctx, AccountKey(LongestAccountID)); err != nil {
		return 0, err
	}

	c.BytesForLongestAccountID = bytes
	if err := l.setContract(ctx, c); err != nil {
		return 0, err
	}
	return bytes, nil
}

func (l *Ledger) BytesForLongestAccountID(ctx context.Context) (uint64, error) {
	c, err := l.contract(ctx)
	if err != nil {
		return 0, err
	}
	return c.BytesForLongestAccountID, nil
}

// RequiredDeposit is the fee quoted for registering any account:
// the worst-case record size times [pricePerByte]. It over-estimates for
// identifiers shorter than [consts.MaxAccountIDLen].
func (l *Ledger) RequiredDeposit(ctx context.Context, pricePerByte codec.Amount) (codec.Amount, error) {
	bytes, err := l.BytesForLongestAccountID(ctx)
	if err != nil {
		return codec.ZeroAmount, err
	}
	if bytes == 0 {
		return codec.ZeroAmount, ErrNotMeasured
	}
	return codec.NewAmount(bytes).Mul(pricePerByte)
}
