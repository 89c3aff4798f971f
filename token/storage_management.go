// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ava-labs/ftledger/codec"
	"github.com/ava-labs/ftledger/event"
	"github.com/ava-labs/ftledger/ledger"
	"github.com/ava-labs/ftledger/tstate"
)

// StorageBalance is the storage deposit held for an account. Accounts never
// need more than the registration deposit, so nothing is ever available.
type StorageBalance struct {
	Total     codec.Amount `json:"total"`
	Available codec.Amount `json:"available"`
}

type StorageBalanceBounds struct {
	Min codec.Amount `json:"min"`
	Max codec.Amount `json:"max"`
}

type StorageDepositResult struct {
	Balance           StorageBalance `json:"balance"`
	Refund            codec.Amount   `json:"refund"`
	AlreadyRegistered bool           `json:"alreadyRegistered"`
}

// RequiredDeposit is the deposit needed to register any account at the
// current storage price.
func (t *Token) RequiredDeposit(ctx context.Context) (codec.Amount, error) {
	return t.read().RequiredDeposit(ctx, t.oracle.StoragePricePerByte())
}

func (t *Token) BytesForLongestAccountID(ctx context.Context) (uint64, error) {
	return t.read().BytesForLongestAccountID(ctx)
}

func (t *Token) StorageBalanceBounds(ctx context.Context) (StorageBalanceBounds, error) {
	deposit, err := t.RequiredDeposit(ctx)
	if err != nil {
		return StorageBalanceBounds{}, err
	}
	return StorageBalanceBounds{Min: deposit, Max: deposit}, nil
}

// StorageBalanceOf returns nil if [id] is not registered.
func (t *Token) StorageBalanceOf(ctx context.Context, id codec.AccountID) (*StorageBalance, error) {
	registered, err := t.IsRegistered(ctx, id)
	if err != nil || !registered {
		return nil, err
	}
	deposit, err := t.RequiredDeposit(ctx)
	if err != nil {
		return nil, err
	}
	return &StorageBalance{Total: deposit, Available: codec.ZeroAmount}, nil
}

// StorageDeposit registers [id] in exchange for [attached]. Whatever is not
// needed to cover the deposit is returned as the refund; the caller is
// responsible for paying it out. Registering an account twice refunds
// everything.
func (t *Token) StorageDeposit(ctx context.Context, id codec.AccountID, attached codec.Amount) (*StorageDepositResult, error) {
	_, span := t.tracer.Start(ctx, "Token.StorageDeposit")
	defer span.End()

	deposit, err := t.RequiredDeposit(ctx)
	if err != nil {
		return nil, err
	}
	result := &StorageDepositResult{
		Balance: StorageBalance{Total: deposit, Available: codec.ZeroAmount},
	}
	err = t.update(ctx, func(l *ledger.Ledger, _ *tstate.TStateView) ([]event.Event, error) {
		registered, err := l.IsRegistered(ctx, id)
		if err != nil {
			return nil, err
		}
		if registered {
			result.AlreadyRegistered = true
			result.Refund = attached
			return nil, nil
		}
		if attached.Lt(deposit) {
			return nil, fmt.Errorf("%w: attached %s, need %s", ErrInsufficientDeposit, attached, deposit)
		}
		if _, err := l.Register(ctx, id); err != nil {
			return nil, err
		}
		result.Refund, err = attached.Sub(deposit)
		return nil, err
	})
	if err != nil {
		return nil, err
	}
	if result.AlreadyRegistered {
		t.log.Debug("account already registered", zap.Stringer("account", id))
		return result, nil
	}
	t.metrics.registrations.Inc()
	t.log.Debug("registered account",
		zap.Stringer("account", id),
		zap.Stringer("deposit", deposit),
	)
	return result, nil
}
