// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package receiver defines the callback a token receiver implements to be
// notified of transfers it may partially return.
package receiver

import (
	"context"
	"errors"

	"github.com/ava-labs/ftledger/codec"
)

var ErrNoReceiver = errors.New("account has no receiver")

var _ Receiver = (Func)(nil)

// Receiver is notified after [amount] has been moved to it from [sender].
// It returns how much of [amount] it used; anything left is refunded to the
// sender. An error refunds everything.
type Receiver interface {
	OnTransfer(ctx context.Context, sender codec.AccountID, amount codec.Amount, payload []byte) (codec.Amount, error)
}

type Func func(ctx context.Context, sender codec.AccountID, amount codec.Amount, payload []byte) (codec.Amount, error)

func (f Func) OnTransfer(ctx context.Context, sender codec.AccountID, amount codec.Amount, payload []byte) (codec.Amount, error) {
	return f(ctx, sender, amount, payload)
}

// Accept keeps everything it is sent.
var Accept = Func(func(_ context.Context, _ codec.AccountID, amount codec.Amount, _ []byte) (codec.Amount, error) {
	return amount, nil
})

// Reject returns everything it is sent.
var Reject = Func(func(context.Context, codec.AccountID, codec.Amount, []byte) (codec.Amount, error) {
	return codec.ZeroAmount, nil
})
