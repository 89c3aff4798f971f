// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ava-labs/ftledger/codec"
	"github.com/ava-labs/ftledger/event"
	"github.com/ava-labs/ftledger/ledger"
	"github.com/ava-labs/ftledger/tstate"
)

// Transfer moves [amount] from [sender] to [receiver].
func (t *Token) Transfer(
	ctx context.Context,
	sender codec.AccountID,
	receiver codec.AccountID,
	amount codec.Amount,
	memo *string,
) error {
	_, span := t.tracer.Start(ctx, "Token.Transfer")
	defer span.End()

	err := t.update(ctx, func(l *ledger.Ledger, _ *tstate.TStateView) ([]event.Event, error) {
		if err := move(ctx, l, sender, receiver, amount); err != nil {
			return nil, err
		}
		return []event.Event{event.NewTransfer(sender, receiver, amount, memo)}, nil
	})
	if err != nil {
		return err
	}
	t.metrics.transfers.Inc()
	return nil
}

// TransferAndNotify moves [amount] from [sender] to [receiver] exactly like
// [Transfer] and records a continuation for the receiver's response. The
// caller must notify the receiver and always finish the transfer with
// [Token.Resolve].
func (t *Token) TransferAndNotify(
	ctx context.Context,
	sender codec.AccountID,
	receiver codec.AccountID,
	amount codec.Amount,
	payload []byte,
	memo *string,
) (*PendingTransfer, error) {
	_, span := t.tracer.Start(ctx, "Token.TransferAndNotify")
	defer span.End()

	p := &PendingTransfer{
		ID:       uuid.New(),
		Sender:   sender,
		Receiver: receiver,
		Amount:   amount,
		Payload:  payload,
		Memo:     memo,
	}
	err := t.update(ctx, func(l *ledger.Ledger, view *tstate.TStateView) ([]event.Event, error) {
		if err := move(ctx, l, sender, receiver, amount); err != nil {
			return nil, err
		}
		if err := putPending(ctx, view, p); err != nil {
			return nil, err
		}
		return []event.Event{event.NewTransfer(sender, receiver, amount, memo)}, nil
	})
	if err != nil {
		return nil, err
	}
	t.metrics.transferCalls.Inc()
	t.metrics.pending.Inc()
	t.log.Debug("transfer awaiting resolve",
		zap.Stringer("id", p.ID),
		zap.Stringer("sender", sender),
		zap.Stringer("receiver", receiver),
		zap.Stringer("amount", amount),
	)
	return p, nil
}

// move withdraws from [sender] and deposits to [receiver]. If it fails,
// the caller discards every write it made.
func move(
	ctx context.Context,
	l *ledger.Ledger,
	sender codec.AccountID,
	receiver codec.AccountID,
	amount codec.Amount,
) error {
	if sender == receiver {
		return fmt.Errorf("%w: %s", ErrSelfTransfer, sender)
	}
	if amount.IsZero() {
		return ErrZeroAmount
	}
	for _, id := range []codec.AccountID{sender, receiver} {
		registered, err := l.IsRegistered(ctx, id)
		if err != nil {
			return err
		}
		if !registered {
			return fmt.Errorf("%w: %s", ErrNotRegistered, id)
		}
	}
	if err := l.Withdraw(ctx, sender, amount); err != nil {
		return err
	}
	return l.Deposit(ctx, receiver, amount)
}
