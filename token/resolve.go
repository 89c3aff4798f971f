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

// RefundMemo accompanies the Transfer event of a refund.
const RefundMemo = "refund"

// Outcome is the receiver's answer to a notification: either how much of
// the transferred amount it used, or why it failed.
type Outcome struct {
	Used codec.Amount
	Err  error
}

func Used(amount codec.Amount) Outcome {
	return Outcome{Used: amount}
}

func Failed(err error) Outcome {
	return Outcome{Err: err}
}

// Resolve settles the pending transfer [id] with [outcome] and returns the
// amount the receiver keeps.
//
// Whatever the receiver did not use is refunded to the sender, limited to
// what the receiver still holds. Anything beyond that is forfeited to the
// receiver. Nothing is refunded if either account is no longer registered.
// A failure, or a response claiming more than was sent, refunds everything.
func (t *Token) Resolve(ctx context.Context, id uuid.UUID, outcome Outcome) (codec.Amount, error) {
	_, span := t.tracer.Start(ctx, "Token.Resolve")
	defer span.End()

	var (
		p        *PendingTransfer
		refunded = codec.ZeroAmount
		unused   codec.Amount
	)
	err := t.update(ctx, func(l *ledger.Ledger, view *tstate.TStateView) ([]event.Event, error) {
		var err error
		p, err = getPending(ctx, view, id)
		if err != nil {
			return nil, err
		}
		if err := removePending(ctx, view, id); err != nil {
			return nil, err
		}

		unused = t.unused(p, outcome)
		if unused.IsZero() {
			return nil, nil
		}
		refund, err := refundable(ctx, l, p, unused)
		if err != nil || refund.IsZero() {
			return nil, err
		}

		restore := view.OpIndex()
		if err := l.Withdraw(ctx, p.Receiver, refund); err != nil {
			view.Rollback(ctx, restore)
			t.log.Warn("refund failed",
				zap.Stringer("id", id),
				zap.Error(err),
			)
			return nil, nil
		}
		if err := l.Deposit(ctx, p.Sender, refund); err != nil {
			view.Rollback(ctx, restore)
			t.log.Warn("refund failed",
				zap.Stringer("id", id),
				zap.Error(err),
			)
			return nil, nil
		}
		refunded = refund
		return []event.Event{event.NewTransfer(p.Receiver, p.Sender, refund, event.Memo(RefundMemo))}, nil
	})
	if err != nil {
		return codec.ZeroAmount, err
	}

	// refunded never exceeds the transferred amount
	kept, err := p.Amount.Sub(refunded)
	if err != nil {
		return codec.ZeroAmount, err
	}
	status := Applied
	if !refunded.IsZero() {
		status = Reverted
		t.metrics.reverted.Inc()
	} else {
		t.metrics.applied.Inc()
	}
	if refunded.Lt(unused) {
		t.metrics.forfeitures.Inc()
	}
	t.metrics.pending.Dec()
	t.log.Debug("resolved transfer",
		zap.Stringer("id", id),
		zap.Stringer("status", status),
		zap.Stringer("kept", kept),
		zap.Stringer("refunded", refunded),
		zap.Stringer("unused", unused),
	)
	return kept, nil
}

// unused is the part of [p] the receiver did not use.
func (t *Token) unused(p *PendingTransfer, outcome Outcome) codec.Amount {
	if outcome.Err != nil {
		t.log.Debug("receiver failed",
			zap.Stringer("id", p.ID),
			zap.Error(outcome.Err),
		)
		return p.Amount
	}
	if outcome.Used.Gt(p.Amount) {
		t.log.Warn("receiver used more than it was sent",
			zap.Stringer("id", p.ID),
			zap.Error(fmt.Errorf("%w: used %s of %s", ErrMalformedOutcome, outcome.Used, p.Amount)),
		)
		return p.Amount
	}
	// Used <= Amount
	unused, _ := p.Amount.Sub(outcome.Used)
	return unused
}

// refundable is how much of [unused] can go back to the sender, reading
// balances as they are now rather than when the transfer was made.
func refundable(ctx context.Context, l *ledger.Ledger, p *PendingTransfer, unused codec.Amount) (codec.Amount, error) {
	senderRegistered, err := l.IsRegistered(ctx, p.Sender)
	if err != nil || !senderRegistered {
		return codec.ZeroAmount, err
	}
	receiverRegistered, err := l.IsRegistered(ctx, p.Receiver)
	if err != nil || !receiverRegistered {
		return codec.ZeroAmount, err
	}
	bal, err := l.BalanceOf(ctx, p.Receiver)
	if err != nil {
		return codec.ZeroAmount, err
	}
	return codec.MinAmount(unused, bal), nil
}
