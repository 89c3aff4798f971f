// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package token

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ava-labs/avalanchego/database"
	"github.com/google/uuid"

	"github.com/ava-labs/ftledger/codec"
	"github.com/ava-labs/ftledger/ledger"
	"github.com/ava-labs/ftledger/state"
)

type Status uint8

const (
	Pending Status = iota
	Applied
	Reverted
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Applied:
		return "applied"
	case Reverted:
		return "reverted"
	default:
		return "unknown"
	}
}

// PendingTransfer is the continuation of a transfer whose receiver has been
// notified but whose outcome has not been resolved yet. It captures
// everything [Token.Resolve] needs.
type PendingTransfer struct {
	ID       uuid.UUID       `json:"id"`
	Sender   codec.AccountID `json:"sender"`
	Receiver codec.AccountID `json:"receiver"`
	Amount   codec.Amount    `json:"amount"`
	Payload  []byte          `json:"payload"`
	Memo     *string         `json:"memo,omitempty"`
}

// pendingRecord is the persisted form of [PendingTransfer].
type pendingRecord struct {
	ID       [16]byte
	Sender   string
	Receiver string
	Amount   big.Int
	Payload  []byte
	HasMemo  bool
	Memo     string
}

// pendingIndex lists pending transfers in the order they were created.
type pendingIndex struct {
	IDs [][16]byte
}

func pendingIndexKey() []byte {
	return ledger.PendingKey(nil)
}

func pendingKey(id uuid.UUID) []byte {
	return ledger.PendingKey(id[:])
}

func getPending(ctx context.Context, im state.Immutable, id uuid.UUID) (*PendingTransfer, error) {
	v, err := im.GetValue(ctx, pendingKey(id))
	if errors.Is(err, database.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTransfer, id)
	}
	if err != nil {
		return nil, err
	}
	r, err := codec.Deserialize[pendingRecord](v)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptPending, id, err)
	}
	amount, err := codec.AmountFromBig(&r.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptPending, id, err)
	}
	p := &PendingTransfer{
		ID:       uuid.UUID(r.ID),
		Sender:   codec.AccountID(r.Sender),
		Receiver: codec.AccountID(r.Receiver),
		Amount:   amount,
	}
	if len(r.Payload) > 0 {
		p.Payload = r.Payload
	}
	if r.HasMemo {
		memo := r.Memo
		p.Memo = &memo
	}
	return p, nil
}

func putPending(ctx context.Context, mu state.Mutable, p *PendingTransfer) error {
	r := pendingRecord{
		ID:       p.ID,
		Sender:   string(p.Sender),
		Receiver: string(p.Receiver),
		Amount:   *p.Amount.Big(),
		Payload:  p.Payload,
	}
	if p.Memo != nil {
		r.HasMemo = true
		r.Memo = *p.Memo
	}
	v, err := codec.Serialize(r)
	if err != nil {
		return err
	}
	if err := mu.Insert(ctx, pendingKey(p.ID), v); err != nil {
		return err
	}
	idx, err := getPendingIndex(ctx, mu)
	if err != nil {
		return err
	}
	idx.IDs = append(idx.IDs, p.ID)
	return putPendingIndex(ctx, mu, idx)
}

func removePending(ctx context.Context, mu state.Mutable, id uuid.UUID) error {
	if err := mu.Remove(ctx, pendingKey(id)); err != nil {
		return err
	}
	idx, err := getPendingIndex(ctx, mu)
	if err != nil {
		return err
	}
	for i, pid := range idx.IDs {
		if pid == id {
			idx.IDs = append(idx.IDs[:i], idx.IDs[i+1:]...)
			break
		}
	}
	return putPendingIndex(ctx, mu, idx)
}

func getPendingIndex(ctx context.Context, im state.Immutable) (*pendingIndex, error) {
	v, err := im.GetValue(ctx, pendingIndexKey())
	if errors.Is(err, database.ErrNotFound) {
		return &pendingIndex{}, nil
	}
	if err != nil {
		return nil, err
	}
	idx, err := codec.Deserialize[pendingIndex](v)
	if err != nil {
		return nil, fmt.Errorf("%w: index: %w", ErrCorruptPending, err)
	}
	return idx, nil
}

// An empty index is removed rather than stored.
func putPendingIndex(ctx context.Context, mu state.Mutable, idx *pendingIndex) error {
	if len(idx.IDs) == 0 {
		return mu.Remove(ctx, pendingIndexKey())
	}
	v, err := codec.Serialize(*idx)
	if err != nil {
		return err
	}
	return mu.Insert(ctx, pendingIndexKey(), v)
}

func listPending(ctx context.Context, im state.Immutable) ([]*PendingTransfer, error) {
	idx, err := getPendingIndex(ctx, im)
	if err != nil {
		return nil, err
	}
	pending := make([]*PendingTransfer, 0, len(idx.IDs))
	for _, id := range idx.IDs {
		p, err := getPending(ctx, im, id)
		if err != nil {
			return nil, err
		}
		pending = append(pending, p)
	}
	return pending, nil
}
