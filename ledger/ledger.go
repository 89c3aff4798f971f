// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/ftledger/codec"
	"github.com/ava-labs/ftledger/state"
)

// contractState is the singleton record holding everything about the token
// that is not an account balance.
type contractState struct {
	TotalSupply              big.Int
	BytesForLongestAccountID uint64
	Bootstrapped             bool
}

// Ledger maps registered accounts to balances. Every method reads and
// writes through the [state.Metered] it was created with, so callers decide
// atomicity by choosing what to wrap (usually a tstate view that is either
// committed or rolled back as a whole).
//
// Ledger does not emit events.
type Ledger struct {
	mu state.Metered
}

func New(mu state.Metered) *Ledger {
	return &Ledger{mu: mu}
}

// Register inserts [id] with a zero balance. It returns false, and changes
// nothing, if [id] is already registered.
func (l *Ledger) Register(ctx context.Context, id codec.AccountID) (bool, error) {
	if err := id.Verify(); err != nil {
		return false, err
	}
	registered, err := l.IsRegistered(ctx, id)
	if err != nil || registered {
		return false, err
	}
	return true, l.setBalance(ctx, id, codec.ZeroAmount)
}

func (l *Ledger) IsRegistered(ctx context.Context, id codec.AccountID) (bool, error) {
	_, exists, err := l.getBalance(ctx, id)
	return exists, err
}

// Unregister removes [id] from the ledger. Only empty accounts can be removed
// so the total supply is always fully accounted for.
func (l *Ledger) Unregister(ctx context.Context, id codec.AccountID) error {
	bal, exists, err := l.getBalance(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotRegistered, id)
	}
	if !bal.IsZero() {
		return fmt.Errorf("%w: %s holds %s", ErrNonZeroBalance, id, bal)
	}
	return l.mu.Remove(ctx, AccountKey(id))
}

// BalanceOf returns the balance of [id], or zero if [id] is not registered.
func (l *Ledger) BalanceOf(ctx context.Context, id codec.AccountID) (codec.Amount, error) {
	bal, _, err := l.getBalance(ctx, id)
	return bal, err
}

func (l *Ledger) Deposit(ctx context.Context, id codec.AccountID, amount codec.Amount) error {
	if amount.IsZero() {
		return ErrZeroAmount
	}
	bal, exists, err := l.getBalance(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotRegistered, id)
	}
	nbal, err := bal.Add(amount)
	if err != nil {
		return fmt.Errorf("%w: could not add balance (bal=%s, addr=%v, amount=%s): %w",
			ErrOverflow, bal, id, amount, err)
	}
	return l.setBalance(ctx, id, nbal)
}

func (l *Ledger) Withdraw(ctx context.Context, id codec.AccountID, amount codec.Amount) error {
	if amount.IsZero() {
		return ErrZeroAmount
	}
	bal, exists, err := l.getBalance(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", ErrNotRegistered, id)
	}
	nbal, err := bal.Sub(amount)
	if err != nil {
		return fmt.Errorf("%w: could not subtract balance (bal=%s, addr=%v, amount=%s)",
			ErrInsufficientBalance, bal, id, amount)
	}
	return l.setBalance(ctx, id, nbal)
}

func (l *Ledger) TotalSupply(ctx context.Context) (codec.Amount, error) {
	c, err := l.contract(ctx)
	if err != nil {
		return codec.ZeroAmount, err
	}
	return codec.AmountFromBig(&c.TotalSupply)
}

// Bootstrap registers [owner], credits it with the entire [supply] and
// records [supply] as the total supply. It can only run once.
func (l *Ledger) Bootstrap(ctx context.Context, owner codec.AccountID, supply codec.Amount) error {
	c, err := l.contract(ctx)
	if err != nil {
		return err
	}
	if c.Bootstrapped {
		return ErrAlreadyBootstrapped
	}
	if _, err := l.Register(ctx, owner); err != nil {
		return err
	}
	// A zero supply leaves the owner registered with nothing.
	if !supply.IsZero() {
		if err := l.Deposit(ctx, owner, supply); err != nil {
			return err
		}
	}
	c.TotalSupply = *supply.Big()
	c.Bootstrapped = true
	return l.setContract(ctx, c)
}

func (l *Ledger) getBalance(ctx context.Context, id codec.AccountID) (codec.Amount, bool, error) {
	v, err := l.mu.GetValue(ctx, AccountKey(id))
	if errors.Is(err, database.ErrNotFound) {
		return codec.ZeroAmount, false, nil
	}
	if err != nil {
		return codec.ZeroAmount, false, err
	}
	bal, err := codec.AmountFromBytes(v)
	if err != nil {
		return codec.ZeroAmount, false, fmt.Errorf("%w: balance of %s: %w", ErrCorruptRecord, id, err)
	}
	return bal, true, nil
}

func (l *Ledger) setBalance(ctx context.Context, id codec.AccountID, bal codec.Amount) error {
	return l.mu.Insert(ctx, AccountKey(id), bal.Bytes())
}

func (l *Ledger) contract(ctx context.Context) (*contractState, error) {
	v, err := l.mu.GetValue(ctx, ContractKey())
	if errors.Is(err, database.ErrNotFound) {
		return &contractState{}, nil
	}
	if err != nil {
		return nil, err
	}
	c, err := codec.Deserialize[contractState](v)
	if err != nil {
		return nil, fmt.Errorf("%w: contract state: %w", ErrCorruptRecord, err)
	}
	return c, nil
}

func (l *Ledger) setContract(ctx context.Context, c *contractState) error {
	v, err := codec.Serialize(*c)
	if err != nil {
		return err
	}
	return l.mu.Insert(ctx, ContractKey(), v)
}
