// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package event

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ava-labs/ftledger/codec"
	"github.com/ava-labs/ftledger/consts"
)

// LogPrefix starts every NEP-297 log line.
const LogPrefix = "EVENT_JSON:"

var (
	ErrUnknownKind    = errors.New("unknown event kind")
	ErrMalformedEvent = errors.New("malformed event")
)

type Kind uint8

const (
	Mint Kind = iota
	Transfer
	Burn
)

func (k Kind) String() string {
	switch k {
	case Mint:
		return "ft_mint"
	case Transfer:
		return "ft_transfer"
	case Burn:
		return "ft_burn"
	default:
		return "unknown"
	}
}

func (k Kind) MarshalText() ([]byte, error) {
	if k > Burn {
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, k)
	}
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(b []byte) error {
	for _, c := range []Kind{Mint, Transfer, Burn} {
		if c.String() == string(b) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnknownKind, b)
}

// Event is a notification about token movement. [Accounts] lists the
// affected accounts in order and [Amounts] the amounts moved between them.
//
// A Transfer carries [from, to] and a single amount.
type Event struct {
	Kind     Kind              `json:"kind"`
	Accounts []codec.AccountID `json:"accounts"`
	Amounts  []codec.Amount    `json:"amounts"`
	Memo     *string           `json:"memo,omitempty"`
}

func NewMint(owner codec.AccountID, amount codec.Amount, memo *string) Event {
	return Event{
		Kind:     Mint,
		Accounts: []codec.AccountID{owner},
		Amounts:  []codec.Amount{amount},
		Memo:     memo,
	}
}

func NewTransfer(from codec.AccountID, to codec.AccountID, amount codec.Amount, memo *string) Event {
	return Event{
		Kind:     Transfer,
		Accounts: []codec.AccountID{from, to},
		Amounts:  []codec.Amount{amount},
		Memo:     memo,
	}
}

// NewBurn exists for completeness. Nothing in the ledger burns tokens.
func NewBurn(owner codec.AccountID, amount codec.Amount, memo *string) Event {
	return Event{
		Kind:     Burn,
		Accounts: []codec.AccountID{owner},
		Amounts:  []codec.Amount{amount},
		Memo:     memo,
	}
}

func Memo(s string) *string {
	return &s
}

type ownerData struct {
	OwnerID codec.AccountID `json:"owner_id"`
	Amount  codec.Amount    `json:"amount"`
	Memo    *string         `json:"memo,omitempty"`
}

type transferData struct {
	OldOwnerID codec.AccountID `json:"old_owner_id"`
	NewOwnerID codec.AccountID `json:"new_owner_id"`
	Amount     codec.Amount    `json:"amount"`
	Memo       *string         `json:"memo,omitempty"`
}

type envelope struct {
	Standard string `json:"standard"`
	Version  string `json:"version"`
	Event    Kind   `json:"event"`
	Data     any    `json:"data"`
}

// JSON returns the NEP-297 log line for [e].
func (e Event) JSON() (string, error) {
	b, err := e.Envelope()
	if err != nil {
		return "", err
	}
	return LogPrefix + string(b), nil
}

// Envelope returns the NEP-297 JSON object for [e].
func (e Event) Envelope() ([]byte, error) {
	var data any
	switch e.Kind {
	case Mint, Burn:
		if len(e.Accounts) != 1 || len(e.Amounts) != 1 {
			return nil, fmt.Errorf("%w: %s needs 1 account and 1 amount", ErrMalformedEvent, e.Kind)
		}
		data = []ownerData{{OwnerID: e.Accounts[0], Amount: e.Amounts[0], Memo: e.Memo}}
	case Transfer:
		if len(e.Accounts) != 2 || len(e.Amounts) != 1 {
			return nil, fmt.Errorf("%w: %s needs 2 accounts and 1 amount", ErrMalformedEvent, e.Kind)
		}
		data = []transferData{{
			OldOwnerID: e.Accounts[0],
			NewOwnerID: e.Accounts[1],
			Amount:     e.Amounts[0],
			Memo:       e.Memo,
		}}
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownKind, e.Kind)
	}
	return json.Marshal(envelope{
		Standard: consts.EventStandard,
		Version:  consts.EventVersion,
		Event:    e.Kind,
		Data:     data,
	})
}

// ParseEnvelope is the inverse of [Event.Envelope]. Only the first entry of
// the data list is read.
func ParseEnvelope(b []byte) (Event, error) {
	var env struct {
		Standard string          `json:"standard"`
		Kind     Kind            `json:"event"`
		Data     json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		return Event{}, err
	}
	if env.Standard != consts.EventStandard {
		return Event{}, fmt.Errorf("%w: standard %q", ErrMalformedEvent, env.Standard)
	}
	switch env.Kind {
	case Transfer:
		var data []transferData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return Event{}, err
		}
		if len(data) == 0 {
			return Event{}, fmt.Errorf("%w: no data", ErrMalformedEvent)
		}
		return NewTransfer(data[0].OldOwnerID, data[0].NewOwnerID, data[0].Amount, data[0].Memo), nil
	default:
		var data []ownerData
		if err := json.Unmarshal(env.Data, &data); err != nil {
			return Event{}, err
		}
		if len(data) == 0 {
			return Event{}, fmt.Errorf("%w: no data", ErrMalformedEvent)
		}
		return Event{
			Kind:     env.Kind,
			Accounts: []codec.AccountID{data[0].OwnerID},
			Amounts:  []codec.Amount{data[0].Amount},
			Memo:     data[0].Memo,
		}, nil
	}
}
