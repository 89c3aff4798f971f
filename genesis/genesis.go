// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/trace"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/ftledger/codec"
	"github.com/ava-labs/ftledger/ledger"
	"github.com/ava-labs/ftledger/state"
)

var ErrInvalidGenesis = errors.New("invalid genesis")

type Genesis struct {
	OwnerID     codec.AccountID `json:"ownerID" yaml:"ownerID"`
	TotalSupply codec.Amount    `json:"totalSupply" yaml:"totalSupply"`
	Metadata    *Metadata       `json:"metadata" yaml:"metadata"`
	Rules       *Rules          `json:"rules" yaml:"rules"`
}

// Default returns a genesis minting [supply] Spudcoin to [owner].
func Default(owner codec.AccountID, supply codec.Amount) *Genesis {
	return &Genesis{
		OwnerID:     owner,
		TotalSupply: supply,
		Metadata:    DefaultMetadata(),
		Rules:       NewDefaultRules(),
	}
}

// Load parses a JSON or YAML genesis and fills in defaults for omitted
// sections.
func Load(b []byte) (*Genesis, error) {
	g := &Genesis{}
	if trimmed := bytes.TrimSpace(b); len(trimmed) > 0 && trimmed[0] == '{' {
		if err := json.Unmarshal(b, g); err != nil {
			return nil, err
		}
	} else if err := yaml.UnmarshalStrict(b, g); err != nil {
		return nil, err
	}
	if g.Metadata == nil {
		g.Metadata = DefaultMetadata()
	}
	if g.Rules == nil {
		g.Rules = NewDefaultRules()
	}
	return g, g.Verify()
}

func (g *Genesis) Verify() error {
	if err := g.OwnerID.Verify(); err != nil {
		return fmt.Errorf("%w: owner: %w", ErrInvalidGenesis, err)
	}
	if g.Metadata == nil {
		return fmt.Errorf("%w: %w", ErrInvalidGenesis, ErrMissingMetadata)
	}
	if err := g.Metadata.Verify(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidGenesis, err)
	}
	return nil
}

// InitializeState measures the cost of registering an account, mints the
// total supply to the owner and stores the metadata. It returns the
// measured registration cost in bytes.
//
// [mu] must be empty.
func (g *Genesis) InitializeState(ctx context.Context, tracer trace.Tracer, mu state.Metered) (uint64, error) {
	_, span := tracer.Start(ctx, "Genesis.InitializeState")
	defer span.End()

	if err := g.Verify(); err != nil {
		return 0, err
	}
	l := ledger.New(mu)
	bytes, err := l.MeasureRegistrationCost(ctx)
	if err != nil {
		return 0, err
	}
	if err := l.Bootstrap(ctx, g.OwnerID, g.TotalSupply); err != nil {
		return 0, fmt.Errorf("%w: owner=%s, supply=%s", err, g.OwnerID, g.TotalSupply)
	}
	if err := SetMetadata(ctx, mu, g.Metadata); err != nil {
		return 0, err
	}
	return bytes, nil
}
