// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/database"

	"github.com/ava-labs/ftledger/codec"
	"github.com/ava-labs/ftledger/consts"
	"github.com/ava-labs/ftledger/ledger"
	"github.com/ava-labs/ftledger/state"
)

var (
	ErrInvalidMetadata = errors.New("invalid metadata")
	ErrMissingMetadata = errors.New("missing metadata")
)

// Metadata describes the token (NEP-148). The ledger stores it as given and
// never interprets it.
//
// Optional fields are empty strings when unset.
type Metadata struct {
	Spec          string `json:"spec" yaml:"spec"`
	Name          string `json:"name" yaml:"name"`
	Symbol        string `json:"symbol" yaml:"symbol"`
	Icon          string `json:"icon,omitempty" yaml:"icon,omitempty"`
	Reference     string `json:"reference,omitempty" yaml:"reference,omitempty"`
	ReferenceHash string `json:"reference_hash,omitempty" yaml:"reference_hash,omitempty"` // base64
	Decimals      uint8  `json:"decimals" yaml:"decimals"`
}

func DefaultMetadata() *Metadata {
	return &Metadata{
		Spec:     consts.FTMetadataSpec,
		Name:     "Spudcoin",
		Symbol:   "SPUD",
		Icon:     DefaultIcon,
		Decimals: 24,
	}
}

func (m *Metadata) Verify() error {
	if m.Spec != consts.FTMetadataSpec {
		return fmt.Errorf("%w: spec %q", ErrInvalidMetadata, m.Spec)
	}
	if len(m.Name) == 0 || len(m.Symbol) == 0 {
		return fmt.Errorf("%w: name and symbol are required", ErrInvalidMetadata)
	}
	if (len(m.Reference) == 0) != (len(m.ReferenceHash) == 0) {
		return fmt.Errorf("%w: reference and reference_hash must be set together", ErrInvalidMetadata)
	}
	if len(m.ReferenceHash) > 0 {
		h, err := base64.StdEncoding.DecodeString(m.ReferenceHash)
		if err != nil {
			return fmt.Errorf("%w: reference_hash: %w", ErrInvalidMetadata, err)
		}
		if len(h) != consts.IDLen {
			return fmt.Errorf("%w: reference_hash has %d bytes", ErrInvalidMetadata, len(h))
		}
	}
	return nil
}

func SetMetadata(ctx context.Context, mu state.Mutable, m *Metadata) error {
	v, err := codec.Serialize(*m)
	if err != nil {
		return err
	}
	return mu.Insert(ctx, ledger.MetadataKey(), v)
}

func GetMetadata(ctx context.Context, im state.Immutable) (*Metadata, error) {
	v, err := im.GetValue(ctx, ledger.MetadataKey())
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrMissingMetadata
	}
	if err != nil {
		return nil, err
	}
	return codec.Deserialize[Metadata](v)
}
