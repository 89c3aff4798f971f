// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/ftledger/codec"
	"github.com/ava-labs/ftledger/ledger"
	"github.com/ava-labs/ftledger/state"
)

func TestLoadJSON(t *testing.T) {
	require := require.New(t)

	g, err := Load([]byte(`{"ownerID":"owner.near","totalSupply":"1000"}`))
	require.NoError(err)
	require.Equal(codec.AccountID("owner.near"), g.OwnerID)
	require.Equal(codec.NewAmount(1000), g.TotalSupply)
	require.Equal(DefaultMetadata(), g.Metadata)
	require.Equal(DefaultStoragePricePerByte, g.Rules.StoragePricePerByte())

	b, err := json.Marshal(g)
	require.NoError(err)
	reloaded, err := Load(b)
	require.NoError(err)
	require.Equal(g, reloaded)
}

func TestLoadYAML(t *testing.T) {
	require := require.New(t)

	g, err := Load([]byte(`
ownerID: owner.near
totalSupply: "340282366920938463463374607431768211455"
metadata:
  spec: ft-1.0.0
  name: Example
  symbol: EX
  decimals: 6
rules:
  storagePricePerByte: "7"
`))
	require.NoError(err)
	require.Equal(codec.MaxAmount, g.TotalSupply)
	require.Equal("EX", g.Metadata.Symbol)
	require.Equal(uint8(6), g.Metadata.Decimals)
	require.Equal(codec.NewAmount(7), g.Rules.StoragePricePerByte())

	_, err = Load([]byte("ownerID: owner.near\nunknown: 1\n"))
	require.Error(err)
}

func TestLoadInvalid(t *testing.T) {
	require := require.New(t)

	_, err := Load([]byte(`{"ownerID":"o","totalSupply":"1"}`))
	require.ErrorIs(err, ErrInvalidGenesis)
	require.ErrorIs(err, codec.ErrInvalidAccountID)

	_, err = Load([]byte(`{"ownerID":"owner.near","totalSupply":"-1"}`))
	require.ErrorIs(err, codec.ErrInvalidAmount)

	_, err = Load([]byte(`{"ownerID":"owner.near","totalSupply":"340282366920938463463374607431768211456"}`))
	require.ErrorIs(err, codec.ErrAmountOverflow)
}

func TestMetadataVerify(t *testing.T) {
	hash := base64.StdEncoding.EncodeToString(make([]byte, 32))
	tests := []struct {
		name   string
		modify func(m *Metadata)
		err    error
	}{
		{name: "default", modify: func(*Metadata) {}},
		{name: "wrong spec", modify: func(m *Metadata) { m.Spec = "ft-2.0.0" }, err: ErrInvalidMetadata},
		{name: "no name", modify: func(m *Metadata) { m.Name = "" }, err: ErrInvalidMetadata},
		{name: "reference without hash", modify: func(m *Metadata) { m.Reference = "https://example.org" }, err: ErrInvalidMetadata},
		{name: "hash without reference", modify: func(m *Metadata) { m.ReferenceHash = hash }, err: ErrInvalidMetadata},
		{name: "reference with hash", modify: func(m *Metadata) {
			m.Reference = "https://example.org"
			m.ReferenceHash = hash
		}},
		{name: "short hash", modify: func(m *Metadata) {
			m.Reference = "https://example.org"
			m.ReferenceHash = base64.StdEncoding.EncodeToString(make([]byte, 31))
		}, err: ErrInvalidMetadata},
		{name: "hash not base64", modify: func(m *Metadata) {
			m.Reference = "https://example.org"
			m.ReferenceHash = strings.Repeat("!", 44)
		}, err: ErrInvalidMetadata},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := DefaultMetadata()
			tt.modify(m)
			require.ErrorIs(t, m.Verify(), tt.err)
		})
	}
}

func TestInitializeState(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()
	mu := state.NewMutableStorage()

	g := Default("owner.near", codec.NewAmount(1000))
	bytes, err := g.InitializeState(ctx, trace.Noop, mu)
	require.NoError(err)
	require.Equal(uint64(125), bytes)

	l := ledger.New(mu)
	bal, err := l.BalanceOf(ctx, "owner.near")
	require.NoError(err)
	require.Equal(codec.NewAmount(1000), bal)
	supply, err := l.TotalSupply(ctx)
	require.NoError(err)
	require.Equal(codec.NewAmount(1000), supply)

	m, err := GetMetadata(ctx, mu)
	require.NoError(err)
	require.Equal(g.Metadata, m)

	// genesis only runs once
	_, err = g.InitializeState(ctx, trace.Noop, mu)
	require.ErrorIs(err, ledger.ErrAlreadyMeasured)
}

func TestGetMetadataMissing(t *testing.T) {
	_, err := GetMetadata(context.TODO(), state.NewMutableStorage())
	require.ErrorIs(t, err, ErrMissingMetadata)
}
