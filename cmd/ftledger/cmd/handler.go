// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"fmt"

	"github.com/ava-labs/ftledger/codec"
	"github.com/ava-labs/ftledger/genesis"
	"github.com/ava-labs/ftledger/rpc"
	"github.com/ava-labs/ftledger/utils"
)

// handler formats amounts with the decimals of the token served at [uri].
type handler struct {
	cli      *rpc.JSONRPCClient
	metadata *genesis.Metadata
}

func newHandler(ctx context.Context) (*handler, error) {
	cli := rpc.NewJSONRPCClient(uri)
	m, err := cli.Metadata(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reach %s: %w", uri, err)
	}
	return &handler{cli: cli, metadata: m}, nil
}

func (h *handler) decimals() uint8 {
	if rawUnits {
		return 0
	}
	return h.metadata.Decimals
}

func (h *handler) ParseAmount(s string) (codec.Amount, error) {
	return utils.ParseBalance(s, h.decimals())
}

func (h *handler) FormatAmount(a codec.Amount) string {
	return fmt.Sprintf("%s %s", utils.FormatBalance(a, h.decimals()), h.metadata.Symbol)
}

func requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func parseAccounts(args ...string) ([]codec.AccountID, error) {
	ids := make([]codec.AccountID, len(args))
	for i, arg := range args {
		id, err := codec.ParseAccountID(arg)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func memoArg() *string {
	if len(memo) == 0 {
		return nil
	}
	return &memo
}
