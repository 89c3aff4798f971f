// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ava-labs/ftledger/codec"
	"github.com/ava-labs/ftledger/genesis"
	"github.com/ava-labs/ftledger/requester"
	"github.com/ava-labs/ftledger/server"
	"github.com/ava-labs/ftledger/token"
)

type JSONRPCClient struct {
	requester *requester.EndpointRequester

	metadata *genesis.Metadata
}

// NewJSONRPCClient talks to the ledger served at [uri], the root of the
// node's HTTP server.
func NewJSONRPCClient(uri string) *JSONRPCClient {
	uri = strings.TrimSuffix(uri, "/")
	uri += server.BaseURL + "/" + JSONRPCEndpoint
	req := requester.New(uri, Name)
	return &JSONRPCClient{requester: req}
}

func (cli *JSONRPCClient) Ping(ctx context.Context) (bool, error) {
	resp := new(PingReply)
	err := cli.requester.SendRequest(ctx,
		"ping",
		nil,
		resp,
	)
	return resp.Success, err
}

// Metadata is cached after the first call since it never changes.
func (cli *JSONRPCClient) Metadata(ctx context.Context) (*genesis.Metadata, error) {
	if cli.metadata != nil {
		return cli.metadata, nil
	}

	resp := new(MetadataReply)
	err := cli.requester.SendRequest(
		ctx,
		"metadata",
		nil,
		resp,
	)
	if err != nil {
		return nil, err
	}
	cli.metadata = resp.Metadata
	return resp.Metadata, nil
}

func (cli *JSONRPCClient) TotalSupply(ctx context.Context) (codec.Amount, error) {
	resp := new(AmountReply)
	err := cli.requester.SendRequest(
		ctx,
		"totalSupply",
		nil,
		resp,
	)
	return resp.Amount, err
}

func (cli *JSONRPCClient) BalanceOf(ctx context.Context, id codec.AccountID) (codec.Amount, error) {
	resp := new(AmountReply)
	err := cli.requester.SendRequest(
		ctx,
		"balanceOf",
		&AccountArgs{AccountID: id},
		resp,
	)
	return resp.Amount, err
}

func (cli *JSONRPCClient) StorageBalanceBounds(ctx context.Context) (token.StorageBalanceBounds, error) {
	resp := new(token.StorageBalanceBounds)
	err := cli.requester.SendRequest(
		ctx,
		"storageBalanceBounds",
		nil,
		resp,
	)
	return *resp, err
}

func (cli *JSONRPCClient) StorageBalanceOf(ctx context.Context, id codec.AccountID) (*token.StorageBalance, error) {
	resp := new(StorageBalanceReply)
	err := cli.requester.SendRequest(
		ctx,
		"storageBalanceOf",
		&AccountArgs{AccountID: id},
		resp,
	)
	return resp.Balance, err
}

func (cli *JSONRPCClient) StorageDeposit(
	ctx context.Context,
	id codec.AccountID,
	deposit codec.Amount,
) (*token.StorageDepositResult, error) {
	resp := new(token.StorageDepositResult)
	err := cli.requester.SendRequest(
		ctx,
		"storageDeposit",
		&StorageDepositArgs{AccountID: id, Deposit: deposit},
		resp,
	)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (cli *JSONRPCClient) StorageUnregister(ctx context.Context, id codec.AccountID) error {
	return cli.requester.SendRequest(
		ctx,
		"storageUnregister",
		&AccountArgs{AccountID: id},
		new(PingReply),
	)
}

func (cli *JSONRPCClient) Transfer(
	ctx context.Context,
	sender codec.AccountID,
	receiver codec.AccountID,
	amount codec.Amount,
	memo *string,
) error {
	return cli.requester.SendRequest(
		ctx,
		"transfer",
		&TransferArgs{
			SenderID:   sender,
			ReceiverID: receiver,
			Amount:     amount,
			Memo:       memo,
		},
		new(PingReply),
	)
}

// TransferCall returns the ID of the notified transfer and, if [wait] is
// set, the amount the receiver kept.
func (cli *JSONRPCClient) TransferCall(
	ctx context.Context,
	sender codec.AccountID,
	receiver codec.AccountID,
	amount codec.Amount,
	msg []byte,
	memo *string,
	wait bool,
) (uuid.UUID, *codec.Amount, error) {
	resp := new(TransferCallReply)
	err := cli.requester.SendRequest(
		ctx,
		"transferCall",
		&TransferCallArgs{
			TransferArgs: TransferArgs{
				SenderID:   sender,
				ReceiverID: receiver,
				Amount:     amount,
				Memo:       memo,
			},
			Msg:  msg,
			Wait: wait,
		},
		resp,
	)
	return resp.ID, resp.Kept, err
}

func (cli *JSONRPCClient) PendingTransfers(ctx context.Context) ([]*token.PendingTransfer, error) {
	resp := new(PendingTransfersReply)
	err := cli.requester.SendRequest(
		ctx,
		"pendingTransfers",
		nil,
		resp,
	)
	return resp.Transfers, err
}
