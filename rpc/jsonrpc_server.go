// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rpc

import (
	"net/http"

	"github.com/ava-labs/avalanchego/trace"
	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ava-labs/ftledger/codec"
	"github.com/ava-labs/ftledger/genesis"
	"github.com/ava-labs/ftledger/scheduler"
	"github.com/ava-labs/ftledger/token"
)

// Controller is what the JSON-RPC server reads from and writes through.
type Controller interface {
	Token() *token.Token
	Scheduler() *scheduler.Scheduler
	Tracer() trace.Tracer
	Logger() logging.Logger
}

type JSONRPCServer struct {
	c Controller
}

func NewJSONRPCServer(c Controller) *JSONRPCServer {
	return &JSONRPCServer{c}
}

type PingReply struct {
	Success bool `json:"success"`
}

func (j *JSONRPCServer) Ping(_ *http.Request, _ *struct{}, reply *PingReply) (err error) {
	j.c.Logger().Info("ping")
	reply.Success = true
	return nil
}

type MetadataReply struct {
	Metadata *genesis.Metadata `json:"metadata"`
}

func (j *JSONRPCServer) Metadata(req *http.Request, _ *struct{}, reply *MetadataReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.Metadata")
	defer span.End()

	m, err := j.c.Token().Metadata(ctx)
	if err != nil {
		return err
	}
	reply.Metadata = m
	return nil
}

type AmountReply struct {
	Amount codec.Amount `json:"amount"`
}

func (j *JSONRPCServer) TotalSupply(req *http.Request, _ *struct{}, reply *AmountReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.TotalSupply")
	defer span.End()

	supply, err := j.c.Token().TotalSupply(ctx)
	if err != nil {
		return err
	}
	reply.Amount = supply
	return nil
}

type AccountArgs struct {
	AccountID codec.AccountID `json:"accountId"`
}

func (j *JSONRPCServer) BalanceOf(req *http.Request, args *AccountArgs, reply *AmountReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.BalanceOf")
	defer span.End()

	bal, err := j.c.Token().BalanceOf(ctx, args.AccountID)
	if err != nil {
		return err
	}
	reply.Amount = bal
	return nil
}

func (j *JSONRPCServer) StorageBalanceBounds(req *http.Request, _ *struct{}, reply *token.StorageBalanceBounds) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.StorageBalanceBounds")
	defer span.End()

	bounds, err := j.c.Token().StorageBalanceBounds(ctx)
	if err != nil {
		return err
	}
	*reply = bounds
	return nil
}

type StorageBalanceReply struct {
	// nil if the account is not registered
	Balance *token.StorageBalance `json:"balance"`
}

func (j *JSONRPCServer) StorageBalanceOf(req *http.Request, args *AccountArgs, reply *StorageBalanceReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.StorageBalanceOf")
	defer span.End()

	balance, err := j.c.Token().StorageBalanceOf(ctx, args.AccountID)
	if err != nil {
		return err
	}
	reply.Balance = balance
	return nil
}

type StorageDepositArgs struct {
	AccountID codec.AccountID `json:"accountId"`
	Deposit   codec.Amount    `json:"deposit"`
}

func (j *JSONRPCServer) StorageDeposit(req *http.Request, args *StorageDepositArgs, reply *token.StorageDepositResult) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.StorageDeposit")
	defer span.End()

	result, err := j.c.Scheduler().StorageDeposit(ctx, args.AccountID, args.Deposit)
	if err != nil {
		return err
	}
	*reply = *result
	return nil
}

func (j *JSONRPCServer) StorageUnregister(req *http.Request, args *AccountArgs, reply *PingReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.StorageUnregister")
	defer span.End()

	if err := j.c.Scheduler().Unregister(ctx, args.AccountID); err != nil {
		return err
	}
	reply.Success = true
	return nil
}

type TransferArgs struct {
	SenderID   codec.AccountID `json:"senderId"`
	ReceiverID codec.AccountID `json:"receiverId"`
	Amount     codec.Amount    `json:"amount"`
	Memo       *string         `json:"memo,omitempty"`
}

func (j *JSONRPCServer) Transfer(req *http.Request, args *TransferArgs, reply *PingReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.Transfer")
	defer span.End()

	err := j.c.Scheduler().Transfer(ctx, args.SenderID, args.ReceiverID, args.Amount, args.Memo)
	if err != nil {
		return err
	}
	reply.Success = true
	return nil
}

type TransferCallArgs struct {
	TransferArgs
	Msg []byte `json:"msg"`
	// Wait for the receiver's outcome before replying
	Wait bool `json:"wait"`
}

type TransferCallReply struct {
	ID uuid.UUID `json:"id"`
	// Kept is set once the transfer is resolved
	Kept *codec.Amount `json:"kept,omitempty"`
}

func (j *JSONRPCServer) TransferCall(req *http.Request, args *TransferCallArgs, reply *TransferCallReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.TransferCall")
	defer span.End()

	call, err := j.c.Scheduler().TransferCall(
		ctx,
		args.SenderID,
		args.ReceiverID,
		args.Amount,
		args.Msg,
		args.Memo,
	)
	if err != nil {
		return err
	}
	reply.ID = call.Transfer.ID
	if !args.Wait {
		return nil
	}
	kept, err := call.Wait(ctx)
	if err != nil {
		j.c.Logger().Debug("stopped waiting for transfer",
			zap.Stringer("id", reply.ID),
			zap.Error(err),
		)
		return err
	}
	reply.Kept = &kept
	return nil
}

type PendingTransfersReply struct {
	Transfers []*token.PendingTransfer `json:"transfers"`
}

func (j *JSONRPCServer) PendingTransfers(req *http.Request, _ *struct{}, reply *PendingTransfersReply) error {
	ctx, span := j.c.Tracer().Start(req.Context(), "JSONRPCServer.PendingTransfers")
	defer span.End()

	pending, err := j.c.Token().PendingTransfers(ctx)
	if err != nil {
		return err
	}
	reply.Transfers = pending
	return nil
}
