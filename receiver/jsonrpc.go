// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package receiver

import (
	"context"
	"net/http"
	"strings"

	"github.com/ava-labs/ftledger/codec"
	"github.com/ava-labs/ftledger/requester"
	"github.com/ava-labs/ftledger/server"
)

const (
	Name     = "ftreceiver"
	Endpoint = "/ft_on_transfer"
)

var _ Receiver = (*JSONRPCReceiver)(nil)

type OnTransferArgs struct {
	SenderID codec.AccountID `json:"senderId"`
	Amount   codec.Amount    `json:"amount"`
	Payload  []byte          `json:"msg"`
}

type OnTransferReply struct {
	Used codec.Amount `json:"used"`
}

// JSONRPCReceiver forwards notifications to a receiver served by
// [NewHandler] in another process.
type JSONRPCReceiver struct {
	requester *requester.EndpointRequester
}

func NewJSONRPCReceiver(uri string) *JSONRPCReceiver {
	uri = strings.TrimSuffix(uri, "/")
	uri += Endpoint
	return &JSONRPCReceiver{requester: requester.New(uri, Name)}
}

func (j *JSONRPCReceiver) OnTransfer(
	ctx context.Context,
	sender codec.AccountID,
	amount codec.Amount,
	payload []byte,
) (codec.Amount, error) {
	resp := new(OnTransferReply)
	err := j.requester.SendRequest(
		ctx,
		"onTransfer",
		&OnTransferArgs{
			SenderID: sender,
			Amount:   amount,
			Payload:  payload,
		},
		resp,
	)
	if err != nil {
		return codec.ZeroAmount, err
	}
	return resp.Used, nil
}

type Service struct {
	r Receiver
}

func (s *Service) OnTransfer(req *http.Request, args *OnTransferArgs, reply *OnTransferReply) error {
	used, err := s.r.OnTransfer(req.Context(), args.SenderID, args.Amount, args.Payload)
	if err != nil {
		return err
	}
	reply.Used = used
	return nil
}

// NewHandler serves [r] to [JSONRPCReceiver] clients.
func NewHandler(r Receiver) (http.Handler, error) {
	return server.NewHandler(&Service{r: r}, Name)
}
