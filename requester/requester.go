// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package requester

import (
	"context"
	"fmt"

	"github.com/ava-labs/avalanchego/utils/rpc"
)

// EndpointRequester sends JSON-RPC 2.0 requests to the methods of a single
// service mounted at uri. Methods are named "[base].[method]" on the wire.
type EndpointRequester struct {
	requester rpc.EndpointRequester
	base      string
}

func New(uri, base string) *EndpointRequester {
	return &EndpointRequester{
		requester: rpc.NewEndpointRequester(uri),
		base:      base,
	}
}

// SendRequest calls [method] and decodes the result into [reply]. Deadlines
// come from [ctx].
func (e *EndpointRequester) SendRequest(
	ctx context.Context,
	method string,
	params interface{},
	reply interface{},
	options ...rpc.Option,
) error {
	if params == nil {
		params = struct{}{}
	}
	return e.requester.SendRequest(
		ctx,
		fmt.Sprintf("%s.%s", e.base, method),
		params,
		reply,
		options...,
	)
}
