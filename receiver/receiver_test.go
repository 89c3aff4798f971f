// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package receiver

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/ava-labs/ftledger/codec"
)

const (
	alice codec.AccountID = "alice.near"
	bob   codec.AccountID = "bob.near"
)

var errRejected = errors.New("rejected")

func TestFuncs(t *testing.T) {
	require := require.New(t)
	ctx := context.TODO()

	used, err := Accept.OnTransfer(ctx, alice, codec.NewAmount(7), nil)
	require.NoError(err)
	require.Equal(codec.NewAmount(7), used)

	used, err = Reject.OnTransfer(ctx, alice, codec.NewAmount(7), nil)
	require.NoError(err)
	require.True(used.IsZero())
}

func TestRegistry(t *testing.T) {
	require := require.New(t)
	r := NewRegistry()

	_, err := r.Get(alice)
	require.ErrorIs(err, ErrNoReceiver)

	r.Set(bob, Reject)
	r.Set(alice, Accept)
	require.Equal([]codec.AccountID{alice, bob}, r.Accounts())

	got, err := r.Get(alice)
	require.NoError(err)
	used, err := got.OnTransfer(context.TODO(), bob, codec.NewAmount(1), nil)
	require.NoError(err)
	require.Equal(codec.NewAmount(1), used)

	r.Delete(alice)
	require.Equal([]codec.AccountID{bob}, r.Accounts())
}

func TestJSONRPCReceiver(t *testing.T) {
	require := require.New(t)
	ctrl := gomock.NewController(t)
	ctx := context.TODO()

	mock := NewMockReceiver(ctrl)
	handler, err := NewHandler(mock)
	require.NoError(err)
	srv := httptest.NewServer(handler)
	defer srv.Close()

	cli := NewJSONRPCReceiver(srv.URL)

	amount := codec.MustParseAmount("340282366920938463463374607431768211455")
	mock.EXPECT().
		OnTransfer(gomock.Any(), alice, amount, []byte("swap")).
		Return(codec.NewAmount(40), nil)
	used, err := cli.OnTransfer(ctx, alice, amount, []byte("swap"))
	require.NoError(err)
	require.Equal(codec.NewAmount(40), used)

	mock.EXPECT().
		OnTransfer(gomock.Any(), alice, codec.NewAmount(1), gomock.Nil()).
		Return(codec.ZeroAmount, errRejected)
	_, err = cli.OnTransfer(ctx, alice, codec.NewAmount(1), nil)
	require.ErrorContains(err, errRejected.Error())
}
