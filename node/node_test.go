// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package node

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ava-labs/avalanchego/utils/logging"
	"github.com/stretchr/testify/require"

	"github.com/ava-labs/ftledger/codec"
	"github.com/ava-labs/ftledger/config"
	"github.com/ava-labs/ftledger/genesis"
	"github.com/ava-labs/ftledger/receiver"
	"github.com/ava-labs/ftledger/rpc"
	"github.com/ava-labs/ftledger/server"
)

var (
	owner = codec.AccountID("owner.near")
	bob   = codec.AccountID("bob.near")
)

func newTestConfig(t *testing.T, dataDir string, receiverURI string) *config.Config {
	require := require.New(t)

	c, err := config.New([]byte(fmt.Sprintf(`{
		"genesisFile": "genesis.yaml",
		"dataDir": %q,
		"logFile": %q,
		"storagePricePerByte": "1",
		"receivers": {%q: %q}
	}`, dataDir, filepath.Join(dataDir, "ftledger.log"), bob, receiverURI)))
	require.NoError(err)
	return c
}

func newTestNode(t *testing.T, c *config.Config) *Node {
	return newTestNodeWithGenesis(t, c, genesis.Default(owner, codec.NewAmount(1000)))
}

func newTestNodeWithGenesis(t *testing.T, c *config.Config, g *genesis.Genesis) *Node {
	require := require.New(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)
	n, err := New(
		context.Background(),
		c,
		NewLogger(c, nopCloser{io.Discard}),
		g,
		listener,
	)
	require.NoError(err)
	return n
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func TestNode(t *testing.T) {
	require := require.New(t)
	dataDir := t.TempDir()

	keep := receiver.Func(func(context.Context, codec.AccountID, codec.Amount, []byte) (codec.Amount, error) {
		return codec.NewAmount(100), nil
	})
	handler, err := receiver.NewHandler(keep)
	require.NoError(err)
	rcv := httptest.NewServer(handler)
	defer rcv.Close()

	c := newTestConfig(t, dataDir, rcv.URL)
	n := newTestNode(t, c)
	require.Equal([]codec.AccountID{bob}, n.Receivers().Accounts())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ran := make(chan error, 1)
	go func() {
		ran <- n.Run(ctx)
	}()

	uri := "http://" + n.Addr().String()
	cli := rpc.NewJSONRPCClient(uri)
	ok, err := cli.Ping(ctx)
	require.NoError(err)
	require.True(ok)

	// the configured price overrides the genesis rules
	bounds, err := cli.StorageBalanceBounds(ctx)
	require.NoError(err)
	require.Equal(codec.NewAmount(125), bounds.Min)

	res, err := cli.StorageDeposit(ctx, bob, codec.NewAmount(125))
	require.NoError(err)
	require.False(res.AlreadyRegistered)

	_, kept, err := cli.TransferCall(ctx, owner, bob, codec.NewAmount(300), []byte("swap"), nil, true)
	require.NoError(err)
	require.NotNil(kept)
	require.Equal(codec.NewAmount(100), *kept)

	balance, err := cli.BalanceOf(ctx, owner)
	require.NoError(err)
	require.Equal(codec.NewAmount(900), balance)

	resp, err := http.Get(uri + server.BaseURL + "/" + rpc.MetricsEndpoint)
	require.NoError(err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(err)
	require.NoError(resp.Body.Close())
	require.Equal(http.StatusOK, resp.StatusCode)
	require.Contains(string(body), "transfer_calls")
	require.Contains(string(body), "api_requests")

	cancel()
	require.NoError(<-ran)

	// reopening skips genesis and keeps the balances
	reopened := newTestNode(t, c)
	balance, err = reopened.Token().BalanceOf(context.Background(), bob)
	require.NoError(err)
	require.Equal(codec.NewAmount(100), balance)
	require.NoError(reopened.close())
	require.FileExists(filepath.Join(dataDir, "ftledger.log"))
}

func TestNewLoggerWithoutFile(t *testing.T) {
	require := require.New(t)
	dataDir := t.TempDir()

	c, err := config.New([]byte(fmt.Sprintf(`{"genesisFile": "genesis.json", "dataDir": %q, "displayLevel": "debug"}`, dataDir)))
	require.NoError(err)
	require.Equal(logging.Debug, c.DisplayLevel)
	require.Equal(logging.Info, c.LogLevel)

	log := NewLogger(c, nopCloser{io.Discard})
	log.Debug("no file")
	log.Stop()
	entries, err := os.ReadDir(dataDir)
	require.NoError(err)
	require.Empty(entries)
}

func TestGenesisWithoutRules(t *testing.T) {
	require := require.New(t)
	dataDir := t.TempDir()

	c, err := config.New([]byte(fmt.Sprintf(`{"genesisFile": "genesis.yaml", "dataDir": %q}`, dataDir)))
	require.NoError(err)
	n := newTestNodeWithGenesis(t, c, &genesis.Genesis{
		OwnerID:     owner,
		TotalSupply: codec.NewAmount(1000),
		Metadata:    genesis.DefaultMetadata(),
	})
	defer func() { require.NoError(n.close()) }()

	want, err := codec.NewAmount(125).Mul(genesis.DefaultStoragePricePerByte)
	require.NoError(err)
	bounds, err := n.Token().StorageBalanceBounds(context.Background())
	require.NoError(err)
	require.Equal(want, bounds.Min)
	require.Equal(want, bounds.Max)
}
