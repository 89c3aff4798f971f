// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ava-labs/ftledger/config"
	"github.com/ava-labs/ftledger/genesis"
	"github.com/ava-labs/ftledger/node"
)

var runCmd = &cobra.Command{
	Use:   "run [config file]",
	Short: "Runs a ledger node",
	PreRunE: func(_ *cobra.Command, args []string) error {
		if len(args) != 1 {
			return ErrInvalidArgs
		}
		return nil
	},
	RunE: func(_ *cobra.Command, args []string) error {
		rawConfig, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		c, err := config.New(rawConfig)
		if err != nil {
			return err
		}
		log := node.NewLogger(c, os.Stdout)
		defer log.Stop()

		rawGenesis, err := os.ReadFile(c.GenesisFile)
		if err != nil {
			log.Error("cannot open genesis file", zap.String("path", c.GenesisFile), zap.Error(err))
			return err
		}
		g, err := genesis.Load(rawGenesis)
		if err != nil {
			log.Error("cannot read genesis file", zap.String("path", c.GenesisFile), zap.Error(err))
			return err
		}
		listener, err := net.Listen("tcp", c.HTTPAddress)
		if err != nil {
			log.Error("cannot create listener", zap.String("address", c.HTTPAddress), zap.Error(err))
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		n, err := node.New(ctx, c, log, g, listener)
		if err != nil {
			log.Error("cannot create node", zap.Error(err))
			return err
		}
		return n.Run(ctx)
	},
}
