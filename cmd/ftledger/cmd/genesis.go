// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/ava-labs/ftledger/codec"
	"github.com/ava-labs/ftledger/genesis"
)

var genesisCmd = &cobra.Command{
	Use: "genesis",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var genGenesisCmd = &cobra.Command{
	Use:   "generate [options]",
	Short: "Creates a new genesis in the default location",
	RunE: func(*cobra.Command, []string) error {
		owner, err := codec.ParseAccountID(ownerID)
		if err != nil {
			return err
		}
		supply, err := codec.ParseAmount(totalSupply)
		if err != nil {
			return err
		}
		g := genesis.Default(owner, supply)
		if len(pricePerByte) > 0 {
			price, err := codec.ParseAmount(pricePerByte)
			if err != nil {
				return err
			}
			g.Rules.PricePerByte = price
		}
		if err := g.Verify(); err != nil {
			return err
		}

		var b []byte
		if filepath.Ext(genesisFile) == ".json" {
			b, err = json.MarshalIndent(g, "", "  ")
		} else {
			b, err = yaml.Marshal(g)
		}
		if err != nil {
			return err
		}
		if err := os.WriteFile(genesisFile, b, fsModeWrite); err != nil {
			return err
		}
		color.Green("created genesis and saved to %s", genesisFile)
		return nil
	},
}
