// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"time"

	"github.com/spf13/cobra"
)

const (
	defaultURI     = "http://127.0.0.1:9650"
	defaultGenesis = "genesis.yaml"
	defaultTimeout = 30 * time.Second
	fsModeWrite    = 0o600
	maxMsgLen      = 4_096
)

var (
	uri     string
	timeout time.Duration

	genesisFile  string
	ownerID      string
	totalSupply  string
	pricePerByte string

	memo        string
	wait        bool
	skipConfirm bool
	rawUnits    bool
	since       uint64

	prometheusFile        string
	prometheusBaseURI     string
	prometheusOpenBrowser bool

	rootCmd = &cobra.Command{
		Use:        "ftledger",
		Short:      "Fungible token ledger",
		SuggestFor: []string{"ftledger", "ft-ledger"},
	}
)

func init() {
	cobra.EnablePrefixMatching = true
	rootCmd.AddCommand(
		runCmd,
		genesisCmd,
		metadataCmd,
		supplyCmd,
		balanceCmd,
		storageCmd,
		transferCmd,
		transferCallCmd,
		pendingCmd,
		watchCmd,
		prometheusCmd,
	)
	rootCmd.PersistentFlags().StringVar(
		&uri,
		"uri",
		defaultURI,
		"uri of the ledger node",
	)
	rootCmd.PersistentFlags().DurationVar(
		&timeout,
		"timeout",
		defaultTimeout,
		"request timeout",
	)
	rootCmd.PersistentFlags().BoolVar(
		&rawUnits,
		"raw",
		false,
		"read and print token amounts in base units",
	)
	rootCmd.SilenceErrors = true

	// genesis
	genGenesisCmd.PersistentFlags().StringVar(
		&genesisFile,
		"genesis-file",
		defaultGenesis,
		"genesis file path (.json or .yaml)",
	)
	genGenesisCmd.PersistentFlags().StringVar(
		&ownerID,
		"owner",
		"",
		"account minted the total supply",
	)
	genGenesisCmd.PersistentFlags().StringVar(
		&totalSupply,
		"total-supply",
		"",
		"total supply in base units",
	)
	genGenesisCmd.PersistentFlags().StringVar(
		&pricePerByte,
		"storage-price-per-byte",
		"",
		"storage price per byte in base units",
	)
	genesisCmd.AddCommand(
		genGenesisCmd,
	)

	// storage
	storageCmd.AddCommand(
		storageBoundsCmd,
		storageBalanceCmd,
		storageDepositCmd,
		storageUnregisterCmd,
	)

	// transfers
	for _, c := range []*cobra.Command{transferCmd, transferCallCmd} {
		c.PersistentFlags().StringVar(
			&memo,
			"memo",
			"",
			"memo attached to the transfer event",
		)
	}
	for _, c := range []*cobra.Command{transferCmd, transferCallCmd} {
		c.PersistentFlags().BoolVar(
			&skipConfirm,
			"yes",
			false,
			"skip the confirmation of prompted transfers",
		)
	}
	transferCallCmd.PersistentFlags().BoolVar(
		&wait,
		"wait",
		true,
		"wait for the receiver to be resolved",
	)

	// prometheus
	generatePrometheusCmd.PersistentFlags().StringVar(
		&prometheusFile,
		"prometheus-file",
		"/tmp/prometheus.yaml",
		"prometheus file location",
	)
	generatePrometheusCmd.PersistentFlags().StringVar(
		&prometheusBaseURI,
		"prometheus-base-uri",
		"http://localhost:9090",
		"prometheus server location",
	)
	generatePrometheusCmd.PersistentFlags().BoolVar(
		&prometheusOpenBrowser,
		"prometheus-open-browser",
		false,
		"open browser to prometheus dashboard",
	)
	prometheusCmd.AddCommand(
		generatePrometheusCmd,
	)

	// watch
	watchCmd.PersistentFlags().Uint64Var(
		&since,
		"since",
		0,
		"replay buffered events after this sequence number",
	)
}

func Execute() error {
	return rootCmd.Execute()
}
