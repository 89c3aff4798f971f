// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ava-labs/ftledger/codec"
	"github.com/ava-labs/ftledger/utils"
)

// Storage deposits are always in base units of the attached currency.

var storageCmd = &cobra.Command{
	Use: "storage",
	RunE: func(*cobra.Command, []string) error {
		return ErrMissingSubcommand
	},
}

var storageBoundsCmd = &cobra.Command{
	Use:   "bounds",
	Short: "Prints the deposit required to register an account",
	RunE: func(*cobra.Command, []string) error {
		ctx, cancel := requestContext()
		defer cancel()
		h, err := newHandler(ctx)
		if err != nil {
			return err
		}
		bounds, err := h.cli.StorageBalanceBounds(ctx)
		if err != nil {
			return err
		}
		utils.Outf("{{yellow}}min:{{/}} %s {{yellow}}max:{{/}} %s\n", bounds.Min, bounds.Max)
		return nil
	},
}

var storageBalanceCmd = &cobra.Command{
	Use:   "balance [account]",
	Short: "Prints the storage balance of an account",
	PreRunE: func(_ *cobra.Command, args []string) error {
		if len(args) != 1 {
			return ErrInvalidArgs
		}
		return nil
	},
	RunE: func(_ *cobra.Command, args []string) error {
		ids, err := parseAccounts(args...)
		if err != nil {
			return err
		}
		ctx, cancel := requestContext()
		defer cancel()
		h, err := newHandler(ctx)
		if err != nil {
			return err
		}
		bal, err := h.cli.StorageBalanceOf(ctx, ids[0])
		if err != nil {
			return err
		}
		if bal == nil {
			utils.Outf("{{yellow}}%s is not registered{{/}}\n", ids[0])
			return nil
		}
		utils.Outf("{{yellow}}total:{{/}} %s {{yellow}}available:{{/}} %s\n", bal.Total, bal.Available)
		return nil
	},
}

var storageDepositCmd = &cobra.Command{
	Use:   "deposit [account] [amount]",
	Short: "Registers an account with an attached deposit",
	PreRunE: func(_ *cobra.Command, args []string) error {
		if len(args) != 2 {
			return ErrInvalidArgs
		}
		return nil
	},
	RunE: func(_ *cobra.Command, args []string) error {
		ids, err := parseAccounts(args[0])
		if err != nil {
			return err
		}
		deposit, err := codec.ParseAmount(args[1])
		if err != nil {
			return err
		}
		ctx, cancel := requestContext()
		defer cancel()
		h, err := newHandler(ctx)
		if err != nil {
			return err
		}
		res, err := h.cli.StorageDeposit(ctx, ids[0], deposit)
		if err != nil {
			return err
		}
		if res.AlreadyRegistered {
			color.Yellow("%s was already registered, refunded %s", ids[0], res.Refund)
			return nil
		}
		color.Green("registered %s, refunded %s", ids[0], res.Refund)
		return nil
	},
}

var storageUnregisterCmd = &cobra.Command{
	Use:   "unregister [account]",
	Short: "Unregisters an account with no balance",
	PreRunE: func(_ *cobra.Command, args []string) error {
		if len(args) != 1 {
			return ErrInvalidArgs
		}
		return nil
	},
	RunE: func(_ *cobra.Command, args []string) error {
		ids, err := parseAccounts(args...)
		if err != nil {
			return err
		}
		ctx, cancel := requestContext()
		defer cancel()
		h, err := newHandler(ctx)
		if err != nil {
			return err
		}
		if err := h.cli.StorageUnregister(ctx, ids[0]); err != nil {
			return err
		}
		color.Green("unregistered %s", ids[0])
		return nil
	},
}
