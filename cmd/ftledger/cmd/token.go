// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ava-labs/ftledger/cli/prompt"
	"github.com/ava-labs/ftledger/codec"
	"github.com/ava-labs/ftledger/utils"
)

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Prints the token metadata",
	RunE: func(*cobra.Command, []string) error {
		ctx, cancel := requestContext()
		defer cancel()
		h, err := newHandler(ctx)
		if err != nil {
			return err
		}
		m := h.metadata
		utils.Outf(
			"{{yellow}}name:{{/}} %s {{yellow}}symbol:{{/}} %s {{yellow}}decimals:{{/}} %d {{yellow}}spec:{{/}} %s\n",
			m.Name,
			m.Symbol,
			m.Decimals,
			m.Spec,
		)
		if len(m.Reference) > 0 {
			utils.Outf("{{yellow}}reference:{{/}} %s {{yellow}}hash:{{/}} %s\n", m.Reference, m.ReferenceHash)
		}
		return nil
	},
}

var supplyCmd = &cobra.Command{
	Use:   "supply",
	Short: "Prints the total supply",
	RunE: func(*cobra.Command, []string) error {
		ctx, cancel := requestContext()
		defer cancel()
		h, err := newHandler(ctx)
		if err != nil {
			return err
		}
		supply, err := h.cli.TotalSupply(ctx)
		if err != nil {
			return err
		}
		utils.Outf("{{yellow}}total supply:{{/}} %s\n", h.FormatAmount(supply))
		return nil
	},
}

var balanceCmd = &cobra.Command{
	Use:   "balance [account]",
	Short: "Prints the balance of an account",
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
		bal, err := h.cli.BalanceOf(ctx, ids[0])
		if err != nil {
			return err
		}
		utils.Outf("{{yellow}}%s:{{/}} %s\n", ids[0], h.FormatAmount(bal))
		return nil
	},
}

// transferArgs are read from the command line, or prompted for if none
// were given.
type transferArgs struct {
	sender   codec.AccountID
	receiver codec.AccountID
	amount   codec.Amount
	msg      string
}

func checkTransferArgs(n int) func(*cobra.Command, []string) error {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != 0 && len(args) != n {
			return ErrInvalidArgs
		}
		return nil
	}
}

func readTransferArgs(ctx context.Context, h *handler, args []string, withMsg bool) (*transferArgs, error) {
	if len(args) > 0 {
		ids, err := parseAccounts(args[0], args[1])
		if err != nil {
			return nil, err
		}
		amount, err := h.ParseAmount(args[2])
		if err != nil {
			return nil, err
		}
		t := &transferArgs{sender: ids[0], receiver: ids[1], amount: amount}
		if withMsg {
			t.msg = args[3]
		}
		return t, nil
	}

	sender, err := prompt.Account("sender")
	if err != nil {
		return nil, err
	}
	balance, err := h.cli.BalanceOf(ctx, sender)
	if err != nil {
		return nil, err
	}
	utils.Outf("{{yellow}}balance:{{/}} %s\n", h.FormatAmount(balance))
	receiver, err := prompt.Account("receiver")
	if err != nil {
		return nil, err
	}
	amount, err := prompt.Amount("amount", h.decimals(), balance)
	if err != nil {
		return nil, err
	}
	t := &transferArgs{sender: sender, receiver: receiver, amount: amount}
	if withMsg {
		t.msg, err = prompt.String("msg", 0, maxMsgLen)
		if err != nil {
			return nil, err
		}
	}
	if skipConfirm {
		return t, nil
	}
	cont, err := prompt.Continue()
	if err != nil || !cont {
		return nil, err
	}
	return t, nil
}

var transferCmd = &cobra.Command{
	Use:     "transfer [sender] [receiver] [amount]",
	Short:   "Transfers tokens between registered accounts",
	PreRunE: checkTransferArgs(3),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()
		h, err := newHandler(ctx)
		if err != nil {
			return err
		}
		t, err := readTransferArgs(ctx, h, args, false)
		if err != nil || t == nil {
			return err
		}
		ctx, cancel := requestContext()
		defer cancel()
		if err := h.cli.Transfer(ctx, t.sender, t.receiver, t.amount, memoArg()); err != nil {
			return err
		}
		color.Green("transferred %s from %s to %s", h.FormatAmount(t.amount), t.sender, t.receiver)
		return nil
	},
}

var transferCallCmd = &cobra.Command{
	Use:     "transfer-call [sender] [receiver] [amount] [msg]",
	Short:   "Transfers tokens and notifies the receiver",
	PreRunE: checkTransferArgs(4),
	RunE: func(_ *cobra.Command, args []string) error {
		ctx := context.Background()
		h, err := newHandler(ctx)
		if err != nil {
			return err
		}
		t, err := readTransferArgs(ctx, h, args, true)
		if err != nil || t == nil {
			return err
		}
		ctx, cancel := requestContext()
		defer cancel()
		id, kept, err := h.cli.TransferCall(ctx, t.sender, t.receiver, t.amount, []byte(t.msg), memoArg(), wait)
		if err != nil {
			return err
		}
		if kept == nil {
			color.Green("transfer %s is pending", id)
			return nil
		}
		color.Green("transfer %s resolved: %s kept by %s", id, h.FormatAmount(*kept), t.receiver)
		return nil
	},
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "Lists notified transfers awaiting resolution",
	RunE: func(*cobra.Command, []string) error {
		ctx, cancel := requestContext()
		defer cancel()
		h, err := newHandler(ctx)
		if err != nil {
			return err
		}
		pending, err := h.cli.PendingTransfers(ctx)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			utils.Outf("{{yellow}}no pending transfers{{/}}\n")
			return nil
		}
		for _, p := range pending {
			utils.Outf(
				"{{yellow}}%s:{{/}} %s -> %s %s\n",
				p.ID,
				p.Sender,
				p.Receiver,
				h.FormatAmount(p.Amount),
			)
		}
		return nil
	},
}
