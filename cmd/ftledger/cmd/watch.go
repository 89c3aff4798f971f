// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ava-labs/ftledger/event"
	"github.com/ava-labs/ftledger/pubsub"
	"github.com/ava-labs/ftledger/rpc"
	"github.com/ava-labs/ftledger/utils"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Streams token events",
	RunE: func(*cobra.Command, []string) error {
		ctx, cancel := requestContext()
		h, err := newHandler(ctx)
		cancel()
		if err != nil {
			return err
		}
		cli, err := rpc.NewWebSocketClient(uri, pubsub.NewDefaultServerConfig().MaxWriteMessageSize)
		if err != nil {
			return err
		}
		if err := cli.Subscribe(since); err != nil {
			_ = cli.Close()
			return err
		}
		utils.Outf("{{green}}watching events on:{{/}} %s\n", uri)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		go func() {
			<-ctx.Done()
			_ = cli.Close()
		}()
		for {
			seq, e, err := cli.ListenEvent()
			if err != nil {
				if errors.Is(err, rpc.ErrClosed) {
					return nil
				}
				return err
			}
			printEvent(h, seq, e)
		}
	},
}

func printEvent(h *handler, seq uint64, e event.Event) {
	memo := ""
	if e.Memo != nil {
		memo = *e.Memo
	}
	accounts := make([]string, len(e.Accounts))
	for i, account := range e.Accounts {
		accounts[i] = account.String()
	}
	amount := ""
	if len(e.Amounts) > 0 {
		amount = h.FormatAmount(e.Amounts[0])
	}
	utils.Outf(
		"{{blue}}%d{{/}} {{yellow}}%s{{/}} %s %s {{cyan}}%s{{/}}\n",
		seq,
		e.Kind,
		strings.Join(accounts, " -> "),
		amount,
		memo,
	)
}
