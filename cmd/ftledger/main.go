// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// "ftledger" runs a ledger node and talks to a running one.
package main

import (
	"os"

	"github.com/ava-labs/ftledger/cmd/ftledger/cmd"
	"github.com/ava-labs/ftledger/utils"
)

func main() {
	if err := cmd.Execute(); err != nil {
		utils.Outf("{{red}}ftledger exited with error:{{/}} %+v\n", err)
		os.Exit(1)
	}
	os.Exit(0)
}
