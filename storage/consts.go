// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

const (
	// Namespace is the data directory (and metrics prefix) of the ledger
	// database.
	Namespace = "ledgerdb"

	// usagePrefix is reserved for bookkeeping and is never handed out to
	// ledger records.
	usagePrefix = 0xff
)

var usageKey = []byte{usagePrefix, 'u', 's', 'a', 'g', 'e'}
