// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ledger

import "github.com/ava-labs/ftledger/codec"

// Key prefixes of every record the token persists. Prefixes must be unique.
const (
	accountPrefix  byte = 0x0
	contractPrefix byte = 0x1
	metadataPrefix byte = 0x2
	pendingPrefix  byte = 0x3
)

var (
	contractKey = []byte{contractPrefix}
	metadataKey = []byte{metadataPrefix}
)

// [accountPrefix] + [borsh(AccountID)]
func AccountKey(id codec.AccountID) []byte {
	return codec.AccountKey(accountPrefix, id)
}

func ContractKey() []byte {
	return contractKey
}

func MetadataKey() []byte {
	return metadataKey
}

// [pendingPrefix] + [id]
func PendingKey(id []byte) []byte {
	k := make([]byte, 0, 1+len(id))
	k = append(k, pendingPrefix)
	return append(k, id...)
}
