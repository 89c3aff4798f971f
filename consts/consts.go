// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package consts

import "github.com/ava-labs/avalanchego/version"

const (
	Name = "ftledger"

	// FTMetadataSpec is the only metadata spec version accepted at genesis.
	FTMetadataSpec = "ft-1.0.0"

	// NEP-297 event envelope
	EventStandard = "nep141"
	EventVersion  = "1.0.0"

	MinAccountIDLen = 2
	MaxAccountIDLen = 64

	// LongestAccountIDChar fills the synthetic identifier used to measure the
	// worst-case footprint of an account record.
	LongestAccountIDChar = 'a'

	ByteLen    = 1
	Uint32Len  = 4
	Uint64Len  = 8
	Uint128Len = 16
	IDLen      = 32

	MaxUint64 = ^uint64(0)
)

var Version = &version.Semantic{
	Major: 0,
	Minor: 1,
	Patch: 0,
}
