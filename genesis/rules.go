// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package genesis

import "github.com/ava-labs/ftledger/codec"

// DefaultStoragePricePerByte is 10^19 base units, the price NEAR charges
// for one byte of contract storage.
var DefaultStoragePricePerByte = codec.MustParseAmount("10000000000000000000")

// PriceOracle quotes the price of one byte of storage.
type PriceOracle interface {
	StoragePricePerByte() codec.Amount
}

var _ PriceOracle = (*Rules)(nil)

// Rules are the parameters the token needs from its host.
type Rules struct {
	PricePerByte codec.Amount `json:"storagePricePerByte" yaml:"storagePricePerByte"`
}

func NewDefaultRules() *Rules {
	return &Rules{PricePerByte: DefaultStoragePricePerByte}
}

func (r *Rules) StoragePricePerByte() codec.Amount {
	return r.PricePerByte
}
