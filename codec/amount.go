// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"strconv"

	"github.com/holiman/uint256"

	"github.com/ava-labs/ftledger/consts"
)

const amountBits = 128

// Amount is an unsigned 128-bit token quantity. It is backed by a 256-bit
// word and every arithmetic result is checked against the 128-bit range, so
// neither negative values nor values wider than u128 can be produced.
type Amount uint256.Int

var (
	ZeroAmount = Amount{}
	MaxAmount  = Amount{consts.MaxUint64, consts.MaxUint64}
)

func NewAmount(v uint64) Amount {
	return Amount{v}
}

// ParseAmount parses a base-10 string.
func ParseAmount(s string) (Amount, error) {
	var z uint256.Int
	if err := z.SetFromDecimal(s); err != nil {
		return ZeroAmount, fmt.Errorf("%w: %q: %w", ErrInvalidAmount, s, err)
	}
	if z.BitLen() > amountBits {
		return ZeroAmount, fmt.Errorf("%w: %s", ErrAmountOverflow, s)
	}
	return Amount(z), nil
}

// MustParseAmount is like ParseAmount but panics on error. Only use it with
// constants.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a *Amount) u() *uint256.Int {
	return (*uint256.Int)(a)
}

func (a Amount) IsZero() bool {
	return a.u().IsZero()
}

func (a Amount) Cmp(b Amount) int {
	return a.u().Cmp(b.u())
}

func (a Amount) Lt(b Amount) bool {
	return a.u().Lt(b.u())
}

func (a Amount) Gt(b Amount) bool {
	return a.u().Gt(b.u())
}

// Add returns a+b or ErrAmountOverflow.
func (a Amount) Add(b Amount) (Amount, error) {
	var z uint256.Int
	if _, overflow := z.AddOverflow(a.u(), b.u()); overflow || z.BitLen() > amountBits {
		return ZeroAmount, fmt.Errorf("%w: %s + %s", ErrAmountOverflow, a, b)
	}
	return Amount(z), nil
}

// Sub returns a-b or ErrAmountUnderflow.
func (a Amount) Sub(b Amount) (Amount, error) {
	var z uint256.Int
	if _, underflow := z.SubOverflow(a.u(), b.u()); underflow {
		return ZeroAmount, fmt.Errorf("%w: %s - %s", ErrAmountUnderflow, a, b)
	}
	return Amount(z), nil
}

// Mul returns a*b or ErrAmountOverflow.
func (a Amount) Mul(b Amount) (Amount, error) {
	var z uint256.Int
	if _, overflow := z.MulOverflow(a.u(), b.u()); overflow || z.BitLen() > amountBits {
		return ZeroAmount, fmt.Errorf("%w: %s * %s", ErrAmountOverflow, a, b)
	}
	return Amount(z), nil
}

func MinAmount(a, b Amount) Amount {
	if a.Lt(b) {
		return a
	}
	return b
}

// String returns the base-10 representation.
func (a Amount) String() string {
	return a.u().Dec()
}

// Big returns a copy of a as a big.Int.
func (a Amount) Big() *big.Int {
	return a.u().ToBig()
}

func AmountFromBig(b *big.Int) (Amount, error) {
	if b.Sign() < 0 {
		return ZeroAmount, fmt.Errorf("%w: %s", ErrAmountUnderflow, b)
	}
	if b.BitLen() > amountBits {
		return ZeroAmount, fmt.Errorf("%w: %s", ErrAmountOverflow, b)
	}
	z, _ := uint256.FromBig(b)
	return Amount(*z), nil
}

// Bytes returns the 16-byte little-endian encoding of a.
func (a Amount) Bytes() []byte {
	b := make([]byte, consts.Uint128Len)
	binary.LittleEndian.PutUint64(b, a[0])
	binary.LittleEndian.PutUint64(b[consts.Uint64Len:], a[1])
	return b
}

func AmountFromBytes(b []byte) (Amount, error) {
	if len(b) != consts.Uint128Len {
		return ZeroAmount, fmt.Errorf("%w: amount has %d bytes", ErrInsufficientLength, len(b))
	}
	return Amount{
		binary.LittleEndian.Uint64(b),
		binary.LittleEndian.Uint64(b[consts.Uint64Len:]),
	}, nil
}

// MarshalJSON encodes a as a quoted decimal string so that values above
// 2^53 survive JSON consumers.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(a.String())), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	s := string(b)
	if unquoted, err := strconv.Unquote(s); err == nil {
		s = unquoted
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// MarshalYAML and UnmarshalYAML let genesis files carry amounts as strings.
func (a Amount) MarshalYAML() (interface{}, error) {
	return a.String(), nil
}

func (a *Amount) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
