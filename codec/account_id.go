// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"fmt"

	"github.com/ava-labs/ftledger/consts"
)

// AccountID is an opaque, case-sensitive account identifier. Identifiers are
// compared byte-for-byte and never normalized.
type AccountID string

// Verify returns an error if the identifier is outside of the permitted
// length bounds.
func (a AccountID) Verify() error {
	if l := len(a); l < consts.MinAccountIDLen || l > consts.MaxAccountIDLen {
		return fmt.Errorf(
			"%w: length %d not in [%d, %d]",
			ErrInvalidAccountID,
			l,
			consts.MinAccountIDLen,
			consts.MaxAccountIDLen,
		)
	}
	return nil
}

func (a AccountID) String() string {
	return string(a)
}

// ParseAccountID returns [s] as an AccountID if it is valid.
func ParseAccountID(s string) (AccountID, error) {
	id := AccountID(s)
	return id, id.Verify()
}
