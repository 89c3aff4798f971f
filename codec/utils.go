// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import "github.com/ava-labs/ftledger/consts"

// StringLen is the Borsh encoded size of [msg].
func StringLen(msg string) int {
	return consts.Uint32Len + len(msg)
}
