// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package tstate

import "errors"

var (
	ErrCommitted      = errors.New("view already committed")
	ErrInvalidRestore = errors.New("invalid restore point")
	ErrUsageUnderflow = errors.New("storage usage underflow")
	ErrNilValue       = errors.New("nil value")
)
