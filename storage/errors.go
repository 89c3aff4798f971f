// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package storage

import "errors"

var (
	ErrReservedKey    = errors.New("key uses reserved prefix")
	ErrCorruptUsage   = errors.New("corrupt usage record")
	ErrUsageUnderflow = errors.New("usage underflow")
)
