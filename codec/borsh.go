// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package codec

import (
	"bytes"
	"io"

	"github.com/near/borsh-go"
)

// Persisted records are Borsh encoded so the on-disk layout matches the
// layout the token standard was specified against.
//
// borsh-go only handles exported struct fields and encodes big.Int values as
// u128.

func Serialize[T any](value T) ([]byte, error) {
	b := &bytes.Buffer{}
	if err := SerializeTo(value, b); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func SerializeTo[T any](value T, w io.Writer) error {
	return borsh.NewEncoder(w).Encode(value)
}

func Deserialize[T any](data []byte) (*T, error) {
	result := new(T)
	if err := borsh.Deserialize(result, data); err != nil {
		return nil, err
	}
	return result, nil
}

// AccountKey returns [prefix] followed by the Borsh encoding of [id]
// (u32 little-endian length + bytes).
func AccountKey(prefix byte, id AccountID) []byte {
	k := make([]byte, 0, 1+StringLen(string(id)))
	k = append(k, prefix)
	b, _ := Serialize(string(id)) // strings never fail to encode
	return append(k, b...)
}
