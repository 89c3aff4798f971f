// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"errors"
	"fmt"
	"math/big"
	"net"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/ava-labs/avalanchego/utils/perms"
	"github.com/onsi/ginkgo/v2/formatter"

	"github.com/ava-labs/ftledger/codec"
)

var ErrInvalidBalance = errors.New("invalid balance")

func InitSubDirectory(rootPath string, name string) (string, error) {
	p := path.Join(rootPath, name)
	return p, os.MkdirAll(p, perms.ReadWriteExecute)
}

// Outputs to stdout.
//
// e.g.,
//
//	Out("{{green}}{{bold}}hi there %q{{/}}", "aa")
//	Out("{{magenta}}{{bold}}hi therea{{/}} {{cyan}}{{underline}}b{{/}}")
//
// ref.
// https://github.com/onsi/ginkgo/blob/v2.0.0/formatter/formatter.go#L52-L73
func Outf(format string, args ...interface{}) {
	s := formatter.F(format, args...)
	fmt.Fprint(formatter.ColorableStdOut, s)
}

func GetHost(uri string) (string, error) {
	purl, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	host, _, err := net.SplitHostPort(purl.Host)
	return host, err
}

func GetPort(uri string) (string, error) {
	purl, err := url.Parse(uri)
	if err != nil {
		return "", err
	}
	return purl.Port(), err
}

// FormatBalance renders [bal] base units as a decimal with [decimals]
// fractional digits.
func FormatBalance(bal codec.Amount, decimals uint8) string {
	s := bal.String()
	if decimals == 0 {
		return s
	}
	d := int(decimals)
	if len(s) <= d {
		s = strings.Repeat("0", d-len(s)+1) + s
	}
	return s[:len(s)-d] + "." + s[len(s)-d:]
}

// ParseBalance is the inverse of [FormatBalance]. Fewer fractional digits
// than [decimals] are allowed; more are rejected.
func ParseBalance(bal string, decimals uint8) (codec.Amount, error) {
	whole, frac, _ := strings.Cut(bal, ".")
	if len(whole) == 0 && len(frac) == 0 {
		return codec.ZeroAmount, fmt.Errorf("%w: empty", ErrInvalidBalance)
	}
	if len(frac) > int(decimals) {
		return codec.ZeroAmount, fmt.Errorf("%w: more than %d decimals", ErrInvalidBalance, decimals)
	}
	digits := whole + frac + strings.Repeat("0", int(decimals)-len(frac))
	for _, c := range digits {
		if c < '0' || c > '9' {
			return codec.ZeroAmount, fmt.Errorf("%w: %q", ErrInvalidBalance, bal)
		}
	}
	v, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return codec.ZeroAmount, fmt.Errorf("%w: %q", ErrInvalidBalance, bal)
	}
	return codec.AmountFromBig(v)
}
