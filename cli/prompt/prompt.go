// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package prompt reads ledger inputs interactively.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/manifoldco/promptui"

	"github.com/ava-labs/ftledger/codec"
	"github.com/ava-labs/ftledger/utils"
)

var (
	ErrInputEmpty          = errors.New("input is empty")
	ErrInputTooLarge       = errors.New("input is too large")
	ErrInvalidChoice       = errors.New("invalid choice")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// ask validates the input with [parse] on every keystroke and returns the
// parsed value of the accepted line.
func ask[T any](label string, parse func(string) (T, error)) (T, error) {
	p := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			_, err := parse(input)
			return err
		},
	}
	raw, err := p.Run()
	if err != nil {
		var zero T
		return zero, err
	}
	return parse(raw)
}

func Account(label string) (codec.AccountID, error) {
	return ask(label, parseAccount)
}

// String reads a line of [minLen, maxLen] bytes.
func String(label string, minLen int, maxLen int) (string, error) {
	return ask(label, stringParser(minLen, maxLen))
}

// Amount reads an amount with [decimals] fractional digits that does not
// exceed [balance].
func Amount(label string, decimals uint8, balance codec.Amount) (codec.Amount, error) {
	return ask(label, amountParser(decimals, balance))
}

// Continue asks for confirmation and reports whether to go ahead.
func Continue() (bool, error) {
	ok, err := ask("continue (y/n)", parseChoice)
	if err == nil && !ok {
		utils.Outf("{{red}}exiting...{{/}}\n")
	}
	return ok, err
}

func parseAccount(input string) (codec.AccountID, error) {
	return codec.ParseAccountID(strings.TrimSpace(input))
}

func stringParser(minLen int, maxLen int) func(string) (string, error) {
	return func(input string) (string, error) {
		switch {
		case len(input) < minLen:
			return "", ErrInputEmpty
		case len(input) > maxLen:
			return "", ErrInputTooLarge
		}
		return strings.TrimSpace(input), nil
	}
}

func amountParser(decimals uint8, balance codec.Amount) func(string) (codec.Amount, error) {
	return func(input string) (codec.Amount, error) {
		input = strings.TrimSpace(input)
		if len(input) == 0 {
			return codec.ZeroAmount, ErrInputEmpty
		}
		amount, err := utils.ParseBalance(input, decimals)
		if err != nil {
			return codec.ZeroAmount, err
		}
		if amount.Gt(balance) {
			return codec.ZeroAmount, fmt.Errorf("%w: %s", ErrInsufficientBalance, utils.FormatBalance(balance, decimals))
		}
		return amount, nil
	}
}

func parseChoice(input string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "":
		return false, ErrInputEmpty
	case "y":
		return true, nil
	case "n":
		return false, nil
	default:
		return false, ErrInvalidChoice
	}
}
