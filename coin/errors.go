// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package coin

import "errors"

var (
	// ErrInvalidDenom indicates a denomination is empty or malformed.
	ErrInvalidDenom = errors.New("coin: invalid denomination")

	// ErrInvalidCoin indicates a coin string cannot be parsed.
	ErrInvalidCoin = errors.New("coin: invalid coin")

	// ErrDenomMismatch indicates arithmetic on coins of different denominations.
	ErrDenomMismatch = errors.New("coin: denomination mismatch")

	// ErrInsufficientFunds indicates a subtraction would go below zero.
	ErrInsufficientFunds = errors.New("coin: insufficient funds")

	// ErrOverflow indicates an addition does not fit in 64 bits.
	ErrOverflow = errors.New("coin: amount overflow")
)
