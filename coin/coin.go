// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package coin defines the fungible asset escrowed by the ledger.
package coin

import (
	"fmt"
	"math/bits"
	"strconv"
)

const (
	minDenomLen = 3
	maxDenomLen = 64
)

// Coin is an amount of a single denomination. A zero amount is a valid coin.
type Coin struct {
	Denom  string `json:"denom"`
	Amount uint64 `json:"amount"`
}

// New returns a coin after validating the denomination.
func New(denom string, amount uint64) (Coin, error) {
	if err := ValidateDenom(denom); err != nil {
		return Coin{}, err
	}
	return Coin{Denom: denom, Amount: amount}, nil
}

// Value implements lock.Asset.
func (c Coin) Value() uint64 { return c.Amount }

// AssetID implements lock.Asset; a coin is identified by its denomination.
func (c Coin) AssetID() string { return c.Denom }

// IsZero reports whether the coin holds nothing.
func (c Coin) IsZero() bool { return c.Amount == 0 }

// String renders the coin as "<amount><denom>", e.g. "100utok".
func (c Coin) String() string { return strconv.FormatUint(c.Amount, 10) + c.Denom }

// Add returns c + o.
func (c Coin) Add(o Coin) (Coin, error) {
	if c.Denom != o.Denom {
		return Coin{}, fmt.Errorf("%w: %s and %s", ErrDenomMismatch, c.Denom, o.Denom)
	}
	sum, carry := bits.Add64(c.Amount, o.Amount, 0)
	if carry != 0 {
		return Coin{}, fmt.Errorf("%w: %s + %s", ErrOverflow, c, o)
	}
	return Coin{Denom: c.Denom, Amount: sum}, nil
}

// Sub returns c - o.
func (c Coin) Sub(o Coin) (Coin, error) {
	if c.Denom != o.Denom {
		return Coin{}, fmt.Errorf("%w: %s and %s", ErrDenomMismatch, c.Denom, o.Denom)
	}
	if o.Amount > c.Amount {
		return Coin{}, fmt.Errorf("%w: have %s, need %s", ErrInsufficientFunds, c, o)
	}
	return Coin{Denom: c.Denom, Amount: c.Amount - o.Amount}, nil
}

// Parse parses "<amount><denom>", e.g. "250utok". The amount may be zero.
func Parse(s string) (Coin, error) {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 {
		return Coin{}, fmt.Errorf("%w: %q has no amount", ErrInvalidCoin, s)
	}
	amount, err := strconv.ParseUint(s[:i], 10, 64)
	if err != nil {
		return Coin{}, fmt.Errorf("%w: %q: %w", ErrInvalidCoin, s, err)
	}
	c, err := New(s[i:], amount)
	if err != nil {
		return Coin{}, fmt.Errorf("%w: %q: %w", ErrInvalidCoin, s, err)
	}
	return c, nil
}

// ValidateDenom checks that d is 3-64 characters, starts with a lowercase
// letter and otherwise contains only lowercase letters, digits and '/'.
func ValidateDenom(d string) error {
	if len(d) < minDenomLen || len(d) > maxDenomLen {
		return fmt.Errorf("%w: %q must be %d-%d characters", ErrInvalidDenom, d, minDenomLen, maxDenomLen)
	}
	for i := 0; i < len(d); i++ {
		ch := d[i]
		switch {
		case ch >= 'a' && ch <= 'z':
		case i > 0 && (ch >= '0' && ch <= '9' || ch == '/'):
		default:
			return fmt.Errorf("%w: %q has invalid character at %d", ErrInvalidDenom, d, i)
		}
	}
	return nil
}
