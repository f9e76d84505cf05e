// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package coin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    Coin
		wantErr error
	}{
		{"simple", "100utok", Coin{Denom: "utok", Amount: 100}, nil},
		{"zero", "0utok", Coin{Denom: "utok", Amount: 0}, nil},
		{"path denom", "5ibc/abc1", Coin{Denom: "ibc/abc1", Amount: 5}, nil},
		{"max", "18446744073709551615utok", Coin{Denom: "utok", Amount: math.MaxUint64}, nil},
		{"no amount", "utok", Coin{}, ErrInvalidCoin},
		{"no denom", "100", Coin{}, ErrInvalidCoin},
		{"short denom", "1ab", Coin{}, ErrInvalidCoin},
		{"upper denom", "1UTOK", Coin{}, ErrInvalidCoin},
		{"overflow", "18446744073709551616utok", Coin{}, ErrInvalidCoin},
		{"empty", "", Coin{}, ErrInvalidCoin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestValidateDenom(t *testing.T) {
	for _, d := range []string{"utok", "abc", "a1/2"} {
		assert.NoError(t, ValidateDenom(d), d)
	}
	for _, d := range []string{"", "ab", "1abc", "/abc", "ab-c", "ABC"} {
		assert.ErrorIs(t, ValidateDenom(d), ErrInvalidDenom, d)
	}
}

func TestAddSub(t *testing.T) {
	a := Coin{Denom: "utok", Amount: 70}
	b := Coin{Denom: "utok", Amount: 30}

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), sum.Amount)

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, uint64(40), diff.Amount)

	_, err = b.Sub(a)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = a.Add(Coin{Denom: "other", Amount: 1})
	assert.ErrorIs(t, err, ErrDenomMismatch)

	_, err = a.Sub(Coin{Denom: "other", Amount: 1})
	assert.ErrorIs(t, err, ErrDenomMismatch)

	_, err = Coin{Denom: "utok", Amount: math.MaxUint64}.Add(Coin{Denom: "utok", Amount: 1})
	assert.ErrorIs(t, err, ErrOverflow)
}

func TestAsset(t *testing.T) {
	c := Coin{Denom: "utok", Amount: 9}
	assert.Equal(t, uint64(9), c.Value())
	assert.Equal(t, "utok", c.AssetID())
	assert.False(t, c.IsZero())
	assert.True(t, Coin{Denom: "utok"}.IsZero())
}
