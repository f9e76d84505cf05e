// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualClock(t *testing.T) {
	c := NewManualClock(100)
	assert.Equal(t, uint64(100), c.NowMs())

	c.Advance(50)
	assert.Equal(t, uint64(150), c.NowMs())

	require.NoError(t, c.Set(150))
	require.NoError(t, c.Set(200))
	assert.Equal(t, uint64(200), c.NowMs())

	err := c.Set(199)
	assert.ErrorIs(t, err, ErrClockBackwards)
	assert.Equal(t, uint64(200), c.NowMs())
}

func TestSystemClock_NonDecreasing(t *testing.T) {
	c := NewSystemClock()
	prev := c.NowMs()
	assert.NotZero(t, prev)
	for i := 0; i < 1000; i++ {
		now := c.NowMs()
		assert.GreaterOrEqual(t, now, prev)
		prev = now
	}
}

func TestSystemClock_HoldsOnStepBack(t *testing.T) {
	c := NewSystemClock()
	future := c.NowMs() + 3_600_000
	c.last = future
	assert.Equal(t, future, c.NowMs())
}
