// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package ledger

import (
	"fmt"
	"sync"
	"time"
)

// Clock is the trusted time oracle. Readings are milliseconds and never
// decrease.
type Clock interface {
	NowMs() uint64
}

// SystemClock reads the wall clock. A wall clock that steps backwards is held
// at the last reading so callers still see a non-decreasing sequence.
type SystemClock struct {
	mu   sync.Mutex
	last uint64
}

// NewSystemClock creates a wall-clock oracle.
func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

// NowMs returns the current Unix time in milliseconds.
func (c *SystemClock) NowMs() uint64 {
	now := uint64(time.Now().UnixMilli())

	c.mu.Lock()
	defer c.mu.Unlock()
	if now < c.last {
		return c.last
	}
	c.last = now
	return now
}

// ManualClock is an oracle driven by explicit calls. Used by tests and by the
// CLI's --now override.
type ManualClock struct {
	mu  sync.Mutex
	now uint64
}

// NewManualClock creates a clock reading start.
func NewManualClock(start uint64) *ManualClock {
	return &ManualClock{now: start}
}

// NowMs returns the current reading.
func (c *ManualClock) NowMs() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Set moves the clock to t. Moving backwards is refused.
func (c *ManualClock) Set(t uint64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if t < c.now {
		return fmt.Errorf("%w: %d -> %d", ErrClockBackwards, c.now, t)
	}
	c.now = t
	return nil
}

// Advance moves the clock forward by d milliseconds.
func (c *ManualClock) Advance(d uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d
}
