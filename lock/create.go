// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package lock

import (
	"fmt"
	"math/bits"
)

const (
	// DefaultDuration24h is the 24 hour convenience duration in milliseconds.
	DefaultDuration24h uint64 = 24 * 60 * 60 * 1000

	// DefaultDuration48h is the 48 hour convenience duration in milliseconds.
	DefaultDuration48h uint64 = 48 * 60 * 60 * 1000
)

// CreateParams holds the caller-supplied parts of a new lock.
type CreateParams[T Asset] struct {
	Duration      uint64 // ms added to the oracle time; 0 means refundable right away
	Hashed        Digest
	TargetAddress Address
	RefundAddress Address
	Asset         T // any amount, including zero
	SecretLength  uint64
}

// New builds a lock record and its creation event. now is the oracle reading
// and caller becomes the initiator. The host supplies a fresh id and publishes
// the record as a shared object.
func New[T Asset](id ID, now uint64, p CreateParams[T], caller Address) (*Record[T], *Created, error) {
	deadline, carry := bits.Add64(now, p.Duration, 0)
	if carry != 0 {
		return nil, nil, fmt.Errorf("%w: now %d + duration %d", ErrDeadlineOverflow, now, p.Duration)
	}

	rec := &Record[T]{
		ID:            id,
		CreatedAt:     now,
		Deadline:      deadline,
		Hashed:        p.Hashed,
		RefundAddress: p.RefundAddress,
		TargetAddress: p.TargetAddress,
		Initiator:     caller,
		SecretLength:  p.SecretLength,
		Asset:         p.Asset,
	}
	ev := &Created{
		ID:            id,
		Hashed:        p.Hashed,
		AssetID:       p.Asset.AssetID(),
		Amount:        p.Asset.Value(),
		TargetAddress: p.TargetAddress,
		RefundAddress: p.RefundAddress,
		Initiator:     caller,
		Deadline:      deadline,
		Duration:      p.Duration,
		SecretLength:  p.SecretLength,
	}
	return rec, ev, nil
}
