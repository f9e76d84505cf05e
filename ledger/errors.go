// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package ledger

import "errors"

var (
	// ErrLockNotFound indicates no lock record exists for the identity. A lock
	// that has been redeemed or refunded is reported this way.
	ErrLockNotFound = errors.New("ledger: lock not found")

	// ErrDuplicateLock indicates a record with this identity already exists.
	ErrDuplicateLock = errors.New("ledger: duplicate lock")

	// ErrReadOnly indicates a write was attempted inside a read-only transaction.
	ErrReadOnly = errors.New("ledger: read-only transaction")

	// ErrClockBackwards indicates an attempt to move an oracle clock backwards.
	ErrClockBackwards = errors.New("ledger: clock moved backwards")

	// ErrInvalidEvent indicates a stored event cannot be decoded.
	ErrInvalidEvent = errors.New("ledger: invalid event")

	// ErrNilParam indicates a required parameter is nil.
	ErrNilParam = errors.New("ledger: required parameter is nil")
)
