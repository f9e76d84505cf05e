// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package lock

import "errors"

var (
	// ErrSecretLengthWrong indicates the revealed secret's byte length differs
	// from the length declared at creation.
	ErrSecretLengthWrong = errors.New("lock: secret length wrong")

	// ErrSecretPreimageWrong indicates the revealed secret does not hash to the
	// record's digest.
	ErrSecretPreimageWrong = errors.New("lock: secret preimage wrong")

	// ErrRefund3rdParty indicates refund was requested by an identity that is
	// not the refund address, the target address or the initiator.
	ErrRefund3rdParty = errors.New("lock: refund by third party")

	// ErrRefundEarly indicates refund was requested at or before the deadline.
	ErrRefundEarly = errors.New("lock: refund before deadline")

	// ErrDeadlineOverflow indicates created_at + duration does not fit in 64 bits.
	ErrDeadlineOverflow = errors.New("lock: deadline overflows")

	// ErrNilRecord indicates an operation was given a nil record.
	ErrNilRecord = errors.New("lock: nil record")

	// ErrInvalidRecord indicates a decoded record violates a structural invariant.
	ErrInvalidRecord = errors.New("lock: invalid record")

	// ErrInvalidHex indicates an address, digest or id string is malformed.
	ErrInvalidHex = errors.New("lock: invalid hex value")
)

// Abort codes reported for the caller-visible failures. They are stable and
// shared with cooperating deployments.
const (
	CodeSecretLengthWrong   uint64 = 0
	CodeSecretPreimageWrong uint64 = 1
	CodeRefund3rdParty      uint64 = 2
	CodeRefundEarly         uint64 = 3
)

// Code returns the abort code of err. ok is false when err is not one of the
// four operation failures.
func Code(err error) (code uint64, ok bool) {
	switch {
	case errors.Is(err, ErrSecretLengthWrong):
		return CodeSecretLengthWrong, true
	case errors.Is(err, ErrSecretPreimageWrong):
		return CodeSecretPreimageWrong, true
	case errors.Is(err, ErrRefund3rdParty):
		return CodeRefund3rdParty, true
	case errors.Is(err, ErrRefundEarly):
		return CodeRefundEarly, true
	}
	return 0, false
}
