// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package lock

import "fmt"

// Release is the outcome of a successful redeem or refund: the whole escrowed
// asset goes to To, Event is appended, and the record must be deleted in the
// same atomic unit.
type Release[T Asset] struct {
	LockID ID
	To     Address
	Asset  T
	Event  Event
}

// Redeem checks a revealed secret against the record. Any caller may redeem;
// knowing the secret is the only authorization. On success the asset is
// released to the target address.
func (r *Record[T]) Redeem(secret []byte, caller Address) (*Release[T], error) {
	if r == nil {
		return nil, ErrNilRecord
	}
	if uint64(len(secret)) != r.SecretLength {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrSecretLengthWrong, len(secret), r.SecretLength)
	}
	if !r.Hashed.Matches(secret) {
		return nil, ErrSecretPreimageWrong
	}

	revealed := make(HexBytes, len(secret))
	copy(revealed, secret)
	return &Release[T]{
		LockID: r.ID,
		To:     r.TargetAddress,
		Asset:  r.Asset,
		Event:  &Redeemed{ID: r.ID, Secret: revealed, Claimer: caller},
	}, nil
}

// Refund returns the asset to the refund address once the deadline has
// strictly elapsed. Only the three parties named in the record may trigger it.
func (r *Record[T]) Refund(now uint64, caller Address) (*Release[T], error) {
	if r == nil {
		return nil, ErrNilRecord
	}
	if !r.IsParty(caller) {
		return nil, ErrRefund3rdParty
	}
	if !r.Expired(now) {
		return nil, fmt.Errorf("%w: now %d, deadline %d", ErrRefundEarly, now, r.Deadline)
	}

	return &Release[T]{
		LockID: r.ID,
		To:     r.RefundAddress,
		Asset:  r.Asset,
		Event:  &Refunded{ID: r.ID, Refunder: caller},
	}, nil
}
