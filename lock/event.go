// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package lock

// EventKind names an event schema.
type EventKind string

const (
	KindCreated  EventKind = "lock_created"
	KindRedeemed EventKind = "lock_redeemed"
	KindRefunded EventKind = "lock_refunded"
)

// Event is emitted once per successful operation, never on failure.
type Event interface {
	Kind() EventKind
	LockID() ID
}

// Created is emitted when a lock record is published.
type Created struct {
	ID            ID      `json:"id"`
	Hashed        Digest  `json:"hashed"`
	AssetID       string  `json:"asset_id"`
	Amount        uint64  `json:"amount"`
	TargetAddress Address `json:"target_address"`
	RefundAddress Address `json:"refund_address"`
	Initiator     Address `json:"initiator"`
	Deadline      uint64  `json:"deadline"`
	Duration      uint64  `json:"duration"`
	SecretLength  uint64  `json:"secret_length"`
}

// Redeemed is emitted when a lock is claimed. It carries the revealed secret so
// the counterparty can complete the other half of the swap.
type Redeemed struct {
	ID      ID       `json:"id"`
	Secret  HexBytes `json:"secret"`
	Claimer Address  `json:"claimer"`
}

// Refunded is emitted when a lock returns its asset to the refund address.
type Refunded struct {
	ID       ID      `json:"id"`
	Refunder Address `json:"refunder"`
}

func (e *Created) Kind() EventKind  { return KindCreated }
func (e *Created) LockID() ID       { return e.ID }
func (e *Redeemed) Kind() EventKind { return KindRedeemed }
func (e *Redeemed) LockID() ID      { return e.ID }
func (e *Refunded) Kind() EventKind { return KindRefunded }
func (e *Refunded) LockID() ID      { return e.ID }
