// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package ledger is the host world around the lock engine: an atomic
// transaction boundary over the shared lock store, account balances for the
// escrowed coins, the append-only event log and the time oracle.
package ledger

import (
	"encoding/json"
	"fmt"

	"github.com/bitfsorg/libhtlc-go/coin"
	"github.com/bitfsorg/libhtlc-go/lock"
)

// Lock is the record type the ledger stores.
type Lock = lock.Record[coin.Coin]

// Backend runs transactions against persistent state.
type Backend interface {
	// Update runs fn in a read-write transaction. Every change fn makes is
	// committed together when it returns nil and discarded otherwise.
	Update(fn func(Tx) error) error

	// View runs fn in a read-only transaction.
	View(fn func(Tx) error) error

	// Close releases the backend.
	Close() error
}

// Tx is the state visible inside one transaction.
type Tx interface {
	// GetLock returns the record for id, or ErrLockNotFound.
	GetLock(id lock.ID) (*Lock, error)

	// PutLock stores a new record. Returns ErrDuplicateLock if id is taken.
	PutLock(rec *Lock) error

	// DeleteLock removes a record, or returns ErrLockNotFound.
	DeleteLock(id lock.ID) error

	// ForEachLock calls fn for every stored record.
	ForEachLock(fn func(*Lock) error) error

	// Balance returns the amount of denom held by owner.
	Balance(owner lock.Address, denom string) (uint64, error)

	// SetBalance overwrites the amount of denom held by owner.
	SetBalance(owner lock.Address, denom string, amount uint64) error

	// AppendEvent assigns the next sequence number to rec and appends it.
	AppendEvent(rec *EventRecord) error

	// Events returns up to limit events with Seq >= from, in order. A limit of
	// zero or less means no limit.
	Events(from uint64, limit int) ([]EventRecord, error)

	// NextNonce returns a value never returned before by this backend.
	NextNonce() (uint64, error)
}

// EventRecord is one entry of the event log.
type EventRecord struct {
	Seq    uint64          `json:"seq"`
	Kind   lock.EventKind  `json:"kind"`
	LockID lock.ID         `json:"lock_id"`
	Data   json.RawMessage `json:"data"`
}

// NewEventRecord wraps an engine event for the log. Seq is assigned on append.
func NewEventRecord(ev lock.Event) (*EventRecord, error) {
	if ev == nil {
		return nil, fmt.Errorf("%w: event", ErrNilParam)
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("ledger: encode %s event: %w", ev.Kind(), err)
	}
	return &EventRecord{Kind: ev.Kind(), LockID: ev.LockID(), Data: data}, nil
}

// Decode returns the typed engine event.
func (r EventRecord) Decode() (lock.Event, error) {
	var ev lock.Event
	switch r.Kind {
	case lock.KindCreated:
		ev = &lock.Created{}
	case lock.KindRedeemed:
		ev = &lock.Redeemed{}
	case lock.KindRefunded:
		ev = &lock.Refunded{}
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidEvent, r.Kind)
	}
	if err := json.Unmarshal(r.Data, ev); err != nil {
		return nil, fmt.Errorf("%w: %s #%d: %w", ErrInvalidEvent, r.Kind, r.Seq, err)
	}
	return ev, nil
}
