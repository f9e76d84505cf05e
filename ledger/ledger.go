// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package ledger

import (
	"bytes"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/bitfsorg/libhtlc-go/coin"
	"github.com/bitfsorg/libhtlc-go/lock"
)

// Ledger executes lock operations. Each operation is one backend transaction:
// it either applies validation, asset movement, record creation or deletion
// and the event append together, or changes nothing.
type Ledger struct {
	backend Backend
	clock   Clock
	log     *zap.Logger

	mu      sync.Mutex
	subs    map[int]chan EventRecord
	nextSub int
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLogger sets the logger for committed operations and dropped deliveries.
func WithLogger(log *zap.Logger) Option {
	return func(l *Ledger) {
		if log != nil {
			l.log = log
		}
	}
}

// New creates a ledger over backend, reading time from clock.
func New(backend Backend, clock Clock, opts ...Option) *Ledger {
	l := &Ledger{
		backend: backend,
		clock:   clock,
		log:     zap.NewNop(),
		subs:    make(map[int]chan EventRecord),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CreateRequest holds the inputs of a lock creation. The Amount is taken from
// the caller's balance and held by the lock.
type CreateRequest struct {
	Duration      uint64 // ms
	Hashed        lock.Digest
	TargetAddress lock.Address
	RefundAddress lock.Address
	Amount        coin.Coin
	SecretLength  uint64
}

// CreateLock publishes a new lock funded by caller and returns its identity.
func (l *Ledger) CreateLock(caller lock.Address, req CreateRequest) (lock.ID, error) {
	if err := coin.ValidateDenom(req.Amount.Denom); err != nil {
		return lock.ID{}, err
	}

	var (
		id    lock.ID
		rec   *Lock
		event *EventRecord
	)
	err := l.backend.Update(func(tx Tx) error {
		now := l.clock.NowMs()

		if err := debit(tx, caller, req.Amount); err != nil {
			return err
		}
		nonce, err := tx.NextNonce()
		if err != nil {
			return err
		}
		id = deriveLockID(caller, now, nonce)

		var created *lock.Created
		rec, created, err = lock.New(id, now, lock.CreateParams[coin.Coin]{
			Duration:      req.Duration,
			Hashed:        req.Hashed,
			TargetAddress: req.TargetAddress,
			RefundAddress: req.RefundAddress,
			Asset:         req.Amount,
			SecretLength:  req.SecretLength,
		}, caller)
		if err != nil {
			return err
		}
		if err := tx.PutLock(rec); err != nil {
			return err
		}
		event, err = appendEvent(tx, created)
		return err
	})
	if err != nil {
		return lock.ID{}, err
	}

	l.log.Info("lock created",
		zap.Stringer("id", id),
		zap.Stringer("initiator", caller),
		zap.Stringer("amount", req.Amount),
		zap.Uint64("deadline", rec.Deadline))
	l.publish(*event)
	return id, nil
}

// CreateLockDefault24h is CreateLock with a 24 hour duration.
func (l *Ledger) CreateLockDefault24h(caller lock.Address, req CreateRequest) (lock.ID, error) {
	req.Duration = lock.DefaultDuration24h
	return l.CreateLock(caller, req)
}

// CreateLockDefault48h is CreateLock with a 48 hour duration.
func (l *Ledger) CreateLockDefault48h(caller lock.Address, req CreateRequest) (lock.ID, error) {
	req.Duration = lock.DefaultDuration48h
	return l.CreateLock(caller, req)
}

// Redeem releases the lock to its target address if secret is its preimage.
// A failed attempt leaves the lock in place.
func (l *Ledger) Redeem(caller lock.Address, id lock.ID, secret []byte) error {
	var event *EventRecord
	err := l.backend.Update(func(tx Tx) error {
		rec, err := tx.GetLock(id)
		if err != nil {
			return err
		}
		rel, err := rec.Redeem(secret, caller)
		if err != nil {
			return fmt.Errorf("redeem %s: %w", id, err)
		}
		event, err = settle(tx, rel)
		return err
	})
	if err != nil {
		return err
	}

	l.log.Info("lock redeemed", zap.Stringer("id", id), zap.Stringer("claimer", caller))
	l.publish(*event)
	return nil
}

// Refund returns the lock's asset to its refund address once the deadline has
// passed. Only the initiator, refund address or target address may call it.
func (l *Ledger) Refund(caller lock.Address, id lock.ID) error {
	var event *EventRecord
	err := l.backend.Update(func(tx Tx) error {
		rec, err := tx.GetLock(id)
		if err != nil {
			return err
		}
		rel, err := rec.Refund(l.clock.NowMs(), caller)
		if err != nil {
			return fmt.Errorf("refund %s: %w", id, err)
		}
		event, err = settle(tx, rel)
		return err
	})
	if err != nil {
		return err
	}

	l.log.Info("lock refunded", zap.Stringer("id", id), zap.Stringer("refunder", caller))
	l.publish(*event)
	return nil
}

// settle applies a release: delete the record, pay the recipient, log the event.
func settle(tx Tx, rel *lock.Release[coin.Coin]) (*EventRecord, error) {
	if err := tx.DeleteLock(rel.LockID); err != nil {
		return nil, err
	}
	if err := credit(tx, rel.To, rel.Asset); err != nil {
		return nil, err
	}
	return appendEvent(tx, rel.Event)
}

func appendEvent(tx Tx, ev lock.Event) (*EventRecord, error) {
	rec, err := NewEventRecord(ev)
	if err != nil {
		return nil, err
	}
	if err := tx.AppendEvent(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func debit(tx Tx, owner lock.Address, c coin.Coin) error {
	bal, err := tx.Balance(owner, c.Denom)
	if err != nil {
		return err
	}
	left, err := coin.Coin{Denom: c.Denom, Amount: bal}.Sub(c)
	if err != nil {
		return fmt.Errorf("debit %s: %w", owner, err)
	}
	return tx.SetBalance(owner, c.Denom, left.Amount)
}

func credit(tx Tx, owner lock.Address, c coin.Coin) error {
	bal, err := tx.Balance(owner, c.Denom)
	if err != nil {
		return err
	}
	sum, err := coin.Coin{Denom: c.Denom, Amount: bal}.Add(c)
	if err != nil {
		return fmt.Errorf("credit %s: %w", owner, err)
	}
	return tx.SetBalance(owner, c.Denom, sum.Amount)
}

// Mint credits c to an account. It stands in for however assets enter the
// host ledger and emits no lock event.
func (l *Ledger) Mint(to lock.Address, c coin.Coin) error {
	if err := coin.ValidateDenom(c.Denom); err != nil {
		return err
	}
	if err := l.backend.Update(func(tx Tx) error { return credit(tx, to, c) }); err != nil {
		return err
	}
	l.log.Debug("minted", zap.Stringer("to", to), zap.Stringer("coin", c))
	return nil
}

// Balance returns the coins of denom held by owner.
func (l *Ledger) Balance(owner lock.Address, denom string) (coin.Coin, error) {
	var amount uint64
	err := l.backend.View(func(tx Tx) error {
		var err error
		amount, err = tx.Balance(owner, denom)
		return err
	})
	if err != nil {
		return coin.Coin{}, err
	}
	return coin.Coin{Denom: denom, Amount: amount}, nil
}

// Lock returns the live record for id, or ErrLockNotFound once it has been
// redeemed or refunded.
func (l *Ledger) Lock(id lock.ID) (*Lock, error) {
	var rec *Lock
	err := l.backend.View(func(tx Tx) error {
		var err error
		rec, err = tx.GetLock(id)
		return err
	})
	return rec, err
}

// Locks returns every live record ordered by deadline, then identity.
func (l *Ledger) Locks() ([]*Lock, error) {
	var recs []*Lock
	err := l.backend.View(func(tx Tx) error {
		return tx.ForEachLock(func(rec *Lock) error {
			recs = append(recs, rec)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].Deadline != recs[j].Deadline {
			return recs[i].Deadline < recs[j].Deadline
		}
		return bytes.Compare(recs[i].ID[:], recs[j].ID[:]) < 0
	})
	return recs, nil
}

// Events returns up to limit committed events starting at sequence from.
func (l *Ledger) Events(from uint64, limit int) ([]EventRecord, error) {
	var out []EventRecord
	err := l.backend.View(func(tx Tx) error {
		var err error
		out, err = tx.Events(from, limit)
		return err
	})
	return out, err
}

// Now returns the oracle reading.
func (l *Ledger) Now() uint64 { return l.clock.NowMs() }
