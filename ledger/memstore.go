// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package ledger

import (
	"fmt"
	"sync"

	"github.com/bitfsorg/libhtlc-go/lock"
)

type balanceKey struct {
	owner lock.Address
	denom string
}

type memState struct {
	locks    map[lock.ID]Lock
	balances map[balanceKey]uint64
	events   []EventRecord
	nonce    uint64
}

func (s *memState) clone() *memState {
	c := &memState{
		locks:    make(map[lock.ID]Lock, len(s.locks)),
		balances: make(map[balanceKey]uint64, len(s.balances)),
		// Capping capacity makes appends copy instead of writing into the
		// committed backing array.
		events: s.events[:len(s.events):len(s.events)],
		nonce:  s.nonce,
	}
	for k, v := range s.locks {
		c.locks[k] = v
	}
	for k, v := range s.balances {
		c.balances[k] = v
	}
	return c
}

// MemBackend is an in-memory Backend. Update works on a copy of the state that
// replaces the committed state only when the callback succeeds.
type MemBackend struct {
	mu sync.RWMutex
	st *memState
}

// Compile-time interface check.
var _ Backend = (*MemBackend)(nil)

// NewMemBackend creates an empty in-memory backend.
func NewMemBackend() *MemBackend {
	return &MemBackend{st: &memState{
		locks:    make(map[lock.ID]Lock),
		balances: make(map[balanceKey]uint64),
	}}
}

// Update runs fn against a private copy and commits it if fn returns nil.
func (m *MemBackend) Update(fn func(Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	staged := m.st.clone()
	if err := fn(&memTx{st: staged, writable: true}); err != nil {
		return err
	}
	m.st = staged
	return nil
}

// View runs fn against the committed state.
func (m *MemBackend) View(fn func(Tx) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return fn(&memTx{st: m.st})
}

// Close is a no-op.
func (m *MemBackend) Close() error { return nil }

type memTx struct {
	st       *memState
	writable bool
}

func (t *memTx) GetLock(id lock.ID) (*Lock, error) {
	rec, ok := t.st.locks[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLockNotFound, id)
	}
	return &rec, nil
}

func (t *memTx) PutLock(rec *Lock) error {
	if !t.writable {
		return ErrReadOnly
	}
	if rec == nil {
		return fmt.Errorf("%w: lock record", ErrNilParam)
	}
	if _, exists := t.st.locks[rec.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateLock, rec.ID)
	}
	t.st.locks[rec.ID] = *rec
	return nil
}

func (t *memTx) DeleteLock(id lock.ID) error {
	if !t.writable {
		return ErrReadOnly
	}
	if _, ok := t.st.locks[id]; !ok {
		return fmt.Errorf("%w: %s", ErrLockNotFound, id)
	}
	delete(t.st.locks, id)
	return nil
}

func (t *memTx) ForEachLock(fn func(*Lock) error) error {
	for _, rec := range t.st.locks {
		rec := rec // per-iteration copy; go directive predates Go 1.22 loopvar semantics
		if err := fn(&rec); err != nil {
			return err
		}
	}
	return nil
}

func (t *memTx) Balance(owner lock.Address, denom string) (uint64, error) {
	return t.st.balances[balanceKey{owner: owner, denom: denom}], nil
}

func (t *memTx) SetBalance(owner lock.Address, denom string, amount uint64) error {
	if !t.writable {
		return ErrReadOnly
	}
	key := balanceKey{owner: owner, denom: denom}
	if amount == 0 {
		delete(t.st.balances, key)
		return nil
	}
	t.st.balances[key] = amount
	return nil
}

func (t *memTx) AppendEvent(rec *EventRecord) error {
	if !t.writable {
		return ErrReadOnly
	}
	if rec == nil {
		return fmt.Errorf("%w: event record", ErrNilParam)
	}
	rec.Seq = uint64(len(t.st.events)) + 1
	t.st.events = append(t.st.events, *rec)
	return nil
}

func (t *memTx) Events(from uint64, limit int) ([]EventRecord, error) {
	if from == 0 {
		from = 1
	}
	var out []EventRecord
	for i := from - 1; i < uint64(len(t.st.events)); i++ {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, t.st.events[i])
	}
	return out, nil
}

func (t *memTx) NextNonce() (uint64, error) {
	if !t.writable {
		return 0, ErrReadOnly
	}
	t.st.nonce++
	return t.st.nonce, nil
}
