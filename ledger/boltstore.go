// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package ledger

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"

	"github.com/bitfsorg/libhtlc-go/lock"
)

var (
	bucketLocks    = []byte("locks")
	bucketBalances = []byte("balances")
	bucketEvents   = []byte("events")
	bucketMeta     = []byte("meta")

	keyNonce = []byte("nonce")
)

// BoltBackend persists ledger state in a bbolt database. Each Update is one
// bbolt read-write transaction, so a failing callback leaves no trace.
type BoltBackend struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Backend = (*BoltBackend)(nil)

// OpenBoltBackend opens or creates the database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltBackend(dbPath string) (*BoltBackend, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("ledger: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("ledger: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketLocks, bucketBalances, bucketEvents, bucketMeta} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("boltstore: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ledger: create buckets: %w", err)
	}

	return &BoltBackend{db: db}, nil
}

// Update runs fn in a bbolt read-write transaction.
func (b *BoltBackend) Update(fn func(Tx) error) error {
	return b.db.Update(func(btx *bbolt.Tx) error {
		return fn(&boltTx{tx: btx})
	})
}

// View runs fn in a bbolt read-only transaction.
func (b *BoltBackend) View(fn func(Tx) error) error {
	return b.db.View(func(btx *bbolt.Tx) error {
		return fn(&boltTx{tx: btx})
	})
}

// Close closes the underlying database.
func (b *BoltBackend) Close() error { return b.db.Close() }

// seqKey encodes a sequence number as an 8-byte big-endian key for sorted storage.
func seqKey(n uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, n)
	return k
}

// boltBalanceKey concatenates owner and denom. Owners are fixed length so the
// split is unambiguous.
func boltBalanceKey(owner lock.Address, denom string) []byte {
	k := make([]byte, 0, lock.AddressLen+len(denom))
	k = append(k, owner[:]...)
	return append(k, denom...)
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}

type boltTx struct {
	tx *bbolt.Tx
}

func (t *boltTx) writable() error {
	if !t.tx.Writable() {
		return ErrReadOnly
	}
	return nil
}

func decodeLock(data []byte) (*Lock, error) {
	var rec Lock
	if err := decodeGob(data, &rec); err != nil {
		return nil, fmt.Errorf("boltstore: decode lock: %w", err)
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("boltstore: stored lock %s: %w", rec.ID, err)
	}
	return &rec, nil
}

func (t *boltTx) GetLock(id lock.ID) (*Lock, error) {
	data := t.tx.Bucket(bucketLocks).Get(id[:])
	if data == nil {
		return nil, fmt.Errorf("%w: %s", ErrLockNotFound, id)
	}
	return decodeLock(data)
}

func (t *boltTx) PutLock(rec *Lock) error {
	if err := t.writable(); err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("%w: lock record", ErrNilParam)
	}
	b := t.tx.Bucket(bucketLocks)
	if b.Get(rec.ID[:]) != nil {
		return fmt.Errorf("%w: %s", ErrDuplicateLock, rec.ID)
	}
	data, err := encodeGob(rec)
	if err != nil {
		return fmt.Errorf("encode lock: %w", err)
	}
	if err := b.Put(rec.ID[:], data); err != nil {
		return fmt.Errorf("boltstore: put lock: %w", err)
	}
	return nil
}

func (t *boltTx) DeleteLock(id lock.ID) error {
	if err := t.writable(); err != nil {
		return err
	}
	b := t.tx.Bucket(bucketLocks)
	if b.Get(id[:]) == nil {
		return fmt.Errorf("%w: %s", ErrLockNotFound, id)
	}
	if err := b.Delete(id[:]); err != nil {
		return fmt.Errorf("boltstore: delete lock: %w", err)
	}
	return nil
}

func (t *boltTx) ForEachLock(fn func(*Lock) error) error {
	return t.tx.Bucket(bucketLocks).ForEach(func(_, v []byte) error {
		rec, err := decodeLock(v)
		if err != nil {
			return err
		}
		return fn(rec)
	})
}

func (t *boltTx) Balance(owner lock.Address, denom string) (uint64, error) {
	data := t.tx.Bucket(bucketBalances).Get(boltBalanceKey(owner, denom))
	if data == nil {
		return 0, nil
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("boltstore: balance of %s %s is %d bytes", owner, denom, len(data))
	}
	return binary.BigEndian.Uint64(data), nil
}

func (t *boltTx) SetBalance(owner lock.Address, denom string, amount uint64) error {
	if err := t.writable(); err != nil {
		return err
	}
	b := t.tx.Bucket(bucketBalances)
	key := boltBalanceKey(owner, denom)
	if amount == 0 {
		if err := b.Delete(key); err != nil {
			return fmt.Errorf("boltstore: clear balance: %w", err)
		}
		return nil
	}
	if err := b.Put(key, seqKey(amount)); err != nil {
		return fmt.Errorf("boltstore: put balance: %w", err)
	}
	return nil
}

func (t *boltTx) AppendEvent(rec *EventRecord) error {
	if err := t.writable(); err != nil {
		return err
	}
	if rec == nil {
		return fmt.Errorf("%w: event record", ErrNilParam)
	}
	b := t.tx.Bucket(bucketEvents)
	seq, err := b.NextSequence()
	if err != nil {
		return fmt.Errorf("boltstore: next event sequence: %w", err)
	}
	rec.Seq = seq
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if err := b.Put(seqKey(seq), data); err != nil {
		return fmt.Errorf("boltstore: put event: %w", err)
	}
	return nil
}

func (t *boltTx) Events(from uint64, limit int) ([]EventRecord, error) {
	var out []EventRecord
	c := t.tx.Bucket(bucketEvents).Cursor()
	for k, v := c.Seek(seqKey(from)); k != nil; k, v = c.Next() {
		if limit > 0 && len(out) >= limit {
			break
		}
		var rec EventRecord
		if err := json.Unmarshal(v, &rec); err != nil {
			return nil, fmt.Errorf("%w: seq %d: %w", ErrInvalidEvent, binary.BigEndian.Uint64(k), err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (t *boltTx) NextNonce() (uint64, error) {
	if err := t.writable(); err != nil {
		return 0, err
	}
	b := t.tx.Bucket(bucketMeta)
	var n uint64
	if data := b.Get(keyNonce); len(data) == 8 {
		n = binary.BigEndian.Uint64(data)
	}
	n++
	if err := b.Put(keyNonce, seqKey(n)); err != nil {
		return 0, fmt.Errorf("boltstore: put nonce: %w", err)
	}
	return n, nil
}
