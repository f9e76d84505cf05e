// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package lock implements the hash time-locked escrow record and its three
// state transitions: creation, redemption and refund.
//
// The package is pure. It never stores, transfers or publishes anything; each
// transition returns what the host must apply (a new record, or a release of the
// escrowed asset plus the event to append). The host runs that application and
// the record deletion as one atomic unit.
package lock

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// AddressLen is the length of an account address.
	AddressLen = 32

	// DigestLen is the length of the hash lock digest.
	DigestLen = 32

	// IDLen is the length of a lock identity.
	IDLen = 32
)

// Address identifies an account on the host ledger.
type Address [AddressLen]byte

// Digest is the 32-byte hash lock a redeeming secret must match.
type Digest [DigestLen]byte

// ID is the stable handle of a lock record.
type ID [IDLen]byte

// ParseAddress parses a hex address with or without a 0x prefix. Short values
// are left-padded with zeros, so "0x2" is a valid address.
func ParseAddress(s string) (Address, error) {
	var a Address
	raw := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if raw == "" || len(raw) > 2*AddressLen {
		return a, fmt.Errorf("%w: address %q", ErrInvalidHex, s)
	}
	if len(raw)%2 == 1 {
		raw = "0" + raw
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return a, fmt.Errorf("%w: address %q: %w", ErrInvalidHex, s, err)
	}
	copy(a[AddressLen-len(b):], b)
	return a, nil
}

// ParseDigest parses a 32-byte hex digest with an optional 0x prefix.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	if err := decodeFixed(d[:], s); err != nil {
		return d, fmt.Errorf("%w: digest: %w", ErrInvalidHex, err)
	}
	return d, nil
}

// ParseID parses a 32-byte hex lock identity with an optional 0x prefix.
func ParseID(s string) (ID, error) {
	var id ID
	if err := decodeFixed(id[:], s); err != nil {
		return id, fmt.Errorf("%w: lock id: %w", ErrInvalidHex, err)
	}
	return id, nil
}

func decodeFixed(dst []byte, s string) error {
	raw := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(raw) != 2*len(dst) {
		return fmt.Errorf("want %d hex chars, got %d", 2*len(dst), len(raw))
	}
	_, err := hex.Decode(dst, []byte(raw))
	return err
}

func (a Address) String() string { return "0x" + hex.EncodeToString(a[:]) }
func (d Digest) String() string  { return "0x" + hex.EncodeToString(d[:]) }
func (id ID) String() string     { return "0x" + hex.EncodeToString(id[:]) }

// IsZero reports whether a is the all-zero address.
func (a Address) IsZero() bool { return a == Address{} }

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(text []byte) error {
	v, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Digest) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Digest) UnmarshalText(text []byte) error {
	v, err := ParseDigest(string(text))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (id ID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *ID) UnmarshalText(text []byte) error {
	v, err := ParseID(string(text))
	if err != nil {
		return err
	}
	*id = v
	return nil
}

// HexBytes is a byte string that encodes as 0x-prefixed hex text.
type HexBytes []byte

func (b HexBytes) String() string { return "0x" + hex.EncodeToString(b) }

// MarshalText implements encoding.TextMarshaler.
func (b HexBytes) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *HexBytes) UnmarshalText(text []byte) error {
	raw := strings.TrimPrefix(strings.TrimPrefix(string(text), "0x"), "0X")
	v, err := hex.DecodeString(raw)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidHex, err)
	}
	*b = v
	return nil
}

// Asset is a held fungible value. The engine only reads its quantity and
// identity; moving it is the host's job.
type Asset interface {
	// Value returns the quantity held.
	Value() uint64

	// AssetID identifies the kind of asset escrowed (e.g. a coin denomination).
	AssetID() string
}

// Record is one escrow instance. Fields never change after creation.
type Record[T Asset] struct {
	ID            ID      `json:"id"`
	CreatedAt     uint64  `json:"created_at"` // oracle ms
	Deadline      uint64  `json:"deadline"`   // oracle ms, refundable strictly after
	Hashed        Digest  `json:"hashed"`
	RefundAddress Address `json:"refund_address"`
	TargetAddress Address `json:"target_address"`
	Initiator     Address `json:"initiator"`
	SecretLength  uint64  `json:"secret_length"`
	Asset         T       `json:"asset"`
}

// Validate checks the structural invariants of a record.
func (r *Record[T]) Validate() error {
	if r == nil {
		return ErrNilRecord
	}
	if r.Deadline < r.CreatedAt {
		return fmt.Errorf("%w: deadline %d before creation %d", ErrInvalidRecord, r.Deadline, r.CreatedAt)
	}
	return nil
}

// Duration returns the relative duration the record was created with.
func (r *Record[T]) Duration() uint64 { return r.Deadline - r.CreatedAt }

// IsParty reports whether addr is one of the three addresses named in the
// record and may therefore trigger a refund.
func (r *Record[T]) IsParty(addr Address) bool {
	return addr == r.RefundAddress || addr == r.Initiator || addr == r.TargetAddress
}

// Expired reports whether the deadline has strictly elapsed at now.
func (r *Record[T]) Expired(now uint64) bool { return now > r.Deadline }
