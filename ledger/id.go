// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package ledger

import (
	"encoding/binary"

	"golang.org/x/crypto/blake2b"

	"github.com/bitfsorg/libhtlc-go/lock"
)

// lockIDDomain separates lock identities from any other blake2b use.
var lockIDDomain = []byte("htlc/lock")

// deriveLockID computes blake2b-256(domain || initiator || created_at || nonce).
// The nonce is unique per backend, so identities are never reused.
func deriveLockID(initiator lock.Address, createdAt, nonce uint64) lock.ID {
	buf := make([]byte, 0, len(lockIDDomain)+lock.AddressLen+16)
	buf = append(buf, lockIDDomain...)
	buf = append(buf, initiator[:]...)
	buf = binary.BigEndian.AppendUint64(buf, createdAt)
	buf = binary.BigEndian.AppendUint64(buf, nonce)
	return lock.ID(blake2b.Sum256(buf))
}
