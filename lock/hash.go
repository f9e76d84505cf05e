// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package lock

import (
	"crypto/sha256"
	"crypto/subtle"
)

// Hash returns the digest the engine checks secrets against (SHA-256). The
// digest stored in a record is never checked for provenance; agreeing on the
// function is the counterparties' concern.
func Hash(secret []byte) Digest {
	return Digest(sha256.Sum256(secret))
}

// Matches reports whether secret hashes to d.
func (d Digest) Matches(secret []byte) bool {
	h := Hash(secret)
	return subtle.ConstantTimeCompare(h[:], d[:]) == 1
}
