// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package lock

import (
	"errors"
	"testing"
)

// FuzzRedeem checks that redeem succeeds exactly for the committed secret and
// otherwise fails with one of the two secret errors.
func FuzzRedeem(f *testing.F) {
	committed := []byte("0123456789abcdef0123456789abcdef")
	f.Add(committed)
	f.Add([]byte{})
	f.Add(committed[:31])
	f.Add([]byte("0123456789abcdef0123456789abcdeF"))

	f.Fuzz(func(t *testing.T, candidate []byte) {
		rec := recordFor(0, 10, committed)
		rel, err := rec.Redeem(candidate, stranger)
		if string(candidate) == string(committed) {
			if err != nil {
				t.Fatalf("committed secret rejected: %v", err)
			}
			if rel.To != target {
				t.Fatalf("released to %s, want %s", rel.To, target)
			}
			return
		}
		if rel != nil {
			t.Fatalf("wrong secret %x released the lock", candidate)
		}
		if !errors.Is(err, ErrSecretLengthWrong) && !errors.Is(err, ErrSecretPreimageWrong) {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(candidate) != len(committed) && !errors.Is(err, ErrSecretLengthWrong) {
			t.Fatalf("length mismatch reported as %v", err)
		}
	})
}
