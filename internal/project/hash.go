package project

import (
	"crypto/sha256"
)

// Digest is a fixed 256-bit hash of unit contents or settings.
type Digest [32]byte

// Combine hashes content followed by every part in order.
func Combine(content Digest, parts ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// HashString digests s.
func HashString(s string) Digest {
	return sha256.Sum256([]byte(s))
}
