package compare

import (
	"hash/fnv"
)

// Fingerprint is a fixed-width digest of a file's complete byte content.
// It is produced by 64-bit FNV-1a: fast, order-sensitive and deterministic
// across runs, but not cryptographically secure. Fingerprints are used only
// for equality testing within a single comparison run; collisions are
// possible in principle and accepted for this change-detection use case.
type Fingerprint uint64

// FingerprintBytes computes the fingerprint of data
func FingerprintBytes(data []byte) Fingerprint {
	h := fnv.New64a()
	h.Write(data)
	return Fingerprint(h.Sum64())
}
