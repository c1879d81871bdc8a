package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hash represents a cryptographic fingerprint of an input
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// Equals checks if two hashes are equal
func (h Hash) Equals(other Hash) bool {
	return h == other
}

// ConfigFingerprint identifies the configuration a result was computed under.
// Results tagged with a stale fingerprint are discarded wholesale, never patched.
type ConfigFingerprint Hash

func NewConfigFingerprint(data []byte) ConfigFingerprint {
	return ConfigFingerprint(NewHash(data))
}

func (f ConfigFingerprint) String() string { return Hash(f).String() }
