package credentials

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// DefaultIterations is the PBKDF2 work factor for new passwords.
	DefaultIterations = 100_000
	// MinIterations is the lowest work factor a Hasher accepts.
	MinIterations = 10_000
	// KeyLength is the derived key size in bytes.
	KeyLength = 64
	// SaltLength is the random salt size in bytes.
	SaltLength = 16
)

// PasswordHasher derives and checks salted password hashes.
type PasswordHasher interface {
	Hash(password string) (hash, salt string, err error)
	Verify(password, hash, salt string) bool
	Iterations() int
}

// PBKDF2Hasher implements PasswordHasher with PBKDF2-HMAC-SHA512.
// Hash and salt are hex encoded.
type PBKDF2Hasher struct {
	iterations int
}

// NewPBKDF2Hasher returns a hasher using the given work factor.
// Values below MinIterations are rejected.
func NewPBKDF2Hasher(iterations int) (*PBKDF2Hasher, error) {
	if iterations == 0 {
		iterations = DefaultIterations
	}
	if iterations < MinIterations {
		return nil, fmt.Errorf("pbkdf2 iterations %d below minimum %d", iterations, MinIterations)
	}
	return &PBKDF2Hasher{iterations: iterations}, nil
}

func (h *PBKDF2Hasher) Iterations() int {
	return h.iterations
}

func (h *PBKDF2Hasher) Hash(password string) (string, string, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", "", fmt.Errorf("generate salt: %w", err)
	}
	saltHex := hex.EncodeToString(salt)
	return derive(password, saltHex, h.iterations), saltHex, nil
}

// Verify recomputes the hash of password with salt and compares it to hash
// in constant time.
func (h *PBKDF2Hasher) Verify(password, hash, salt string) bool {
	return VerifyWithIterations(password, hash, salt, h.iterations)
}

// VerifyWithIterations is Verify for a record hashed with a different work
// factor than the current default.
func VerifyWithIterations(password, hash, salt string, iterations int) bool {
	stored, err := hex.DecodeString(hash)
	if err != nil || len(stored) != KeyLength {
		return false
	}
	computed, _ := hex.DecodeString(derive(password, salt, iterations))
	return subtle.ConstantTimeCompare(computed, stored) == 1
}

// derive keys the salt as its hex text, so records stay verifiable by any
// implementation that treats the stored salt as an opaque string.
func derive(password, salt string, iterations int) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), iterations, KeyLength, sha512.New)
	return hex.EncodeToString(key)
}
