// Package auth — password hashing for protected snippets.
//
// Snippets store a (salt, hash) pair instead of a self-contained bcrypt
// string because the on-disk record format keeps them as two separate
// hex fields, and every existing record was written that way. The scheme is
// PBKDF2-SHA512: a fresh random salt per save, a fixed iteration count, and
// a 64-byte derived key, all hex-encoded.
//
// NEVER store the raw password, and never compare hashes with ==; Verify
// uses a constant-time comparison so response timing doesn't leak how much
// of a guess was correct.
package auth

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// defaultIterations matches the parameters every stored record was
	// hashed with. Raising it invalidates existing protected snippets, so
	// treat it as part of the record format.
	defaultIterations = 1000
	saltBytes         = 16
	keyBytes          = 64
)

// PasswordService derives and verifies snippet password hashes.
//
// It's a struct (not free functions) so the iteration count can be injected —
// tests use a smaller count to stay fast without changing the logic.
type PasswordService struct {
	iterations int
}

// NewPasswordService creates a PasswordService with the production iteration
// count.
func NewPasswordService() *PasswordService {
	return &PasswordService{iterations: defaultIterations}
}

// NewPasswordServiceForTest creates a PasswordService with a custom iteration
// count. Only for tests.
func NewPasswordServiceForTest(iterations int) *PasswordService {
	return &PasswordService{iterations: iterations}
}

// Hash derives a hash for the plaintext under a freshly generated salt.
// Both return values are hex-encoded and safe to persist.
func (p *PasswordService) Hash(plaintext string) (hash, salt string, err error) {
	raw := make([]byte, saltBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("auth: generating salt: %w", err)
	}
	salt = hex.EncodeToString(raw)

	key := pbkdf2.Key([]byte(plaintext), []byte(salt), p.iterations, keyBytes, sha512.New)
	return hex.EncodeToString(key), salt, nil
}

// Verify reports whether the plaintext, derived under the stored salt,
// matches the stored hash.
//
// The salt is fed to PBKDF2 as its hex string, not decoded bytes — that is
// how every record was originally written, and decoding first would break
// verification for all of them.
func (p *PasswordService) Verify(hash, salt, plaintext string) bool {
	key := pbkdf2.Key([]byte(plaintext), []byte(salt), p.iterations, keyBytes, sha512.New)
	candidate := hex.EncodeToString(key)
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(hash)) == 1
}
