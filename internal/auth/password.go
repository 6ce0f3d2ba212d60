// Package auth — password hashing utilities.
//
// WHY PBKDF2?
// PBKDF2 is a salted, iterated key-derivation function. The salt defeats
// rainbow tables (two users with the same password get different hashes);
// the iteration count makes brute-force attacks expensive. 600,000 rounds of
// SHA-256 takes tens of milliseconds on a modern server — negligible for a
// login, brutal for an attacker trying billions of guesses.
//
// NEVER store passwords in plain text or with fast hashes (MD5, bare SHA-256).
// Those can be cracked with GPU-accelerated dictionaries in minutes.
//
// STORED HASH FORMAT (self-contained, like bcrypt's):
//
//	pbkdf2:sha256:600000$<salt-hex>$<derived-key-hex>
//
// The algorithm, iteration count, and salt are all embedded in the stored
// string, so Verify needs nothing but the hash itself — and the iteration
// count can be raised later without invalidating existing hashes.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// defaultIterations is the PBKDF2-SHA256 work factor for new hashes.
	// 600k is the current OWASP recommendation for PBKDF2-HMAC-SHA256.
	defaultIterations = 600_000

	// saltLength is 16 random bytes. Anything below 8 bytes is too little
	// entropy to rule out precomputation; 16 is comfortable and cheap.
	saltLength = 16

	// keyLength is the derived key size in bytes (SHA-256 output size).
	keyLength = 32
)

// ErrPasswordMismatch is returned by Verify when the plaintext does not
// match the stored hash, or when the stored hash is malformed. Callers
// treat both the same way: the login attempt fails.
var ErrPasswordMismatch = errors.New("auth: password mismatch")

// PasswordService provides PBKDF2 hashing and verification.
//
// It's a struct (not free functions) so the iteration count can be injected
// in tests — a low count makes tests run in microseconds without changing
// the logic being tested.
type PasswordService struct {
	iterations int
}

// NewPasswordService creates a PasswordService with the default work factor.
func NewPasswordService() *PasswordService {
	return &PasswordService{iterations: defaultIterations}
}

// NewPasswordServiceForTest creates a PasswordService with a reduced
// iteration count. Use in tests to avoid the full PBKDF2 cost per call.
//
// Do NOT use in production — a low count is far too weak.
func NewPasswordServiceForTest(iterations int) *PasswordService {
	return &PasswordService{iterations: iterations}
}

// Hash derives a salted PBKDF2-SHA256 hash of the plaintext.
//
// Every call generates a fresh random salt, so hashing the same password
// twice produces two different strings. Store the result directly in the
// database; Verify knows how to decode it.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("auth: generating salt: %w", err)
	}

	key := pbkdf2.Key([]byte(plaintext), salt, p.iterations, keyLength, sha256.New)

	return fmt.Sprintf("pbkdf2:sha256:%d$%s$%s",
		p.iterations,
		hex.EncodeToString(salt),
		hex.EncodeToString(key),
	), nil
}

// Verify checks whether a plaintext password matches a stored hash.
//
// Returns nil on a match, ErrPasswordMismatch otherwise — including for
// malformed or truncated stored hashes. It never panics and never reveals
// WHY verification failed, so a corrupted row behaves exactly like a wrong
// password from the caller's point of view.
//
// TIMING SAFETY:
// The derived keys are compared with subtle.ConstantTimeCompare, so an
// attacker can't learn hash prefixes from response timing.
func (p *PasswordService) Verify(hash, plaintext string) error {
	iterations, salt, want, ok := decodeHash(hash)
	if !ok {
		return ErrPasswordMismatch
	}

	got := pbkdf2.Key([]byte(plaintext), salt, iterations, len(want), sha256.New)
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

// decodeHash splits "pbkdf2:sha256:<iter>$<salt-hex>$<key-hex>" into its
// parts. ok is false for anything that doesn't parse exactly.
func decodeHash(hash string) (iterations int, salt, key []byte, ok bool) {
	method, rest, found := strings.Cut(hash, "$")
	if !found {
		return 0, nil, nil, false
	}

	// method is "pbkdf2:sha256:<iterations>"
	parts := strings.Split(method, ":")
	if len(parts) != 3 || parts[0] != "pbkdf2" || parts[1] != "sha256" {
		return 0, nil, nil, false
	}
	iterations, err := strconv.Atoi(parts[2])
	if err != nil || iterations <= 0 {
		return 0, nil, nil, false
	}

	saltHex, keyHex, found := strings.Cut(rest, "$")
	if !found {
		return 0, nil, nil, false
	}
	salt, err = hex.DecodeString(saltHex)
	if err != nil || len(salt) == 0 {
		return 0, nil, nil, false
	}
	key, err = hex.DecodeString(keyHex)
	if err != nil || len(key) == 0 {
		return 0, nil, nil, false
	}

	return iterations, salt, key, true
}
