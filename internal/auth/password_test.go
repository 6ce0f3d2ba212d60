package auth

import (
	"errors"
	"strings"
	"testing"
)

// =========================================================================
// HELPER
// =========================================================================

// newTestPasswordService returns a PasswordService with a tiny iteration
// count. This makes tests run in microseconds instead of ~50ms each; the
// encode/verify logic is identical at any count.
func newTestPasswordService() *PasswordService {
	return NewPasswordServiceForTest(1000)
}

// =========================================================================
// Hash TESTS
// =========================================================================

func TestHash_FormatAndNotPlaintext(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("my-secret-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if hash == "" {
		t.Fatal("Hash() returned empty string")
	}
	if !strings.HasPrefix(hash, "pbkdf2:sha256:") {
		t.Errorf("Hash() does not look like a pbkdf2 hash: %q", hash)
	}
	if strings.Contains(hash, "my-secret-password") {
		t.Error("Hash() output contains the plaintext password")
	}
}

func TestHash_SamePasswordProducesDifferentHashes(t *testing.T) {
	ps := newTestPasswordService()

	// A random salt is generated per call, so two hashes for the same
	// password must differ — otherwise rainbow tables would work.
	hash1, _ := ps.Hash("same-password")
	hash2, _ := ps.Hash("same-password")

	if hash1 == hash2 {
		t.Error("Hash() produced identical hashes for the same password (salt must be random)")
	}
}

// =========================================================================
// Verify TESTS
// =========================================================================

func TestVerify_CorrectPassword(t *testing.T) {
	ps := newTestPasswordService()

	hash, err := ps.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	if err := ps.Verify(hash, "correct horse battery staple"); err != nil {
		t.Errorf("Verify() error = %v, want nil for correct password", err)
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	ps := newTestPasswordService()

	hash, _ := ps.Hash("right-password")
	err := ps.Verify(hash, "wrong-password")
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("Verify() error = %v, want ErrPasswordMismatch", err)
	}
}

func TestVerify_SurvivesIterationChange(t *testing.T) {
	// Hashes embed their own iteration count, so a hash created under one
	// work factor still verifies under a service configured with another.
	old := NewPasswordServiceForTest(500)
	hash, _ := old.Hash("stable-password")

	current := NewPasswordServiceForTest(2000)
	if err := current.Verify(hash, "stable-password"); err != nil {
		t.Errorf("Verify() error = %v for hash created with a different iteration count", err)
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	ps := newTestPasswordService()

	// Malformed stored hashes must behave like a mismatch — never a panic,
	// never a distinct error the caller could confuse with success.
	malformed := []string{
		"",
		"not-a-hash",
		"pbkdf2:sha256:600000",                  // missing salt and key
		"pbkdf2:sha256:600000$zz$zz",            // invalid hex
		"pbkdf2:md5:600000$aabb$ccdd",           // wrong digest
		"scrypt:sha256:600000$aabb$ccdd",        // wrong algorithm
		"pbkdf2:sha256:-1$aabb$ccdd",            // nonsense iteration count
		"pbkdf2:sha256:notanumber$aabb$ccdd",    // non-numeric iterations
		"pbkdf2:sha256:600000$$",                // empty salt and key
		"$2a$12$N9qo8uLOickgx2ZMRZoMye",         // a bcrypt hash, wrong scheme
	}

	for _, h := range malformed {
		if err := ps.Verify(h, "whatever"); !errors.Is(err, ErrPasswordMismatch) {
			t.Errorf("Verify(%q) error = %v, want ErrPasswordMismatch", h, err)
		}
	}
}
