package auth

import (
	"encoding/hex"
	"testing"
)

// Tests use a reduced iteration count; the derivation logic is identical.
func newTestService() *PasswordService {
	return NewPasswordServiceForTest(10)
}

func TestHashAndVerify(t *testing.T) {
	ps := newTestService()

	hash, salt, err := ps.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if !ps.Verify(hash, salt, "correct horse battery staple") {
		t.Error("Verify() = false for the correct password")
	}
	if ps.Verify(hash, salt, "wrong password") {
		t.Error("Verify() = true for a wrong password")
	}
	if ps.Verify(hash, salt, "") {
		t.Error("Verify() = true for an empty password")
	}
}

func TestHash_FreshSaltPerCall(t *testing.T) {
	ps := newTestService()

	hash1, salt1, err := ps.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	hash2, salt2, err := ps.Hash("same password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if salt1 == salt2 {
		t.Error("two Hash() calls produced the same salt")
	}
	if hash1 == hash2 {
		t.Error("two Hash() calls with different salts produced the same hash")
	}

	// Both must still verify against their own salt.
	if !ps.Verify(hash1, salt1, "same password") || !ps.Verify(hash2, salt2, "same password") {
		t.Error("hashes do not verify against their own salts")
	}
}

func TestHash_OutputFormat(t *testing.T) {
	ps := newTestService()

	hash, salt, err := ps.Hash("pw")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	// 16 salt bytes and a 64-byte derived key, hex-encoded: 32 and 128 chars.
	if len(salt) != saltBytes*2 {
		t.Errorf("len(salt) = %d, want %d", len(salt), saltBytes*2)
	}
	if len(hash) != keyBytes*2 {
		t.Errorf("len(hash) = %d, want %d", len(hash), keyBytes*2)
	}
	if _, err := hex.DecodeString(salt); err != nil {
		t.Errorf("salt %q is not valid hex: %v", salt, err)
	}
	if _, err := hex.DecodeString(hash); err != nil {
		t.Errorf("hash %q is not valid hex: %v", hash, err)
	}
}

func TestVerify_WrongSaltFails(t *testing.T) {
	ps := newTestService()

	hash, _, err := ps.Hash("pw")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	_, otherSalt, err := ps.Hash("pw")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if ps.Verify(hash, otherSalt, "pw") {
		t.Error("Verify() = true with a salt from a different record")
	}
}
