package password

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_HashFormat(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("pw1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$") && !strings.HasPrefix(hash, "$2b$") {
		t.Errorf("unexpected hash prefix: %s", hash)
	}
	if strings.Contains(hash, "pw1") {
		t.Errorf("hash must not contain the plaintext")
	}
}

func TestBcryptHasher_Salted(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	a, _ := h.Hash("pw1")
	b, _ := h.Hash("pw1")
	if a == b {
		t.Error("hashes should differ due to random salt")
	}
}

func TestBcryptHasher_Verify(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("pw1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name  string
		plain string
		want  bool
	}{
		{"correct", "pw1", true},
		{"wrong", "pw2", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := h.Verify(tt.plain, hash)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if ok != tt.want {
				t.Errorf("Verify(%q) = %v, want %v", tt.plain, ok, tt.want)
			}
		})
	}
}

func TestBcryptHasher_VerifyMalformedHash(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	ok, err := h.Verify("pw1", "not-a-bcrypt-hash")
	if err == nil {
		t.Fatal("expected error for malformed hash")
	}
	if ok {
		t.Fatal("malformed hash must not verify")
	}
}

func TestNewBcryptHasher_ClampsCost(t *testing.T) {
	if got := NewBcryptHasher(1).Cost(); got != bcrypt.MinCost {
		t.Errorf("low cost clamped to %d, want %d", got, bcrypt.MinCost)
	}
	if got := NewBcryptHasher(99).Cost(); got != bcrypt.MaxCost {
		t.Errorf("high cost clamped to %d, want %d", got, bcrypt.MaxCost)
	}
	if got := NewBcryptHasher(12).Cost(); got != 12 {
		t.Errorf("cost = %d, want 12", got)
	}
}
