package security

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHasher_HashAndCompare(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	hash, err := h.Hash("pw123")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "" {
		t.Fatal("Hash returned empty")
	}
	if hash == "pw123" {
		t.Fatal("Hash returned the plaintext")
	}
	if err := h.Compare(hash, "pw123"); err != nil {
		t.Fatalf("Compare: %v", err)
	}
}

func TestHasher_CompareWrongPassword(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	hash, _ := h.Hash("pw123")
	if err := h.Compare(hash, "wrong"); err == nil {
		t.Fatal("Compare with wrong password should fail")
	}
}

func TestHasher_Cost(t *testing.T) {
	if h := NewHasher(12); h.Cost != 12 {
		t.Errorf("Cost want 12, got %d", h.Cost)
	}
	if h := NewHasher(0); h.Cost != DefaultBcryptCost {
		t.Errorf("zero cost should select default %d, got %d", DefaultBcryptCost, h.Cost)
	}
	if h := NewHasher(1); h.Cost != bcrypt.MinCost {
		t.Errorf("cost below MinCost should clamp to %d, got %d", bcrypt.MinCost, h.Cost)
	}
	if h := NewHasher(99); h.Cost != bcrypt.MaxCost {
		t.Errorf("cost above MaxCost should clamp to %d, got %d", bcrypt.MaxCost, h.Cost)
	}
}

func TestHasher_CompareDummyDoesNotPanic(t *testing.T) {
	h := NewHasher(bcrypt.MinCost)
	h.CompareDummy("anything")
	h.CompareDummy("")
	if len(h.dummy) == 0 {
		t.Fatal("dummy hash should be initialized after first use")
	}
}
