package helpers

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestPassword_HashAndCompare(t *testing.T) {
	hash, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret-pass" || !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected bcrypt hash, got %q", hash)
	}
	if !CompareHashAndPassword(hash, "s3cret-pass") {
		t.Error("expected match")
	}
	if CompareHashAndPassword(hash, "wrong") {
		t.Error("expected mismatch")
	}
}

func TestHashPassword_RejectsOverLongInput(t *testing.T) {
	// 40 two-byte runes pass a 72-character check but are 80 bytes
	long := strings.Repeat("é", 40)
	if _, err := HashPassword(long); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("expected ErrPasswordTooLong, got %v", err)
	}
	if _, err := HashPassword(strings.Repeat("a", MaxPasswordBytes)); err != nil {
		t.Errorf("72 bytes must be accepted: %v", err)
	}
}

func TestNeedsRehash(t *testing.T) {
	weak, err := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	current, err := HashPassword("s3cret-pass")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		hash string
		want bool
	}{
		{"lower cost", string(weak), true},
		{"current cost", current, false},
		{"not bcrypt", "plaintext", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NeedsRehash(tc.hash); got != tc.want {
				t.Errorf("NeedsRehash = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestGenToken(t *testing.T) {
	a, err := GenToken(32)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := GenToken(32)
	if a == b {
		t.Error("tokens should differ")
	}
	if len(a) != 43 {
		t.Errorf("expected 43 url-safe chars for 32 bytes, got %d", len(a))
	}
	if strings.ContainsAny(a, "+/=") {
		t.Errorf("token is not url safe: %s", a)
	}
}
