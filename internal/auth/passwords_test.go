package auth

import (
	"strings"
	"testing"
)

func TestHashPassword_NonDeterministic(t *testing.T) {
	p := "hunter2 but much longer"
	h1, err := HashPassword(p)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	h2, err := HashPassword(p)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if h1 == h2 {
		t.Fatalf("expected different hashes for same password")
	}
	if !strings.HasPrefix(h1, "$argon2id$v=19$") {
		t.Fatalf("unexpected hash format: %s", h1)
	}
}

func TestVerifyPassword(t *testing.T) {
	p := "hunter2 but much longer"
	h, err := HashPassword(p)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	ok, err := VerifyPassword(h, p)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Fatalf("expected password to verify")
	}

	ok, err = VerifyPassword(h, "wrong password")
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Fatalf("expected wrong password to fail verification")
	}
}

func TestVerifyPassword_MalformedHash(t *testing.T) {
	cases := []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=65536,t=3,p=2$c2FsdA$a2V5",
		"$argon2id$v=18$m=65536,t=3,p=2$c2FsdA$a2V5",
		"$argon2id$v=19$m=0,t=0,p=0$c2FsdA$a2V5",
		"$argon2id$v=19$m=65536,t=3,p=2$!!!$a2V5",
	}
	for _, h := range cases {
		if _, err := VerifyPassword(h, "whatever"); err == nil {
			t.Fatalf("expected error for hash %q", h)
		}
	}
}
