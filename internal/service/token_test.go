package service

import (
	"encoding/hex"
	"errors"
	"testing"
	"time"
)

func TestNewToken(t *testing.T) {
	tok1, err := NewToken()
	if err != nil {
		t.Fatalf("NewToken() error = %v", err)
	}
	tok2, err := NewToken()
	if err != nil {
		t.Fatalf("NewToken() error = %v", err)
	}

	// 16 random bytes hex encoded = 32 chars = 128 bits of entropy
	if len(tok1) != 32 {
		t.Errorf("NewToken() length = %d, want 32", len(tok1))
	}
	if _, err := hex.DecodeString(tok1); err != nil {
		t.Errorf("NewToken() not hex: %v", err)
	}
	if tok1 == tok2 {
		t.Error("NewToken() should generate unique tokens")
	}
}

func TestIssueAndValidate(t *testing.T) {
	gdb := testDB(t)
	users := NewUserService(gdb)
	tokens := NewTokenService(gdb, 24*time.Hour)

	username := uniqueName("issuer")
	if err := users.Upsert(username, "codeword-1", true); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	rec, err := tokens.Issue(username, "codeword-1")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if rec.Token == "" {
		t.Error("Issue() returned empty token")
	}
	if !rec.Expires.After(time.Now().UTC().Add(23 * time.Hour)) {
		t.Errorf("Issue() expires = %v, want ~24h from now", rec.Expires)
	}

	got, err := tokens.Validate(rec.Token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got != username {
		t.Errorf("Validate() username = %q, want %q", got, username)
	}
}

func TestIssue_InvalidCredentials(t *testing.T) {
	gdb := testDB(t)
	users := NewUserService(gdb)
	tokens := NewTokenService(gdb, 24*time.Hour)

	username := uniqueName("badcreds")
	if err := users.Upsert(username, "right", true); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	tests := []struct {
		name     string
		username string
		codeword string
	}{
		{"wrong codeword", username, "wrong"},
		{"unknown user", uniqueName("ghost"), "right"},
		{"empty codeword", username, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tokens.Issue(tt.username, tt.codeword)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("Issue() error = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestValidate_UnknownToken(t *testing.T) {
	gdb := testDB(t)
	tokens := NewTokenService(gdb, 24*time.Hour)

	_, err := tokens.Validate("definitely-not-a-token")
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Validate() error = %v, want ErrUnauthenticated", err)
	}
}

func TestValidate_Expired(t *testing.T) {
	gdb := testDB(t)
	users := NewUserService(gdb)
	// negative TTL issues an already-expired token
	tokens := NewTokenService(gdb, -time.Hour)

	username := uniqueName("expired")
	if err := users.Upsert(username, "cw", true); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	rec, err := tokens.Issue(username, "cw")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = tokens.Validate(rec.Token)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("Validate() error = %v, want ErrUnauthenticated for expired token", err)
	}
}
