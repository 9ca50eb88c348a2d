package auth

import (
	"testing"
	"time"

	"github.com/mzfirozuddin/elib-apis/internal/common"
)

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("access-secret")

	tok, err := NewAccessToken("user-123", "a@x.com", "A", secret, time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}

	claims, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.Subject != "user-123" {
		t.Fatalf("subject mismatch: got %q", claims.Subject)
	}
	if claims.Email != "a@x.com" || claims.Name != "A" {
		t.Fatalf("identity claims mismatch: %+v", claims)
	}
}

func TestRefreshToken_SubjectOnly(t *testing.T) {
	t.Parallel()

	secret := []byte("refresh-secret")

	tok, err := NewRefreshToken("user-456", secret, time.Hour)
	if err != nil {
		t.Fatalf("NewRefreshToken error: %v", err)
	}

	claims, err := ParseToken(tok, secret)
	if err != nil {
		t.Fatalf("ParseToken error: %v", err)
	}
	if claims.Subject != "user-456" {
		t.Fatalf("subject mismatch: got %q", claims.Subject)
	}
	if claims.Email != "" || claims.Name != "" {
		t.Fatalf("refresh token should not carry identity claims: %+v", claims)
	}
}

func TestParseToken_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := NewRefreshToken("u1", secret, -1*time.Second)
	if err != nil {
		t.Fatalf("NewRefreshToken error: %v", err)
	}

	_, err = ParseToken(tok, secret)
	if err != common.ErrTokenExpired {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := NewAccessToken("u2", "b@x.com", "B", []byte("right"), time.Hour)
	if err != nil {
		t.Fatalf("NewAccessToken error: %v", err)
	}

	_, err = ParseToken(tok, []byte("wrong"))
	if err != common.ErrInvalidToken {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestParseToken_AccessSecretDoesNotVerifyRefreshToken(t *testing.T) {
	t.Parallel()

	tok, err := NewRefreshToken("u3", []byte("refresh-secret"), time.Hour)
	if err != nil {
		t.Fatalf("NewRefreshToken error: %v", err)
	}

	if _, err := ParseToken(tok, []byte("access-secret")); err == nil {
		t.Fatalf("expected verification failure across secrets")
	}
}

func TestParseToken_Garbage(t *testing.T) {
	t.Parallel()

	if _, err := ParseToken("not-a-token", []byte("secret")); err != common.ErrInvalidToken {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}
