package auth

import (
	"errors"
	"testing"
	"time"

	"learnhub-quiz-service/internal/domain"
)

func TestVerifyAcceptsSignedToken(t *testing.T) {
	v := NewVerifier("test-secret", "learnhub")

	token, err := v.Sign("user-1", "Alice", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := v.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "user-1" || claims.Name != "Alice" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	v := NewVerifier("test-secret", "learnhub")

	token, err := v.Sign("user-1", "Alice", -time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := v.Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewVerifier("other-secret", "learnhub")
	v := NewVerifier("test-secret", "learnhub")

	token, err := issuer.Sign("user-1", "Alice", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := v.Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestVerifyRejectsWrongAudience(t *testing.T) {
	issuer := NewVerifier("test-secret", "someone-else")
	v := NewVerifier("test-secret", "learnhub")

	token, err := issuer.Sign("user-1", "Alice", time.Minute)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := v.Verify(token); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	v := NewVerifier("test-secret", "learnhub")

	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := v.Verify(raw); !errors.Is(err, domain.ErrUnauthorized) {
			t.Fatalf("expected unauthorized for %q, got %v", raw, err)
		}
	}
}

func TestFromAuthorizationHeader(t *testing.T) {
	if got := FromAuthorizationHeader("Bearer abc123"); got != "abc123" {
		t.Fatalf("expected abc123, got %q", got)
	}
	if got := FromAuthorizationHeader("bearer abc123"); got != "abc123" {
		t.Fatalf("expected case-insensitive scheme, got %q", got)
	}
	if got := FromAuthorizationHeader("Basic abc123"); got != "" {
		t.Fatalf("expected empty for non-bearer, got %q", got)
	}
	if got := FromAuthorizationHeader(""); got != "" {
		t.Fatalf("expected empty for missing header, got %q", got)
	}
}
