package auth

import (
	"strings"
	"testing"
	"time"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newTestIssuer(t *testing.T, clock func() time.Time) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer(Config{
		Secret:   "test-secret",
		Issuer:   "urvote",
		Audience: "urvote-api",
		TokenTTL: time.Hour,
		Clock:    clock,
	})
	if err != nil {
		t.Fatalf("NewTokenIssuer failed: %v", err)
	}
	return issuer
}

func TestNewTokenIssuer_RejectsEmptySecret(t *testing.T) {
	_, err := NewTokenIssuer(Config{Issuer: "urvote", Audience: "urvote-api"})
	if err == nil {
		t.Fatal("expected error for empty secret, got nil")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestIssuer(t, fixedClock(now))

	token, err := issuer.IssueAccountToken(42)
	if err != nil {
		t.Fatalf("IssueAccountToken failed: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Errorf("expected a three-part JWT, got %q", token)
	}

	accountID, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if accountID != 42 {
		t.Errorf("expected account id 42, got %d", accountID)
	}
}

func TestVerify_RejectsExpiredToken(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestIssuer(t, fixedClock(issued))

	token, err := issuer.IssueAccountToken(7)
	if err != nil {
		t.Fatalf("IssueAccountToken failed: %v", err)
	}

	// Same issuer config, clock two hours past the one-hour TTL.
	late := newTestIssuer(t, fixedClock(issued.Add(2*time.Hour)))
	if _, err := late.Verify(token); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestVerify_RejectsWrongSecret(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestIssuer(t, fixedClock(now))

	token, err := issuer.IssueAccountToken(7)
	if err != nil {
		t.Fatalf("IssueAccountToken failed: %v", err)
	}

	other, err := NewTokenIssuer(Config{
		Secret:   "different-secret",
		Issuer:   "urvote",
		Audience: "urvote-api",
		Clock:    fixedClock(now),
	})
	if err != nil {
		t.Fatalf("NewTokenIssuer failed: %v", err)
	}
	if _, err := other.Verify(token); err == nil {
		t.Error("expected token signed with another secret to be rejected")
	}
}

func TestVerify_RejectsWrongAudience(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := newTestIssuer(t, fixedClock(now))

	token, err := issuer.IssueAccountToken(7)
	if err != nil {
		t.Fatalf("IssueAccountToken failed: %v", err)
	}

	other, err := NewTokenIssuer(Config{
		Secret:   "test-secret",
		Issuer:   "urvote",
		Audience: "some-other-service",
		Clock:    fixedClock(now),
	})
	if err != nil {
		t.Fatalf("NewTokenIssuer failed: %v", err)
	}
	if _, err := other.Verify(token); err == nil {
		t.Error("expected token for another audience to be rejected")
	}
}

func TestVerify_RejectsGarbage(t *testing.T) {
	issuer := newTestIssuer(t, fixedClock(time.Now()))
	for _, raw := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := issuer.Verify(raw); err == nil {
			t.Errorf("expected Verify(%q) to fail", raw)
		}
	}
}
