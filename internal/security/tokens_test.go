package security

import (
	"strings"
	"testing"
	"time"
)

func newTestProvider(t *testing.T, ttl time.Duration) *TokenProvider {
	t.Helper()
	p, err := NewDevTokenProvider("test-issuer", "test-audience", ttl)
	if err != nil {
		t.Fatalf("NewDevTokenProvider: %v", err)
	}
	return p
}

func TestTokenProvider_IssueAndValidate(t *testing.T) {
	p := newTestProvider(t, 8*time.Hour)

	token, exp, err := p.Issue("id-1", "bob@example.com", "bob")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if token == "" {
		t.Fatal("empty token")
	}
	if exp.Before(time.Now()) {
		t.Fatal("expiry in the past")
	}

	claims, err := p.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.Subject != "id-1" || claims.Email != "bob@example.com" || claims.Username != "bob" {
		t.Errorf("claims: got subject=%q email=%q username=%q", claims.Subject, claims.Email, claims.Username)
	}
	if claims.Issuer != "test-issuer" {
		t.Errorf("issuer: got %q", claims.Issuer)
	}
}

func TestTokenProvider_ValidateMalformed(t *testing.T) {
	p := newTestProvider(t, time.Hour)
	for _, s := range []string{"", "garbage", "a.b", "a.b.c"} {
		if _, err := p.Validate(s); err != ErrInvalidToken {
			t.Errorf("Validate(%q): want ErrInvalidToken, got %v", s, err)
		}
	}
}

func TestTokenProvider_ValidateExpiredButPeekable(t *testing.T) {
	p := newTestProvider(t, -time.Minute)
	token, _, err := p.Issue("id-1", "bob@example.com", "bob")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := p.Validate(token); err != ErrInvalidToken {
		t.Errorf("Validate expired: want ErrInvalidToken, got %v", err)
	}
	claims := p.Peek(token)
	if claims == nil {
		t.Fatal("Peek on expired token should still decode")
	}
	if claims.Subject != "id-1" || claims.Username != "bob" {
		t.Errorf("Peek claims: got subject=%q username=%q", claims.Subject, claims.Username)
	}
}

func TestTokenProvider_ValidateWrongIssuerOrAudience(t *testing.T) {
	p := newTestProvider(t, time.Hour)

	other, err := NewDevTokenProvider("other-issuer", "test-audience", time.Hour)
	if err != nil {
		t.Fatalf("NewDevTokenProvider: %v", err)
	}
	token, _, _ := other.Issue("id-1", "bob@example.com", "bob")
	if _, err := p.Validate(token); err != ErrInvalidToken {
		t.Errorf("wrong issuer: want ErrInvalidToken, got %v", err)
	}

	other2, err := NewDevTokenProvider("test-issuer", "other-audience", time.Hour)
	if err != nil {
		t.Fatalf("NewDevTokenProvider: %v", err)
	}
	token2, _, _ := other2.Issue("id-1", "bob@example.com", "bob")
	if _, err := p.Validate(token2); err != ErrInvalidToken {
		t.Errorf("wrong audience: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_ValidateTampered(t *testing.T) {
	p := newTestProvider(t, time.Hour)
	token, _, _ := p.Issue("id-1", "bob@example.com", "bob")
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %d parts", len(parts))
	}
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := p.Validate(tampered); err != ErrInvalidToken {
		t.Errorf("tampered signature: want ErrInvalidToken, got %v", err)
	}
}

func TestTokenProvider_PeekMalformed(t *testing.T) {
	p := newTestProvider(t, time.Hour)
	if claims := p.Peek("not-a-token"); claims != nil {
		t.Errorf("Peek malformed: want nil, got %+v", claims)
	}
}
