package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateJWTToken_Success(t *testing.T) {
	token, exp, err := GenerateJWTToken("test-issuer", "u-123", time.Hour, "secret-key")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
	if time.Until(exp) < 59*time.Minute {
		t.Errorf("unexpected expiry %s", exp)
	}

	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		t.Fatalf("token is not a JWT: %v", err)
	}
	if claims.Issuer != "test-issuer" || claims.Subject != "u-123" {
		t.Errorf("unexpected claims %+v", claims)
	}
}

func TestGenerateJWTToken_InvalidParams(t *testing.T) {
	tests := []struct {
		name     string
		issuer   string
		userID   string
		duration time.Duration
		key      string
	}{
		{"empty issuer", "", "u", time.Hour, "key"},
		{"empty user", "iss", "", time.Hour, "key"},
		{"zero duration", "iss", "u", 0, "key"},
		{"empty key", "iss", "u", time.Hour, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := GenerateJWTToken(tt.issuer, tt.userID, tt.duration, tt.key); err == nil {
				t.Error("expected error for invalid parameters, got nil")
			}
		})
	}
}

func TestValidateAndParseJWTToken(t *testing.T) {
	token, _, _ := GenerateJWTToken("iss", "u-456", time.Minute, "key")

	userID, err := ValidateAndParseJWTToken(token, "key", "iss")
	if err != nil {
		t.Fatalf("expected token to be valid, got error: %v", err)
	}
	if userID != "u-456" {
		t.Errorf("expected u-456, got %s", userID)
	}

	if _, err := ValidateAndParseJWTToken(token, "other-key", "iss"); err == nil {
		t.Error("expected signature error")
	}
	if _, err := ValidateAndParseJWTToken(token, "key", "other-issuer"); err == nil {
		t.Error("expected issuer error")
	}
}

func TestValidateAndParseJWTToken_Expired(t *testing.T) {
	token := expiredToken(t)
	if _, err := ValidateAndParseJWTToken(token, "key", "iss"); err == nil {
		t.Error("expected expired token to be rejected")
	}
}

func TestParseBearerToken(t *testing.T) {
	got, err := ParseBearerToken("Bearer abc.def")
	if err != nil || got != "abc.def" {
		t.Fatalf("got %q, %v", got, err)
	}

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer a b"} {
		if _, err := ParseBearerToken(header); err == nil {
			t.Errorf("expected error for %q", header)
		}
	}
}

func TestIsTokenExpired(t *testing.T) {
	now := time.Now()
	fresh, _, _ := GenerateJWTToken("iss", "u", time.Hour, "key")

	if IsTokenExpired(fresh, now) {
		t.Error("fresh token reported expired")
	}
	if !IsTokenExpired(fresh, now.Add(2*time.Hour)) {
		t.Error("token past exp reported valid")
	}
	if !IsTokenExpired(expiredToken(t), now) {
		t.Error("expired token reported valid")
	}
	if IsTokenExpired("opaque-session-token", now) {
		t.Error("opaque token must never be treated as expired")
	}
}

func expiredToken(t *testing.T) string {
	t.Helper()
	claims := &jwt.RegisteredClaims{
		Issuer:    "iss",
		Subject:   "u",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("key"))
	if err != nil {
		t.Fatal(err)
	}
	return token
}
