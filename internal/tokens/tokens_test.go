package tokens

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jobtrack/jobtrack/internal/config"
	"github.com/jobtrack/jobtrack/internal/models"
)

func TestGenerateAccessToken_ValidAndClaims(t *testing.T) {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "test-secret-32-bytes-should-be-long-enough"

	u := &models.User{Sub: "user-123", Name: "Test User", Email: "test@example.com"}
	tokenStr, err := GenerateAccessToken(cfg, u, 2*time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	// parse and validate
	parsed, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		return []byte(cfg.Auth.JWTSecret), nil
	})
	if err != nil {
		t.Fatalf("failed to parse token: %v", err)
	}
	if !parsed.Valid {
		t.Fatalf("token should be valid")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatalf("claims type assertion failed")
	}
	if claims["sub"] != u.Sub {
		t.Fatalf("unexpected sub claim: got=%v want=%v", claims["sub"], u.Sub)
	}
}

func TestVerifier_RoundTrip(t *testing.T) {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "verifier-secret-32-bytes-xxxxxxxxxx"
	u := &models.User{Sub: "user-v", Name: "V", Email: "v@example.com"}
	tokenStr, err := GenerateAccessToken(cfg, u, 2*time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}

	ver := NewVerifier(cfg.Auth.JWTSecret)
	tok, err := ver.Verify(context.Background(), tokenStr)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	var claims map[string]interface{}
	if err := tok.Claims(&claims); err != nil {
		t.Fatalf("Claims error: %v", err)
	}
	if claims["sub"] != "user-v" {
		t.Fatalf("unexpected sub claim: %v", claims["sub"])
	}
}

func TestVerifier_Expiry(t *testing.T) {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "another-secret-32-bytes-longgggg"
	u := &models.User{Sub: "u2", Name: "X", Email: "x@x"}
	tokenStr, err := GenerateAccessToken(cfg, u, 1*time.Second)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}
	// wait for expiry
	time.Sleep(2 * time.Second)
	if _, err := NewVerifier(cfg.Auth.JWTSecret).Verify(context.Background(), tokenStr); err == nil {
		t.Fatalf("expected verification to fail after expiry")
	}
}

func TestVerifier_WrongSecretFails(t *testing.T) {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "secret-one-32-bytes-xxxxxxxxxxxxxxxx"
	u := &models.User{Sub: "u3", Name: "Bob", Email: "bob@example.com"}
	tokenStr, err := GenerateAccessToken(cfg, u, 2*time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}
	if _, err := NewVerifier("different-secret-xxxxxxxxxxxxxxxx").Verify(context.Background(), tokenStr); err == nil {
		t.Fatalf("expected verification to fail with wrong secret")
	}
}

func TestVerifier_Malformed(t *testing.T) {
	if _, err := NewVerifier("x").Verify(context.Background(), "not.a.jwt"); err == nil {
		t.Fatalf("expected verification to fail for malformed token")
	}
}

// Rejected when alg=none (unsigned token)
func TestVerifier_AlgNoneRejected(t *testing.T) {
	payload := `{"sub":"u-none","exp":9999999999}`
	headerEnc := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none"}`))
	payloadEnc := base64.RawURLEncoding.EncodeToString([]byte(payload))
	tok := headerEnc + "." + payloadEnc + "."
	if _, err := NewVerifier("x").Verify(context.Background(), tok); err == nil {
		t.Fatalf("expected verifier to reject alg=none token")
	}
}

// Tampering with payload must fail signature verification
func TestVerifier_TamperedPayload(t *testing.T) {
	cfg := &config.Config{}
	cfg.Auth.JWTSecret = "tamper-test-secret-32-bytes-xxxxxxx"
	u := &models.User{Sub: "user-t", Name: "Tamper", Email: "t@example.com"}
	tokenStr, err := GenerateAccessToken(cfg, u, 5*time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken error: %v", err)
	}
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token parts")
	}
	payloadBytes, _ := base64.RawURLEncoding.DecodeString(parts[1])
	payloadStr := strings.Replace(string(payloadBytes), "user-t", "attacker", 1)
	parts[1] = base64.RawURLEncoding.EncodeToString([]byte(payloadStr))
	tampered := strings.Join(parts, ".")
	if _, err := NewVerifier(cfg.Auth.JWTSecret).Verify(context.Background(), tampered); err == nil {
		t.Fatalf("expected signature verification to fail for tampered token")
	}
}
