package auth

import (
	"strings"
	"testing"
	"time"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	token, err := SignJWT(Claims{
		Sub:     "google:123",
		Email:   "u@example.com",
		Name:    "Test User",
		Picture: "https://example.com/p.png",
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	claims, err := VerifyJWT(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Sub != "google:123" || claims.Email != "u@example.com" {
		t.Fatalf("unexpected claims %+v", claims)
	}
	if claims.Exp == 0 || claims.Iat == 0 {
		t.Fatalf("expected exp and iat to be filled")
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	token, err := SignJWT(Claims{Sub: "google:123"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	parts := strings.Split(token, ".")
	parts[1] = parts[1][:len(parts[1])-2] + "xx"
	if _, err := VerifyJWT(strings.Join(parts, ".")); err == nil {
		t.Fatalf("expected tampered token to be rejected")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	token, err := SignJWT(Claims{
		Sub: "google:123",
		Iat: time.Now().UTC().Add(-2 * time.Hour).Unix(),
		Exp: time.Now().UTC().Add(-time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := VerifyJWT(token); err == nil {
		t.Fatalf("expected expired token to be rejected")
	}
}

func TestSignRequiresSub(t *testing.T) {
	if _, err := SignJWT(Claims{}); err == nil {
		t.Fatalf("expected error without sub")
	}
}
