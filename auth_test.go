package main

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestTokenRoundTrip(t *testing.T) {
	issuer := &tokenIssuer{secret: []byte("test-secret")}

	tok, err := issuer.issue("64f000000000000000000001", "alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	uid, err := issuer.parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if uid != "64f000000000000000000001" {
		t.Fatalf("wrong subject: %q", uid)
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	issuer := &tokenIssuer{secret: []byte("test-secret")}
	tok, err := issuer.issue("u1", "alice")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	other := &tokenIssuer{secret: []byte("different")}
	if _, err := other.parse(tok); err == nil {
		t.Fatalf("token accepted under the wrong secret")
	}
}

func TestTokenGarbageRejected(t *testing.T) {
	issuer := &tokenIssuer{secret: []byte("test-secret")}
	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := issuer.parse(tok); err == nil {
			t.Fatalf("garbage token %q accepted", tok)
		}
	}
}

func TestTokenExpiredRejected(t *testing.T) {
	secret := []byte("test-secret")
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":  "u1",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	issuer := &tokenIssuer{secret: secret}
	if _, err := issuer.parse(expired); err == nil {
		t.Fatalf("expired token accepted")
	}
}

func TestTokenMissingSubjectRejected(t *testing.T) {
	secret := []byte("test-secret")
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	issuer := &tokenIssuer{secret: secret}
	if _, err := issuer.parse(tok); err == nil {
		t.Fatalf("token without an id claim accepted")
	}
}
