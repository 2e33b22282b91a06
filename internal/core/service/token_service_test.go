package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"testing"
	"time"

	"github.com/userhub/user-service/internal/core/domain"
)

func testKeyPair(t *testing.T) (privPEM, pubPEM []byte) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	privPEM = pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	pubPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return privPEM, pubPEM
}

func newTestTokenService(t *testing.T, ttl time.Duration) *TokenService {
	t.Helper()
	priv, pub := testKeyPair(t)
	svc, err := NewTokenService(priv, pub, ttl)
	if err != nil {
		t.Fatalf("new token service: %v", err)
	}
	return svc
}

func TestTokenService_IssueDecodeRoundTrip(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	token, issued, err := svc.Issue("alice", domain.RoleTeacher)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if token == "" {
		t.Fatalf("expected token, got empty string")
	}
	if issued.ExpiresAt != issued.IssuedAt+3600 {
		t.Fatalf("expected exp = iat + 3600, got iat=%d exp=%d", issued.IssuedAt, issued.ExpiresAt)
	}

	claims, err := svc.Decode(token)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if claims != issued {
		t.Fatalf("round-trip mismatch: issued %+v, decoded %+v", issued, claims)
	}
}

func TestTokenService_IssueRejectsMissingClaims(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	if _, _, err := svc.Issue("", domain.RoleAdmin); !errors.Is(err, domain.ErrInvalidClaims) {
		t.Fatalf("expected ErrInvalidClaims for empty sub, got %v", err)
	}
	if _, _, err := svc.Issue("alice", ""); !errors.Is(err, domain.ErrInvalidClaims) {
		t.Fatalf("expected ErrInvalidClaims for empty role, got %v", err)
	}
}

func TestTokenService_DecodeExpired(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	token, issued, err := svc.Issue("alice", domain.RoleStudent)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	// Move the verification clock past exp.
	svc.now = func() time.Time {
		return time.Unix(issued.ExpiresAt, 0).Add(time.Minute)
	}

	if _, err := svc.Decode(token); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenService_DecodeWrongKey(t *testing.T) {
	signer := newTestTokenService(t, time.Hour)
	verifier := newTestTokenService(t, time.Hour)

	token, _, err := signer.Issue("alice", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if _, err := verifier.Decode(token); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for foreign signature, got %v", err)
	}
}

func TestTokenService_DecodeMalformed(t *testing.T) {
	svc := newTestTokenService(t, time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := svc.Decode(token); !errors.Is(err, domain.ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid for %q, got %v", token, err)
		}
	}
}

func TestTokenService_VerificationOnly(t *testing.T) {
	priv, pub := testKeyPair(t)

	signer, err := NewTokenService(priv, pub, time.Hour)
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	verifier, err := NewTokenService(nil, pub, time.Hour)
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	if _, _, err := verifier.Issue("alice", domain.RoleAdmin); err == nil {
		t.Fatalf("expected issue to fail without a signing key")
	}

	token, _, err := signer.Issue("alice", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := verifier.Decode(token); err != nil {
		t.Fatalf("verification-only decode failed: %v", err)
	}
}

func TestTokenService_RejectsBadKeyMaterial(t *testing.T) {
	_, pub := testKeyPair(t)

	if _, err := NewTokenService([]byte("not a key"), pub, time.Hour); err == nil {
		t.Fatalf("expected error for malformed private key")
	}
	if _, err := NewTokenService(nil, []byte("not a key"), time.Hour); err == nil {
		t.Fatalf("expected error for malformed public key")
	}
}
