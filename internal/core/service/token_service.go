package service

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/userhub/user-service/internal/core/domain"
	"github.com/userhub/user-service/internal/core/ports"
)

const defaultTokenTTL = time.Hour

// TokenService issues and validates RS256-signed access tokens. The keypair
// is loaded once at startup and immutable afterwards; a service holding only
// the public key can still Decode.
type TokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	ttl        time.Duration
	now        func() time.Time
}

var _ ports.TokenService = (*TokenService)(nil)

// tokenClaims is the wire shape of the signed payload: {sub, role, iat, exp}.
type tokenClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewTokenService parses the PEM-encoded keypair. privatePEM may be empty for
// verification-only deployments; publicPEM is always required. A key that
// fails to parse is a configuration error and should abort startup.
func NewTokenService(privatePEM, publicPEM []byte, ttl time.Duration) (*TokenService, error) {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	pub, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
	if err != nil {
		return nil, fmt.Errorf("parse public key: %w", err)
	}

	s := &TokenService{publicKey: pub, ttl: ttl, now: time.Now}

	if len(privatePEM) > 0 {
		priv, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
		if err != nil {
			return nil, fmt.Errorf("parse private key: %w", err)
		}
		s.privateKey = priv
	}

	return s, nil
}

// SetClock overrides the wall clock used for issuing and validating tokens.
// Intended for tests.
func (s *TokenService) SetClock(now func() time.Time) {
	s.now = now
}

// Issue signs {sub, role, iat, exp} with the process-wide private key.
// ExpiresAt is IssuedAt plus the configured TTL, in whole epoch seconds.
func (s *TokenService) Issue(sub, role string) (string, domain.Claims, error) {
	if sub == "" || role == "" {
		return "", domain.Claims{}, domain.ErrInvalidClaims
	}
	if s.privateKey == nil {
		return "", domain.Claims{}, errors.New("token service: signing key not configured")
	}

	now := s.now().UTC().Truncate(time.Second)
	exp := now.Add(s.ttl)

	tok := jwt.NewWithClaims(jwt.SigningMethodRS256, tokenClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})

	signed, err := tok.SignedString(s.privateKey)
	if err != nil {
		return "", domain.Claims{}, fmt.Errorf("sign token: %w", err)
	}

	return signed, domain.Claims{
		Subject:   sub,
		Role:      role,
		IssuedAt:  now.Unix(),
		ExpiresAt: exp.Unix(),
	}, nil
}

// Decode verifies signature and expiry. Callers see exactly two failure
// kinds: domain.ErrTokenExpired and domain.ErrTokenInvalid.
func (s *TokenService) Decode(token string) (domain.Claims, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (interface{}, error) { return s.publicKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Claims{}, domain.ErrTokenExpired
		}
		return domain.Claims{}, domain.ErrTokenInvalid
	}
	if !parsed.Valid {
		return domain.Claims{}, domain.ErrTokenInvalid
	}

	out := domain.Claims{Subject: claims.Subject, Role: claims.Role}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Unix()
	}
	return out, nil
}
