package ports

import "github.com/userhub/user-service/internal/core/domain"

// TokenService signs and validates access tokens. Issue fails with
// domain.ErrInvalidClaims when sub or role is empty; Decode fails with
// domain.ErrTokenExpired or domain.ErrTokenInvalid, never anything else.
type TokenService interface {
	Issue(sub, role string) (token string, claims domain.Claims, err error)
	Decode(token string) (domain.Claims, error)
}
