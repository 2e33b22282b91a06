package domain

import "errors"

var (
	// ErrInvalidCredentials covers malformed login/registration input as well
	// as failed password verification. Unknown email and wrong password
	// deliberately collapse into this one error.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserExists is the stable duplicate error surfaced when the storage
	// layer rejects a uniqueness constraint, whatever the backend raised.
	ErrUserExists = errors.New("user already exists")

	// ErrEmailExists is raised by the optimistic pre-check before persistence.
	// The storage constraint remains authoritative.
	ErrEmailExists = errors.New("email already exists")

	ErrUserNotFound = errors.New("user not found")
	ErrForbidden    = errors.New("access forbidden")

	// ErrInvalidClaims rejects a claims set missing sub or role at issue time.
	ErrInvalidClaims = errors.New("claims must include sub and role")

	// ErrTokenExpired and ErrTokenInvalid are the only decode failures exposed
	// to callers. Parsing detail never leaks past the token service.
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// IsDuplicate reports whether err is either flavour of uniqueness conflict.
func IsDuplicate(err error) bool {
	return errors.Is(err, ErrUserExists) || errors.Is(err, ErrEmailExists)
}
