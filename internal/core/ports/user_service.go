package ports

import (
	"context"

	"github.com/userhub/user-service/internal/core/domain"
)

// RegisterInput is the raw registration payload before normalization.
type RegisterInput struct {
	Username string
	Password string
	Email    string
	Role     string
}

type UserService interface {
	// Register normalizes the input, hashes the password and persists the
	// account, returning the new opaque identifier.
	Register(ctx context.Context, input RegisterInput) (string, error)

	// Authenticate verifies an email/password pair. A missing account and a
	// wrong password both return domain.ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)

	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// DeleteUser removes the target account on behalf of the requester.
	// Only an admin or the account owner may delete.
	DeleteUser(ctx context.Context, requester *domain.User, username string) error
}
