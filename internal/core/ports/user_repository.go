package ports

import (
	"context"

	"github.com/userhub/user-service/internal/core/domain"
)

// UserRepository is the persistence contract for user accounts. Lookups return
// domain.ErrUserNotFound when no record matches; Create returns
// domain.ErrUserExists when a unique constraint (username, or email when
// present) is violated. Uniqueness is enforced by the storage layer, not here.
type UserRepository interface {
	// Create persists a new account and returns the backend-assigned
	// identifier. Callers treat the identifier as opaque.
	Create(ctx context.Context, input domain.NewUserInput, hashedPassword string) (string, error)

	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetAuthByEmail returns the account together with its password hash.
	// This is the only operation that exposes credential material.
	GetAuthByEmail(ctx context.Context, email string) (*domain.User, string, error)

	DeleteByUsername(ctx context.Context, username string) error
}
