package service

import (
	"context"
	"errors"
	"strings"

	"github.com/userhub/user-service/internal/core/domain"
	"github.com/userhub/user-service/internal/core/ports"
)

// UserService implements registration, authentication and account deletion on
// top of a backend-agnostic repository.
type UserService struct {
	repo ports.UserRepository
}

var _ ports.UserService = (*UserService)(nil)

func NewUserService(repo ports.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Register(ctx context.Context, input ports.RegisterInput) (string, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.ToLower(strings.TrimSpace(input.Email))

	if username == "" || input.Password == "" || !domain.ValidRole(input.Role) {
		return "", domain.ErrInvalidCredentials
	}

	// Optimistic uniqueness pre-check. Best effort only: the storage
	// constraint stays authoritative under concurrent registration.
	if email != "" {
		_, err := s.repo.GetByEmail(ctx, email)
		if err == nil {
			return "", domain.ErrEmailExists
		}
		if !errors.Is(err, domain.ErrUserNotFound) {
			return "", err
		}
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return "", err
	}

	id, err := s.repo.Create(ctx, domain.NewUserInput{
		Username: username,
		Email:    email,
		Role:     input.Role,
	}, hash)
	if err != nil {
		// Two concurrent registrations can both pass the pre-check; the
		// constraint violation lands here. Every storage failure collapses to
		// the one stable duplicate error so callers never see backend detail.
		return "", domain.ErrUserExists
	}
	return id, nil
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	identifier := strings.TrimSpace(email)
	if identifier == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, hash, err := s.repo.GetAuthByEmail(ctx, identifier)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Unknown email and wrong password are one outcome.
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !VerifyPassword(password, hash) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.repo.GetByUsername(ctx, username)
}

// DeleteUser removes the target account. Only an admin or the account owner
// may delete; anyone else gets domain.ErrForbidden.
func (s *UserService) DeleteUser(ctx context.Context, requester *domain.User, username string) error {
	if requester == nil {
		return domain.ErrForbidden
	}
	if requester.Role != domain.RoleAdmin && requester.Username != username {
		return domain.ErrForbidden
	}
	return s.repo.DeleteByUsername(ctx, username)
}
