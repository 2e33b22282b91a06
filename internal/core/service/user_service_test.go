package service

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/userhub/user-service/internal/core/domain"
	"github.com/userhub/user-service/internal/core/ports"
)

type stubUser struct {
	user domain.User
	hash string
}

type stubUserRepo struct {
	users     map[string]*stubUser // keyed by username
	nextID    int
	createErr error
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*stubUser), nextID: 1}
}

func (r *stubUserRepo) Create(_ context.Context, input domain.NewUserInput, hashedPassword string) (string, error) {
	if r.createErr != nil {
		return "", r.createErr
	}
	if _, exists := r.users[input.Username]; exists {
		return "", domain.ErrUserExists
	}
	id := strconv.Itoa(r.nextID)
	r.nextID++
	r.users[input.Username] = &stubUser{
		user: domain.User{ID: id, Username: input.Username, Email: input.Email, Role: input.Role},
		hash: hashedPassword,
	}
	return id, nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	for _, su := range r.users {
		if su.user.ID == id {
			u := su.user
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	if su, ok := r.users[username]; ok {
		u := su.user
		return &u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, su := range r.users {
		if su.user.Email != "" && su.user.Email == email {
			u := su.user
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) GetAuthByEmail(_ context.Context, email string) (*domain.User, string, error) {
	for _, su := range r.users {
		if su.user.Email != "" && su.user.Email == email {
			u := su.user
			return &u, su.hash, nil
		}
	}
	return nil, "", domain.ErrUserNotFound
}

func (r *stubUserRepo) DeleteByUsername(_ context.Context, username string) error {
	if _, ok := r.users[username]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.users, username)
	return nil
}

var _ ports.UserRepository = (*stubUserRepo)(nil)

func TestUserService_Register_Normalizes(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo)

	id, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "  Alice  ",
		Password: "pass1234",
		Email:    "ALICE@EXAMPLE.COM",
		Role:     domain.RoleStudent,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if id == "" {
		t.Fatalf("expected an id")
	}

	stored, ok := repo.users["Alice"]
	if !ok {
		t.Fatalf("username not trimmed; stored keys: %v", repo.users)
	}
	if stored.user.Email != "alice@example.com" {
		t.Fatalf("email not lower-cased: %q", stored.user.Email)
	}
	if stored.hash == "pass1234" {
		t.Fatalf("password stored in plaintext")
	}
	if !VerifyPassword("pass1234", stored.hash) {
		t.Fatalf("stored hash does not verify against the password")
	}
}

func TestUserService_Register_InvalidInput(t *testing.T) {
	svc := NewUserService(newStubUserRepo())

	cases := []ports.RegisterInput{
		{Username: "", Password: "pass1234", Role: domain.RoleStudent},
		{Username: "bob", Password: "", Role: domain.RoleStudent},
		{Username: "bob", Password: "pass1234", Role: "superuser"},
	}
	for _, input := range cases {
		if _, err := svc.Register(context.Background(), input); !errors.Is(err, domain.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials for %+v, got %v", input, err)
		}
	}
}

func TestUserService_Register_DuplicateEmailPreCheck(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice", Password: "pass1234", Email: "a@example.com", Role: domain.RoleTeacher,
	}); err != nil {
		t.Fatalf("first register failed: %v", err)
	}

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "other", Password: "pass1234", Email: "A@EXAMPLE.COM", Role: domain.RoleTeacher,
	})
	if !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
	if !domain.IsDuplicate(err) {
		t.Fatalf("pre-check error not classified as duplicate")
	}
}

func TestUserService_Register_StorageFailureCollapsesToDuplicate(t *testing.T) {
	// Two concurrent registrations both pass the pre-check; the constraint
	// violation may surface as any backend error. All of them collapse.
	repo := newStubUserRepo()
	repo.createErr = errors.New("pq: duplicate key value violates unique constraint")
	svc := NewUserService(repo)

	_, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "alice", Password: "pass1234", Role: domain.RoleStudent,
	})
	if !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestUserService_Authenticate(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo)

	if _, err := svc.Register(context.Background(), ports.RegisterInput{
		Username: "carol", Password: "s3cret-pw", Email: "carol@example.com", Role: domain.RoleAdmin,
	}); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	user, err := svc.Authenticate(context.Background(), "carol@example.com", "s3cret-pw")
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if user.Username != "carol" || user.Role != domain.RoleAdmin {
		t.Fatalf("unexpected user: %+v", user)
	}

	// Wrong password and unknown email must be indistinguishable.
	if _, err := svc.Authenticate(context.Background(), "carol@example.com", "wrong"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for wrong password, got %v", err)
	}
	if _, err := svc.Authenticate(context.Background(), "nobody@example.com", "s3cret-pw"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestUserService_DeleteUser_Policy(t *testing.T) {
	repo := newStubUserRepo()
	svc := NewUserService(repo)

	for _, username := range []string{"target", "bystander"} {
		if _, err := svc.Register(context.Background(), ports.RegisterInput{
			Username: username, Password: "pass1234", Role: domain.RoleStudent,
		}); err != nil {
			t.Fatalf("register %s failed: %v", username, err)
		}
	}

	bystander := &domain.User{Username: "bystander", Role: domain.RoleStudent}
	if err := svc.DeleteUser(context.Background(), bystander, "target"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for unrelated requester, got %v", err)
	}

	owner := &domain.User{Username: "target", Role: domain.RoleStudent}
	if err := svc.DeleteUser(context.Background(), owner, "target"); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}

	admin := &domain.User{Username: "root", Role: domain.RoleAdmin}
	if err := svc.DeleteUser(context.Background(), admin, "bystander"); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}

	if err := svc.DeleteUser(context.Background(), admin, "bystander"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound for repeated delete, got %v", err)
	}
}
