package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/userhub/user-service/internal/core/domain"
	"github.com/userhub/user-service/internal/core/ports"
)

const uniqueViolation = "23505"

var _ ports.UserRepository = (*PostgresUserRepository)(nil)

// PostgresUserRepository is the relational implementation of the user
// repository. The primary key is a serial integer, rendered as a string at
// the boundary so callers stay backend-agnostic.
type PostgresUserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// EnsureSchema creates the users table and its unique constraints.
func (r *PostgresUserRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id              SERIAL PRIMARY KEY,
			username        VARCHAR(50)  NOT NULL UNIQUE,
			email           VARCHAR(255) UNIQUE,
			role            VARCHAR(32)  NOT NULL,
			hashed_password TEXT         NOT NULL,
			created_at      TIMESTAMPTZ  NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure users schema: %w", err)
	}
	return nil
}

func (r *PostgresUserRepository) Create(ctx context.Context, input domain.NewUserInput, hashedPassword string) (string, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (username, email, role, hashed_password)
		VALUES ($1, NULLIF($2, ''), $3, $4)
		RETURNING id`,
		input.Username, input.Email, input.Role, hashedPassword,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return "", domain.ErrUserExists
		}
		return "", fmt.Errorf("insert user: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, `WHERE id = $1`, n)
}

func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, `WHERE username = $1`, username)
}

func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, `WHERE email = $1`, email)
}

func (r *PostgresUserRepository) GetAuthByEmail(ctx context.Context, email string) (*domain.User, string, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, username, COALESCE(email, ''), role, hashed_password
		FROM users WHERE email = $1`, email)

	var (
		user domain.User
		id   int64
		hash string
	)
	if err := row.Scan(&id, &user.Username, &user.Email, &user.Role, &hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", domain.ErrUserNotFound
		}
		return nil, "", fmt.Errorf("select user auth: %w", err)
	}
	user.ID = strconv.FormatInt(id, 10)
	return &user, hash, nil
}

func (r *PostgresUserRepository) DeleteByUsername(ctx context.Context, username string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE username = $1`, username)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *PostgresUserRepository) findOne(ctx context.Context, where string, arg any) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, COALESCE(email, ''), role FROM users `+where, arg)

	var (
		user domain.User
		id   int64
	)
	if err := row.Scan(&id, &user.Username, &user.Email, &user.Role); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("select user: %w", err)
	}
	user.ID = strconv.FormatInt(id, 10)
	return &user, nil
}
