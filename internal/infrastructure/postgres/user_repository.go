package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/nexus-bills/internal/domain"
	"github.com/jhoicas/nexus-bills/internal/domain/entity"
	"github.com/jhoicas/nexus-bills/internal/domain/repository"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo accounts on PostgreSQL.
type UserRepo struct {
	q Querier
}

// NewUserRepository accepts the pool or a transaction.
func NewUserRepository(q Querier) *UserRepo {
	return &UserRepo{q: q}
}

const userColumns = `id, username, COALESCE(email, ''), password_hash, first_name, last_name,
	status, last_login_at, created_at, updated_at`

func (r *UserRepo) Create(ctx context.Context, u *entity.User) error {
	const query = `
		INSERT INTO users (id, username, email, password_hash, first_name, last_name,
		                   status, last_login_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query,
		u.ID, u.Username, nullIfEmpty(u.Email), u.PasswordHash, u.FirstName, u.LastName,
		u.Status, u.LastLoginAt, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		return mapUserWriteErr("insert user", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByUsername matches exactly; usernames are case sensitive.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *UserRepo) Update(ctx context.Context, u *entity.User) error {
	const query = `
		UPDATE users
		SET email = $2, password_hash = $3, first_name = $4, last_name = $5,
		    status = $6, last_login_at = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		u.ID, nullIfEmpty(u.Email), u.PasswordHash, u.FirstName, u.LastName,
		u.Status, u.LastLoginAt, u.UpdatedAt,
	)
	if err != nil {
		return mapUserWriteErr("update user", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) findOne(ctx context.Context, query string, arg string) (*entity.User, error) {
	var u entity.User
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Status, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: get user: %w", err)
	}
	return &u, nil
}

func mapUserWriteErr(op string, err error) error {
	if constraint, ok := uniqueViolation(err); ok {
		if constraint == "users_email_key" {
			return domain.ErrEmailAlreadyExists
		}
		return domain.ErrUsernameTaken
	}
	return fmt.Errorf("postgres: %s: %w", op, err)
}
