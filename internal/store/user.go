package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

var (
	// ErrNotFound is returned when a row does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique column already holds the value.
	ErrConflict = errors.New("already exists")
)

// User is a registered account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// UserRepo manages accounts.
type UserRepo interface {
	// Create inserts u. It returns ErrConflict if the email is taken.
	Create(ctx context.Context, u *User) error

	// ByEmail returns the user with the given email, or ErrNotFound.
	ByEmail(ctx context.Context, email string) (*User, error)

	// ByID returns the user with the given id, or ErrNotFound.
	ByID(ctx context.Context, id string) (*User, error)

	// Count returns the number of accounts.
	Count(ctx context.Context) (int, error)
}

type userRepo struct {
	db *sql.DB
}

var userColumns = []string{"id", "name", "email", "password_hash", "created_at"}

func (r *userRepo) Create(ctx context.Context, u *User) error {
	query, args := builder().Insert(UsersTable.Name).
		Columns(userColumns...).
		Values(u.ID, u.Name, u.Email, u.PasswordHash, u.CreatedAt.Unix()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("create user %s: %w", u.Email, ErrConflict)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *userRepo) ByEmail(ctx context.Context, email string) (*User, error) {
	return r.queryOne(ctx, entsql.EQ("email", email))
}

func (r *userRepo) ByID(ctx context.Context, id string) (*User, error) {
	return r.queryOne(ctx, entsql.EQ("id", id))
}

func (r *userRepo) Count(ctx context.Context) (int, error) {
	query, args := builder().Select(entsql.Count("*")).
		From(entsql.Table(UsersTable.Name)).
		Query()
	var n int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (r *userRepo) queryOne(ctx context.Context, pred *entsql.Predicate) (*User, error) {
	query, args := builder().Select(userColumns...).
		From(entsql.Table(UsersTable.Name)).
		Where(pred).
		Limit(1).
		Query()

	var (
		u       User
		created int64
	)
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &created)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	u.CreatedAt = time.Unix(created, 0).UTC()
	return &u, nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
