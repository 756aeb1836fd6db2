package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// Session is a persisted remember-me login.
type Session struct {
	Token     string
	UserID    string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionRepo manages remember-me sessions.
type SessionRepo interface {
	// Create stores a new session.
	Create(ctx context.Context, s *Session) error

	// Get returns the session for token, or ErrNotFound.
	Get(ctx context.Context, token string) (*Session, error)

	// Delete removes the session for token. Deleting a missing token is not an error.
	Delete(ctx context.Context, token string) error

	// DeleteExpired removes every session that expired before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type sessionRepo struct {
	db *sql.DB
}

func (r *sessionRepo) Create(ctx context.Context, s *Session) error {
	query, args := builder().Insert(SessionsTable.Name).
		Columns("token", "user_id", "created_at", "expires_at").
		Values(s.Token, s.UserID, s.CreatedAt.Unix(), s.ExpiresAt.Unix()).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (r *sessionRepo) Get(ctx context.Context, token string) (*Session, error) {
	query, args := builder().Select("token", "user_id", "created_at", "expires_at").
		From(entsql.Table(SessionsTable.Name)).
		Where(entsql.EQ("token", token)).
		Limit(1).
		Query()

	var (
		s                Session
		created, expires int64
	)
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&s.Token, &s.UserID, &created, &expires)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query session: %w", err)
	}
	s.CreatedAt = time.Unix(created, 0).UTC()
	s.ExpiresAt = time.Unix(expires, 0).UTC()
	return &s, nil
}

func (r *sessionRepo) Delete(ctx context.Context, token string) error {
	query, args := builder().Delete(SessionsTable.Name).
		Where(entsql.EQ("token", token)).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *sessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	query, args := builder().Delete(SessionsTable.Name).
		Where(entsql.LTE("expires_at", now.Unix())).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}
