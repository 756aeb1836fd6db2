// Package auth provides the caregiver account session used to gate the
// dashboard: sign-up, sign-in with optional remember-me, sign-out and
// restoring a remembered session at startup.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/time/rate"

	"github.com/careconnect-ai/careconnect/internal/store"
)

// Status is the session state seen by screens.
type Status int

const (
	StatusLoading Status = iota
	StatusUnauthenticated
	StatusAuthenticated
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusUnauthenticated:
		return "unauthenticated"
	case StatusAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// User is the signed-in caregiver.
type User struct {
	ID    string
	Name  string
	Email string
}

// Config controls sessions and throttling.
type Config struct {
	SessionTTL  time.Duration
	SignInBurst int
	SignInEvery time.Duration
}

// DefaultConfig returns a 30-day remember-me and 5 quick attempts
// refilling every 2 seconds.
func DefaultConfig() Config {
	return Config{
		SessionTTL:  30 * 24 * time.Hour,
		SignInBurst: 5,
		SignInEvery: 2 * time.Second,
	}
}

// Option configures a Service.
type Option func(*Service)

// WithTokenStore sets where the remember-me token is kept.
func WithTokenStore(ts TokenStore) Option {
	return func(s *Service) { s.tokens = ts }
}

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithHashCost sets the bcrypt cost.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

// Service tracks the current session. It is safe for concurrent use.
type Service struct {
	users    store.UserRepo
	sessions store.SessionRepo
	tokens   TokenStore
	limiter  *rate.Limiter
	cfg      Config
	log      *slog.Logger
	now      func() time.Time
	cost     int

	mu     sync.RWMutex
	status Status
	user   *User
	token  string
}

// NewService creates a Service in the loading state. Call Restore to
// resolve it.
func NewService(users store.UserRepo, sessions store.SessionRepo, cfg Config, opts ...Option) *Service {
	if cfg.SignInBurst < 1 {
		cfg.SignInBurst = 1
	}
	limit := rate.Inf
	if cfg.SignInEvery > 0 {
		limit = rate.Every(cfg.SignInEvery)
	}
	s := &Service{
		users:    users,
		sessions: sessions,
		tokens:   nopTokenStore{},
		limiter:  rate.NewLimiter(limit, cfg.SignInBurst),
		cfg:      cfg,
		log:      slog.New(slog.DiscardHandler),
		now:      time.Now,
		cost:     bcrypt.DefaultCost,
		status:   StatusLoading,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Status returns the current session state.
func (s *Service) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// Current returns a copy of the signed-in user, or nil.
func (s *Service) Current() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// SignUp registers an account and signs it in without remember-me.
func (s *Service) SignUp(ctx context.Context, name, email, password string) (*User, error) {
	name = strings.TrimSpace(name)
	email = NormalizeEmail(email)
	if err := errors.Join(ValidateName(name), ValidateEmail(email), ValidatePassword(password)); err != nil {
		return nil, err
	}

	if _, err := s.users.ByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("look up email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	rec := &store.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, rec); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	s.log.Info("account created", "user", rec.ID)

	return s.SignIn(ctx, email, password, false)
}

// SignIn checks credentials and starts a session. With remember set, a
// token is persisted so Restore can resume the session next run.
func (s *Service) SignIn(ctx context.Context, email, password string, remember bool) (*User, error) {
	if !s.limiter.Allow() {
		return nil, ErrTooManyAttempts
	}
	email = NormalizeEmail(email)
	if err := errors.Join(ValidateEmail(email), ValidatePassword(password)); err != nil {
		return nil, err
	}

	rec, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)); err != nil {
		s.log.Debug("sign-in rejected", "user", rec.ID)
		return nil, ErrInvalidCredentials
	}

	var token string
	if remember {
		token, err = s.issueToken(ctx, rec.ID)
		if err != nil {
			return nil, err
		}
	}

	u := &User{ID: rec.ID, Name: rec.Name, Email: rec.Email}
	s.mu.Lock()
	prev := s.token
	s.status = StatusAuthenticated
	s.user = u
	s.token = token
	s.mu.Unlock()

	if prev != "" && prev != token {
		if err := s.sessions.Delete(ctx, prev); err != nil {
			s.log.Warn("drop previous session", "err", err)
		}
	}
	s.log.Info("signed in", "user", u.ID, "remember", remember)
	out := *u
	return &out, nil
}

func (s *Service) issueToken(ctx context.Context, userID string) (string, error) {
	now := s.now().UTC()
	sess := &store.Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.cfg.SessionTTL),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	if err := s.tokens.Save(sess.Token); err != nil {
		return "", err
	}
	return sess.Token, nil
}

// SignOut ends the session and forgets any remembered token.
func (s *Service) SignOut(ctx context.Context) error {
	s.mu.Lock()
	token := s.token
	s.status = StatusUnauthenticated
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	var errs []error
	if token != "" {
		errs = append(errs, s.sessions.Delete(ctx, token))
	}
	errs = append(errs, s.tokens.Clear())
	s.log.Info("signed out")
	return errors.Join(errs...)
}

// Restore resumes a remembered session. It returns nil, nil when there is
// none; in every case the status leaves StatusLoading.
func (s *Service) Restore(ctx context.Context) (*User, error) {
	u, token, err := s.restore(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if u == nil {
		if s.status == StatusLoading {
			s.status = StatusUnauthenticated
		}
		return nil, err
	}
	s.status = StatusAuthenticated
	s.user = u
	s.token = token
	out := *u
	return &out, nil
}

func (s *Service) restore(ctx context.Context) (*User, string, error) {
	token, err := s.tokens.Load()
	if err != nil || token == "" {
		return nil, "", err
	}

	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", s.tokens.Clear()
		}
		return nil, "", err
	}
	if sess.Expired(s.now()) {
		s.log.Debug("remembered session expired", "user", sess.UserID)
		return nil, "", errors.Join(s.sessions.Delete(ctx, token), s.tokens.Clear())
	}

	rec, err := s.users.ByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, "", s.tokens.Clear()
		}
		return nil, "", err
	}
	return &User{ID: rec.ID, Name: rec.Name, Email: rec.Email}, token, nil
}
