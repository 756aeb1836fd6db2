package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/careconnect-ai/careconnect/internal/store"
)

type memTokens struct {
	token string
}

func (m *memTokens) Load() (string, error) { return m.token, nil }
func (m *memTokens) Save(t string) error   { m.token = t; return nil }
func (m *memTokens) Clear() error          { m.token = ""; return nil }

type fixture struct {
	st     *store.Store
	tokens *memTokens
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st, err := store.Open("file::memory:?cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() {
		st.DB().Exec("DELETE FROM sessions")
		st.DB().Exec("DELETE FROM users")
		st.Close()
	})
	return &fixture{
		st:     st,
		tokens: &memTokens{},
		now:    time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) service(cfg Config) *Service {
	return NewService(f.st.UserRepo(), f.st.SessionRepo(), cfg,
		WithTokenStore(f.tokens),
		WithClock(func() time.Time { return f.now }),
		WithHashCost(bcrypt.MinCost),
	)
}

func TestNewServiceStartsLoading(t *testing.T) {
	f := newFixture(t)
	svc := f.service(DefaultConfig())
	assert.Equal(t, StatusLoading, svc.Status())
	assert.Nil(t, svc.Current())
}

func TestSignUpSignsIn(t *testing.T) {
	f := newFixture(t)
	svc := f.service(DefaultConfig())
	ctx := context.Background()

	u, err := svc.SignUp(ctx, "  Sam Carer ", "Sam@Example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Sam Carer", u.Name)
	assert.Equal(t, "sam@example.com", u.Email)
	assert.Equal(t, StatusAuthenticated, svc.Status())
	assert.Equal(t, u.ID, svc.Current().ID)
	assert.Empty(t, f.tokens.token, "sign-up does not remember the session")

	rec, err := f.st.UserRepo().ByEmail(ctx, "sam@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", rec.PasswordHash)
}

func TestSignUpDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	svc := f.service(DefaultConfig())
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "Sam", "sam@example.com", "secret1")
	require.NoError(t, err)
	_, err = svc.SignUp(ctx, "Other", "SAM@example.com", "secret2")
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSignUpValidation(t *testing.T) {
	tests := []struct {
		name, user, email, password string
		field                       string
	}{
		{"missing name", "", "a@b.co", "secret1", "name"},
		{"bad email", "Sam", "not-an-email", "secret1", "email"},
		{"display name email", "Sam", "Sam <a@b.co>", "secret1", "email"},
		{"no domain dot", "Sam", "a@localhost", "secret1", "email"},
		{"short password", "Sam", "a@b.co", "12345", "password"},
		{"empty password", "Sam", "a@b.co", "", "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			svc := f.service(DefaultConfig())
			_, err := svc.SignUp(context.Background(), tt.user, tt.email, tt.password)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidInput)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestSignInWrongPassword(t *testing.T) {
	f := newFixture(t)
	svc := f.service(DefaultConfig())
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "Sam", "sam@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, svc.SignOut(ctx))

	_, err = svc.SignIn(ctx, "sam@example.com", "wrong-password", false)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, StatusUnauthenticated, svc.Status())

	_, err = svc.SignIn(ctx, "nobody@example.com", "secret1", false)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRememberAndRestore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first := f.service(DefaultConfig())
	_, err := first.SignUp(ctx, "Sam", "sam@example.com", "secret1")
	require.NoError(t, err)
	u, err := first.SignIn(ctx, "sam@example.com", "secret1", true)
	require.NoError(t, err)
	require.NotEmpty(t, f.tokens.token)

	// A fresh service, as on the next launch.
	second := f.service(DefaultConfig())
	restored, err := second.Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, u.ID, restored.ID)
	assert.Equal(t, StatusAuthenticated, second.Status())
}

func TestRestoreWithoutToken(t *testing.T) {
	f := newFixture(t)
	svc := f.service(DefaultConfig())

	u, err := svc.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Equal(t, StatusUnauthenticated, svc.Status())
}

func TestRestoreExpiredSession(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	cfg := DefaultConfig()
	cfg.SessionTTL = time.Hour

	svc := f.service(cfg)
	_, err := svc.SignUp(ctx, "Sam", "sam@example.com", "secret1")
	require.NoError(t, err)
	_, err = svc.SignIn(ctx, "sam@example.com", "secret1", true)
	require.NoError(t, err)
	token := f.tokens.token

	f.now = f.now.Add(2 * time.Hour)
	next := f.service(cfg)
	u, err := next.Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Equal(t, StatusUnauthenticated, next.Status())
	assert.Empty(t, f.tokens.token)

	_, err = f.st.SessionRepo().Get(ctx, token)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRestoreUnknownToken(t *testing.T) {
	f := newFixture(t)
	f.tokens.token = "stale"
	svc := f.service(DefaultConfig())

	u, err := svc.Restore(context.Background())
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.Empty(t, f.tokens.token)
}

func TestSignOutForgetsToken(t *testing.T) {
	f := newFixture(t)
	svc := f.service(DefaultConfig())
	ctx := context.Background()

	_, err := svc.SignUp(ctx, "Sam", "sam@example.com", "secret1")
	require.NoError(t, err)
	_, err = svc.SignIn(ctx, "sam@example.com", "secret1", true)
	require.NoError(t, err)
	token := f.tokens.token

	require.NoError(t, svc.SignOut(ctx))
	assert.Equal(t, StatusUnauthenticated, svc.Status())
	assert.Nil(t, svc.Current())
	assert.Empty(t, f.tokens.token)

	_, err = f.st.SessionRepo().Get(ctx, token)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSignInThrottled(t *testing.T) {
	f := newFixture(t)
	svc := f.service(Config{SessionTTL: time.Hour, SignInBurst: 2, SignInEvery: time.Hour})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.SignIn(ctx, "sam@example.com", "secret1", false)
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	_, err := svc.SignIn(ctx, "sam@example.com", "secret1", false)
	assert.ErrorIs(t, err, ErrTooManyAttempts)
}

func TestCurrentReturnsCopy(t *testing.T) {
	f := newFixture(t)
	svc := f.service(DefaultConfig())

	_, err := svc.SignUp(context.Background(), "Sam", "sam@example.com", "secret1")
	require.NoError(t, err)
	u := svc.Current()
	u.Name = "changed"
	assert.Equal(t, "Sam", svc.Current().Name)
}

func TestFileTokenStore(t *testing.T) {
	ts := FileTokenStore{Path: filepath.Join(t.TempDir(), "sub", "session")}

	tok, err := ts.Load()
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, ts.Save("abc-123"))
	tok, err = ts.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc-123", tok)

	require.NoError(t, ts.Clear())
	require.NoError(t, ts.Clear())
	tok, err = ts.Load()
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "loading", StatusLoading.String())
	assert.Equal(t, "unauthenticated", StatusUnauthenticated.String())
	assert.Equal(t, "authenticated", StatusAuthenticated.String())
}

func TestFieldErrorsJoined(t *testing.T) {
	err := errors.Join(ValidateEmail("bad"), ValidatePassword("123"))
	fields := FieldErrors(err)
	require.Len(t, fields, 2)
	assert.Equal(t, "email", fields[0].Field)
	assert.Equal(t, "password", fields[1].Field)

	assert.Empty(t, FieldErrors(ErrInvalidCredentials))
}
