package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/frostline/holidayquest/internal/apperr"
	"github.com/frostline/holidayquest/internal/progress"
	"github.com/frostline/holidayquest/internal/store"
)

func newTestService(t *testing.T) (*Service, *store.Store) {
	t.Helper()
	s, err := store.Open(context.Background(), store.Options{DSN: filepath.Join(t.TempDir(), "auth.db")})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return NewService(s, bcrypt.MinCost, nil), s
}

func TestSignupInputValidate(t *testing.T) {
	valid := SignupInput{Email: "elf@north.pole", Password: "secret1", Confirm: "secret1", FullName: "Elf"}

	tests := []struct {
		name  string
		mod   func(*SignupInput)
		field string
	}{
		{"valid", func(*SignupInput) {}, ""},
		{"missing email", func(in *SignupInput) { in.Email = " " }, "email"},
		{"bad email", func(in *SignupInput) { in.Email = "elf" }, "email"},
		{"display name form", func(in *SignupInput) { in.Email = "Elf <elf@north.pole>" }, "email"},
		{"short password", func(in *SignupInput) { in.Password, in.Confirm = "12345", "12345" }, "password"},
		{"mismatch", func(in *SignupInput) { in.Confirm = "secret2" }, "confirmPassword"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mod(&in)
			err := in.Validate()
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var v *apperr.ErrValidation
			require.True(t, errors.As(err, &v), "got %v", err)
			assert.Equal(t, tt.field, v.Field)
		})
	}
}

func TestSignupSeedsProgress(t *testing.T) {
	svc, s := newTestService(t)
	ctx := context.Background()

	u, err := svc.Signup(ctx, SignupInput{Email: "elf@north.pole", Password: "secret1", Confirm: "secret1", FullName: " Elf "})
	require.NoError(t, err)
	assert.Equal(t, "Elf", u.FullName)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	recs, err := s.ProgressRepo().Get(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, recs, 6)
	assert.True(t, recs[0].Unlocked)

	_, err = svc.Signup(ctx, SignupInput{Email: "ELF@north.pole", Password: "secret1", Confirm: "secret1"})
	var v *apperr.ErrValidation
	require.True(t, errors.As(err, &v), "duplicate email: %v", err)
	assert.Equal(t, "email", v.Field)
}

func TestSignupValidationSkipsStore(t *testing.T) {
	svc, s := newTestService(t)
	_, err := svc.Signup(context.Background(), SignupInput{Email: "elf@north.pole", Password: "abc", Confirm: "abc"})
	assert.True(t, apperr.IsValidation(err))

	users, err := s.UserRepo().List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Signup(ctx, SignupInput{Email: "elf@north.pole", Password: "secret1", Confirm: "secret1"})
	require.NoError(t, err)

	u, err := svc.Login(ctx, "Elf@North.Pole", "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.ID, u.ID)

	_, err = svc.Login(ctx, "elf@north.pole", "wrong!")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "ghost@north.pole", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "")
	assert.True(t, apperr.IsValidation(err))
}

func TestSessionRoundTrip(t *testing.T) {
	sm := NewSessions(SessionConfig{Secret: "0123456789abcdef0123456789abcdef", MaxAge: 3600}, nil)
	u := store.User{ID: "u-1", Email: "elf@north.pole", FullName: "Elf"}

	rec := httptest.NewRecorder()
	require.NoError(t, sm.Start(rec, httptest.NewRequest(http.MethodPost, "/login", nil), u))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/api/progress", nil)
	req.AddCookie(cookies[0])

	var got progress.Session
	sm.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = FromContext(r.Context())
	})).ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, progress.Session{UserID: "u-1", Email: "elf@north.pole", Name: "Elf"}, got)

	rec = httptest.NewRecorder()
	require.NoError(t, sm.End(rec, req))
	require.Len(t, rec.Result().Cookies(), 1)
	assert.Less(t, rec.Result().Cookies()[0].MaxAge, 0)
}

func TestSessionRejectsForeignCookie(t *testing.T) {
	a := NewSessions(SessionConfig{Secret: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"}, nil)
	b := NewSessions(SessionConfig{}, nil)

	rec := httptest.NewRecorder()
	require.NoError(t, a.Start(rec, httptest.NewRequest(http.MethodPost, "/", nil), store.User{ID: "u-1"}))

	cookie := rec.Result().Cookies()[0]
	// The session registry is cached per request, so each store reads a
	// request of its own.
	withCookie := func() *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(cookie)
		return req
	}
	assert.False(t, b.Read(withCookie()).Authenticated())
	assert.True(t, a.Read(withCookie()).Authenticated())
}

func TestFromContextDefault(t *testing.T) {
	assert.False(t, FromContext(context.Background()).Authenticated())
}
