package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/frostline/holidayquest/internal/progress"
	"github.com/frostline/holidayquest/internal/store"
)

const (
	keyUserID = "uid"
	keyEmail  = "email"
	keyName   = "name"
)

// SessionConfig configures the cookie session.
type SessionConfig struct {
	Name   string `mapstructure:"name"`
	Secret string `mapstructure:"secret"`
	MaxAge int    `mapstructure:"max_age"` // seconds
	Secure bool   `mapstructure:"secure"`
}

// Sessions reads and writes signed cookie sessions.
type Sessions struct {
	store *sessions.CookieStore
	name  string
}

// NewSessions creates a cookie session manager. An empty secret generates a
// random key, so sessions do not survive a restart.
func NewSessions(cfg SessionConfig, logger *slog.Logger) *Sessions {
	secret := []byte(cfg.Secret)
	if len(secret) == 0 {
		if logger != nil {
			logger.Warn("no session secret configured, using a random key")
		}
		secret = securecookie.GenerateRandomKey(32)
	}
	name := cfg.Name
	if name == "" {
		name = "holidayquest_session"
	}

	cs := sessions.NewCookieStore(secret)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		Secure:   cfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return &Sessions{store: cs, name: name}
}

// Start stores the user in the session cookie.
func (s *Sessions) Start(w http.ResponseWriter, r *http.Request, u store.User) error {
	sess, _ := s.store.Get(r, s.name)
	sess.Values[keyUserID] = u.ID
	sess.Values[keyEmail] = u.Email
	sess.Values[keyName] = u.FullName
	return sess.Save(r, w)
}

// End clears the session cookie.
func (s *Sessions) End(w http.ResponseWriter, r *http.Request) error {
	sess, _ := s.store.Get(r, s.name)
	sess.Values = map[any]any{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// Read returns the session carried by r. Missing or tampered cookies yield
// the anonymous session.
func (s *Sessions) Read(r *http.Request) progress.Session {
	sess, err := s.store.Get(r, s.name)
	if err != nil {
		return progress.Session{}
	}
	uid, _ := sess.Values[keyUserID].(string)
	email, _ := sess.Values[keyEmail].(string)
	name, _ := sess.Values[keyName].(string)
	return progress.Session{UserID: uid, Email: email, Name: name}
}

// Middleware resolves the cookie into a progress.Session on the request
// context.
func (s *Sessions) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), s.Read(r))))
	})
}

type sessionKey struct{}

// WithSession attaches sess to ctx.
func WithSession(ctx context.Context, sess progress.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, sess)
}

// FromContext returns the session on ctx, or the anonymous session.
func FromContext(ctx context.Context) progress.Session {
	sess, _ := ctx.Value(sessionKey{}).(progress.Session)
	return sess
}
