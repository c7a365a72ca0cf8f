// Package auth handles accounts, password hashing and cookie sessions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/frostline/holidayquest/internal/apperr"
	"github.com/frostline/holidayquest/internal/store"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 6

// ErrInvalidCredentials is returned when the email or password is wrong.
var ErrInvalidCredentials = errors.New("invalid email or password")

// TxRunner runs work in a transaction. *store.Store satisfies it.
type TxRunner interface {
	InTx(ctx context.Context, fn func(store.Repos) error) error
	UserRepo() store.UserRepo
}

// SignupInput is the sign-up form.
type SignupInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Confirm  string `json:"confirmPassword"`
	FullName string `json:"fullName"`
}

// Validate checks the form without touching the store.
func (in SignupInput) Validate() error {
	email := strings.TrimSpace(in.Email)
	if email == "" {
		return apperr.Invalid("email", "is required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return apperr.Invalid("email", "is not a valid address")
	}
	if utf8.RuneCountInString(in.Password) < MinPasswordLength {
		return apperr.Invalid("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	if in.Password != in.Confirm {
		return apperr.Invalid("confirmPassword", "passwords do not match")
	}
	if utf8.RuneCountInString(in.FullName) > 100 {
		return apperr.Invalid("fullName", "must be at most 100 characters")
	}
	return nil
}

// Service registers and authenticates users.
type Service struct {
	db     TxRunner
	cost   int
	logger *slog.Logger
}

// NewService creates a Service. cost is the bcrypt cost; zero selects the
// library default.
func NewService(db TxRunner, cost int, logger *slog.Logger) *Service {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{db: db, cost: cost, logger: logger}
}

// Signup creates a user and seeds their six game slots in one transaction.
func (s *Service) Signup(ctx context.Context, in SignupInput) (store.User, error) {
	if err := in.Validate(); err != nil {
		return store.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return store.User{}, fmt.Errorf("hash password: %w", err)
	}

	u := store.User{
		Email:        in.Email,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: string(hash),
	}
	err = s.db.InTx(ctx, func(r store.Repos) error {
		if err := r.Users.Create(ctx, &u); err != nil {
			return err
		}
		return r.Progress.Seed(ctx, u.ID)
	})
	if errors.Is(err, store.ErrEmailTaken) {
		return store.User{}, apperr.Invalid("email", "is already registered")
	}
	if err != nil {
		return store.User{}, err
	}

	s.logger.Info("user signed up", "user", u.ID)
	return u, nil
}

// Login checks the password and returns the user.
func (s *Service) Login(ctx context.Context, email, password string) (store.User, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return store.User{}, apperr.Invalid("credentials", "email and password are required")
	}
	u, err := s.db.UserRepo().ByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return store.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return store.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return store.User{}, ErrInvalidCredentials
	}
	return u, nil
}
