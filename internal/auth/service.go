// Package auth implements the credential store: registration, password
// verification and user lookup. Passwords are hashed with bcrypt, which
// carries a per-user random salt inside the hash.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"financas/internal/core"
	"financas/internal/storage"
)

// UserStore is the slice of the repository the credential store needs.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (int64, error)
	GetUser(ctx context.Context, id int64) (*core.User, error)
	GetUserByEmail(ctx context.Context, email string) (*core.User, error)
}

type Service struct {
	store UserStore
}

func NewService(store UserStore) *Service {
	return &Service{store: store}
}

// dummyHash keeps Authenticate doing one bcrypt comparison whether or not the
// email exists, so "no such user" and "wrong password" take comparable time.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// Register creates a user and reports success. A duplicate email returns
// (false, nil): it is an expected business outcome, not a failure. Any other
// storage error propagates unchanged.
func (s *Service) Register(ctx context.Context, name, email, password string) (bool, error) {
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)

	if name == "" {
		return false, core.ErrEmptyName
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return false, core.ErrInvalidEmail
	}
	if password == "" {
		return false, core.ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}

	if _, err := s.store.CreateUser(ctx, name, email, string(hash)); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			slog.InfoContext(ctx, "Registration rejected, email already in use", "email", email)
			return false, nil
		}
		return false, fmt.Errorf("create user: %w", err)
	}

	return true, nil
}

// Authenticate returns the user for matching credentials, or nil when the
// email is unknown or the password does not match.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*core.User, error) {
	user, err := s.store.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, nil
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	return user, nil
}

// GetUser returns the user for id, or nil when absent.
func (s *Service) GetUser(ctx context.Context, id int64) (*core.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
