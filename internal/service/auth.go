// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses forms, renders templates, sets cookies
//	Service (Business layer)  → validates, enforces rules, orchestrates
//	Repository (Data layer)   → reads/writes the database
//
// Services accept primitives and return domain errors — they have zero
// knowledge of HTTP. The handler translates apperror values into redirects,
// flash messages, and status codes.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nafis/blog-platform/internal/apperror"
	"github.com/nafis/blog-platform/internal/auth"
	"github.com/nafis/blog-platform/internal/model"
	"github.com/nafis/blog-platform/internal/repository"
)

// AuthService handles registration and login.
//
// DEPENDENCIES (injected via NewAuthService):
//   - users      repository.UserRepository  → read/write user records
//   - passwords  *auth.PasswordService      → PBKDF2 hashing
//   - sessions   *auth.SessionService       → session token issuance
//   - logger     *slog.Logger               → structured logging
type AuthService struct {
	users     repository.UserRepository
	passwords *auth.PasswordService
	sessions  *auth.SessionService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
// Call this in server.go when wiring the dependency graph.
func NewAuthService(
	users repository.UserRepository,
	passwords *auth.PasswordService,
	sessions *auth.SessionService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		passwords: passwords,
		sessions:  sessions,
		logger:    logger,
	}
}

// LoginResult bundles the authenticated user and the freshly issued session
// token so the handler can set the cookie and redirect in one step.
type LoginResult struct {
	User  *model.User
	Token string
}

// Register creates a new account.
//
// If the email is already registered, NO new row is created and the caller
// gets an ErrConflict with log-in-instead guidance — the handler flashes it
// and routes to the login page. Registration never auto-authenticates: the
// new user must log in explicitly.
//
// The explicit lookup gives the friendly message; the UNIQUE constraint on
// users.email is the real guarantee, and catches the race where two
// registrations for the same email arrive together.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("This email already exists, log in instead")
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("service/auth: checking email %s: %w", email, err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, apperror.ErrConflict) {
			// Lost the race to a concurrent registration — same outcome.
			return nil, apperror.Conflict("This email already exists, log in instead")
		}
		return nil, fmt.Errorf("service/auth: creating user (email=%s): %w", email, err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("email", user.Email),
	)
	return user, nil
}

// Login authenticates an email/password pair and establishes a session.
//
// Failure feedback mirrors the registration flow's granularity: unknown
// email and wrong password produce distinct user-visible messages, both as
// validation errors the handler flashes over the re-rendered login form.
// On success a FRESH session token is issued (never reusing any token that
// existed before authentication).
func (s *AuthService) Login(ctx context.Context, email, password string, remember bool) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.ValidationFailed("email", "No user found with this email.")
		}
		return nil, fmt.Errorf("service/auth: looking up email %s: %w", email, err)
	}

	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		s.logger.Info("failed login attempt", slog.Int64("userID", user.ID))
		return nil, apperror.ValidationFailed("password", "Wrong password.")
	}

	token, err := s.sessions.Login(user.ID, remember)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing session for user %d: %w", user.ID, err)
	}

	s.logger.Info("user logged in",
		slog.Int64("userID", user.ID),
		slog.Bool("remember", remember),
	)
	return &LoginResult{User: user, Token: token}, nil
}
