// Package service — authentication business logic.
//
// AuthService sits between the HTTP handlers and the repository/auth
// utilities:
//
//	AuthHandler (HTTP) → AuthService (rules) → UserRepository (DB)
//	                   ↘ TokenService (JWT), PasswordService (bcrypt)
//
// Two ways in: username/password registration (either role) and GitHub
// OAuth (students only). Both end the same way — a user row and a signed
// session token.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rs/xid"

	"github.com/campusworks/internboard/internal/apperror"
	"github.com/campusworks/internboard/internal/auth"
	"github.com/campusworks/internboard/internal/model"
	"github.com/campusworks/internboard/internal/repository"
)

// AuthService handles registration, login and actor resolution.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewAuthService creates an AuthService with all required dependencies.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// AuthResult bundles the user and the issued session token so the handler
// can set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account with the given role and logs it in.
//
// The role is fixed at registration forever — nothing in the API mutates it
// afterwards. Duplicate usernames fail with Conflict.
func (s *AuthService) Register(ctx context.Context, username, password string, role model.Role) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}
	if !role.Valid() {
		return nil, apperror.ValidationFailed("role", fmt.Sprintf("role must be %q or %q", model.RoleStudent, model.RoleEmployer))
	}

	// Pre-check for a readable Conflict. The UNIQUE constraint on username
	// still backstops the race where two registrations interleave.
	_, err := s.users.GetByUsername(ctx, username)
	if err == nil {
		return nil, apperror.Conflict("user", username)
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("checking username: %w", err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, apperror.ValidationFailed("password", err.Error())
	}

	user := &model.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)),
	)

	return s.issue(user)
}

// Login verifies a username/password pair and issues a session token.
//
// Unknown username and wrong password collapse into the same failure —
// callers learn nothing about which half was wrong.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	badCredentials := &apperror.AppError{
		Err:     apperror.ErrUnauthenticated,
		Message: "invalid username or password",
	}

	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, badCredentials
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if user.PasswordHash == "" {
		// OAuth-only account — it has no password to verify.
		return nil, badCredentials
	}
	if err := s.passwords.Verify(user.PasswordHash, password); err != nil {
		return nil, badCredentials
	}

	s.logger.Info("user logged in",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
	)

	return s.issue(user)
}

// LoginWithGitHub resolves a GitHub profile to a local account, creating a
// student account on first sign-in, and issues a session token.
func (s *AuthService) LoginWithGitHub(ctx context.Context, ghUser *auth.GitHubUser) (*AuthResult, error) {
	if ghUser == nil {
		return nil, fmt.Errorf("service/auth: GitHub user must not be nil")
	}

	user, err := s.users.GetByGitHubID(ctx, ghUser.ID)
	if err == nil {
		return s.issue(user)
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("looking up GitHub user %d: %w", ghUser.ID, err)
	}

	// First sign-in: create a student account. If the GitHub login is
	// already taken as a local username, suffix it — the handle only has
	// to be unique, not pretty.
	username := ghUser.Login
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		username = fmt.Sprintf("%s-%s", ghUser.Login, xid.New().String())
	} else if !errors.Is(err, apperror.ErrNotFound) {
		return nil, fmt.Errorf("checking username: %w", err)
	}

	user = &model.User{
		Username: username,
		Role:     model.RoleStudent,
		FullName: ghUser.Name,
		GitHubID: ghUser.ID,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("creating user from GitHub profile: %w", err)
	}

	s.logger.Info("user registered via GitHub",
		slog.String("userID", user.ID),
		slog.String("username", user.Username),
		slog.Int64("githubID", ghUser.ID),
	)

	return s.issue(user)
}

// GetUserByID loads the full user record for a validated session's subject.
// This is how handlers turn the middleware's userID into an actor.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.Unauthenticated()
	}
	return s.users.GetByID(ctx, id)
}

func (s *AuthService) issue(user *model.User) (*AuthResult, error) {
	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("generating token for user %s: %w", user.ID, err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
