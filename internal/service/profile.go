package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campusworks/internboard/internal/apperror"
	"github.com/campusworks/internboard/internal/model"
	"github.com/campusworks/internboard/internal/repository"
)

// ProfileService handles the role-specific profile fields and account
// deletion. There is no cross-user profile access: every operation is the
// actor acting on themselves, so no policy predicate is involved.
type ProfileService struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// NewProfileService creates a ProfileService.
func NewProfileService(users repository.UserRepository, logger *slog.Logger) *ProfileService {
	return &ProfileService{users: users, logger: logger}
}

// Profile is the role-appropriate view of an account. Fields irrelevant to
// the role are empty in the response but never erased in storage.
type Profile struct {
	Username     string     `json:"username"`
	Role         model.Role `json:"role"`
	FullName     string     `json:"full_name,omitempty"`
	Course       string     `json:"course,omitempty"`
	Faculty      string     `json:"faculty,omitempty"`
	Organization string     `json:"organization,omitempty"`
}

// UpdateProfileInput is a partial update: nil means "leave unchanged".
// Fields that don't belong to the actor's role are silently dropped, never
// an error — a student sending organization simply has it ignored.
type UpdateProfileInput struct {
	FullName     *string
	Course       *string
	Faculty      *string
	Organization *string
}

// Get returns the actor's profile, filtered to their role's fields.
func (s *ProfileService) Get(ctx context.Context, actor *model.User) (*Profile, error) {
	if actor == nil {
		return nil, apperror.Unauthenticated()
	}

	p := &Profile{
		Username: actor.Username,
		Role:     actor.Role,
	}
	switch actor.Role {
	case model.RoleStudent:
		p.FullName = actor.FullName
		p.Course = actor.Course
		p.Faculty = actor.Faculty
	case model.RoleEmployer:
		p.Organization = actor.Organization
	}

	return p, nil
}

// Update applies a role-gated partial update to the actor's profile.
func (s *ProfileService) Update(ctx context.Context, actor *model.User, in UpdateProfileInput) (*Profile, error) {
	if actor == nil {
		return nil, apperror.Unauthenticated()
	}

	// Re-read the stored record rather than mutating the actor the handler
	// resolved — keeps the write based on current storage state.
	user, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	switch user.Role {
	case model.RoleStudent:
		if in.FullName != nil {
			user.FullName = *in.FullName
		}
		if in.Course != nil {
			user.Course = *in.Course
		}
		if in.Faculty != nil {
			user.Faculty = *in.Faculty
		}
	case model.RoleEmployer:
		if in.Organization != nil {
			user.Organization = *in.Organization
		}
	}

	if err := s.users.Update(ctx, user); err != nil {
		s.logger.Error("failed to update profile",
			slog.String("userID", user.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating profile: %w", err)
	}

	s.logger.Info("profile updated", slog.String("userID", user.ID))

	return s.Get(ctx, user)
}

// DeleteAccount removes the actor's account. The storage cascade takes
// every job they own and every application they submitted with it — and,
// transitively, the applications against the deleted jobs.
func (s *ProfileService) DeleteAccount(ctx context.Context, actor *model.User) error {
	if actor == nil {
		return apperror.Unauthenticated()
	}

	if err := s.users.Delete(ctx, actor.ID); err != nil {
		s.logger.Error("failed to delete account",
			slog.String("userID", actor.ID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting account: %w", err)
	}

	s.logger.Info("account deleted",
		slog.String("userID", actor.ID),
		slog.String("username", actor.Username),
	)

	return nil
}
