// Package service contains the business logic layer of the application.
//
// Each service is one use-case family of the marketplace:
//
//	AuthService        → register / login / identity resolution
//	JobService         → the job catalog (list, read, create, update, delete)
//	ApplicationService → the application workflow (apply, list, status)
//	RatingService      → job and application ratings
//	ProfileService     → role-specific profile fields, account deletion
//
// Services accept an explicit actor (*model.User) on every call that needs
// one — there is no ambient session state anywhere in this layer. A nil
// actor fails ErrUnauthenticated before anything else; a resolved actor the
// policy rejects fails ErrForbidden. Every operation checks in a fixed
// order — authenticate, authorize, validate, resolve, mutate — and the
// first failing step short-circuits with no partial mutation.
//
// Services return domain errors (apperror kinds), never HTTP status codes,
// and they depend on repository interfaces, never on sqlite directly. Tests
// inject in-memory mocks.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/campusworks/internboard/internal/apperror"
	"github.com/campusworks/internboard/internal/model"
	"github.com/campusworks/internboard/internal/policy"
	"github.com/campusworks/internboard/internal/repository"
)

// JobService handles the job catalog.
type JobService struct {
	jobs   repository.JobRepository
	logger *slog.Logger
}

// NewJobService creates a JobService.
func NewJobService(jobs repository.JobRepository, logger *slog.Logger) *JobService {
	return &JobService{jobs: jobs, logger: logger}
}

// CreateJobInput is the payload for a new posting. JobType is optional and
// defaults to "internship".
type CreateJobInput struct {
	Title       string
	Description string
	JobType     string
}

// UpdateJobInput is a partial update: nil means "leave unchanged".
// Only title and description are editable — status and job_type have no
// update path, so a posting's visibility is toggled only by create/delete.
type UpdateJobInput struct {
	Title       *string
	Description *string
}

// List scans the catalog.
//
// Status defaults to "open" — closed postings are invisible unless a caller
// asks for them explicitly. That is a design choice, not an oversight: a
// closed job disappears from the default catalog but stays readable by ID.
// The listing is public; no actor is required.
func (s *JobService) List(ctx context.Context, filter repository.JobFilter) ([]model.JobSummary, error) {
	if filter.Status == "" {
		filter.Status = model.JobStatusOpen
	}

	summaries, err := s.jobs.ListJobs(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list jobs", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing jobs: %w", err)
	}

	return summaries, nil
}

// Get retrieves a single posting. Public.
func (s *JobService) Get(ctx context.Context, id string) (*model.Job, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperror.ValidationFailed("id", "job ID is required")
	}
	return s.jobs.GetJobByID(ctx, id)
}

// Create makes a new posting owned by the actor. Employers only.
func (s *JobService) Create(ctx context.Context, actor *model.User, in CreateJobInput) (*model.Job, error) {
	if actor == nil {
		return nil, apperror.Unauthenticated()
	}
	if !policy.CanCreateJob(actor) {
		return nil, apperror.Forbidden("only employers can create jobs")
	}

	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" {
		return nil, apperror.ValidationFailed("title", "job title is required")
	}
	if in.Description == "" {
		return nil, apperror.ValidationFailed("description", "job description is required")
	}

	jobType := strings.TrimSpace(in.JobType)
	if jobType == "" {
		jobType = model.DefaultJobType
	}

	job := &model.Job{
		Title:       in.Title,
		Description: in.Description,
		JobType:     jobType,
		Status:      model.JobStatusOpen,
		Rating:      nil, // unrated until the first vote
		EmployerID:  actor.ID,
	}

	if err := s.jobs.CreateJob(ctx, job); err != nil {
		s.logger.Error("failed to create job",
			slog.String("employerID", actor.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating job: %w", err)
	}

	s.logger.Info("job created",
		slog.String("id", job.ID),
		slog.String("employerID", actor.ID),
		slog.String("title", job.Title),
	)

	return job, nil
}

// Update edits a posting's title and/or description. Only the owning
// employer; fields absent from the input are left unchanged, never reset.
func (s *JobService) Update(ctx context.Context, actor *model.User, id string, in UpdateJobInput) (*model.Job, error) {
	if actor == nil {
		return nil, apperror.Unauthenticated()
	}

	job, err := s.jobs.GetJobByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !policy.CanMutateJob(actor, job) {
		return nil, apperror.Forbidden("only the owning employer may edit a job")
	}

	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "job title cannot be empty")
		}
		job.Title = title
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		if description == "" {
			return nil, apperror.ValidationFailed("description", "job description cannot be empty")
		}
		job.Description = description
	}

	if err := s.jobs.UpdateJob(ctx, job); err != nil {
		s.logger.Error("failed to update job",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating job: %w", err)
	}

	s.logger.Info("job updated", slog.String("id", job.ID))

	return job, nil
}

// Delete removes a posting. Only the owning employer. Every application
// targeting the job is deleted with it — the storage layer's cascade.
func (s *JobService) Delete(ctx context.Context, actor *model.User, id string) error {
	if actor == nil {
		return apperror.Unauthenticated()
	}

	job, err := s.jobs.GetJobByID(ctx, id)
	if err != nil {
		return err
	}

	if !policy.CanMutateJob(actor, job) {
		return apperror.Forbidden("only the owning employer may delete a job")
	}

	if err := s.jobs.DeleteJob(ctx, id); err != nil {
		s.logger.Error("failed to delete job",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting job: %w", err)
	}

	s.logger.Info("job deleted", slog.String("id", id), slog.String("employerID", actor.ID))
	return nil
}
