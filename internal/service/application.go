package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campusworks/internboard/internal/apperror"
	"github.com/campusworks/internboard/internal/model"
	"github.com/campusworks/internboard/internal/policy"
	"github.com/campusworks/internboard/internal/repository"
)

// ApplicationService handles the application workflow: students submit
// applications against jobs, employers move them through the status states.
//
// The workflow has no transition graph. An application starts as
// "submitted" and an authorized employer may then set ANY of the five
// statuses in any order, including backwards (accepted → rejected). The
// only validation is set membership. See model.ApplicationStatus.
type ApplicationService struct {
	apps   repository.ApplicationRepository
	jobs   repository.JobRepository
	logger *slog.Logger
}

// NewApplicationService creates an ApplicationService.
func NewApplicationService(apps repository.ApplicationRepository, jobs repository.JobRepository, logger *slog.Logger) *ApplicationService {
	return &ApplicationService{apps: apps, jobs: jobs, logger: logger}
}

// ApplyInput is the payload of a new application. Both fields are free
// text; the workflow does not validate them beyond accepting empty values.
type ApplyInput struct {
	ResumeURL   string
	CoverLetter string
}

// Create submits a new application by the actor against the given job.
//
// Students only. There is no uniqueness rule on (student, job): applying
// twice to the same job creates two independent applications.
func (s *ApplicationService) Create(ctx context.Context, actor *model.User, jobID string, in ApplyInput) (*model.Application, error) {
	if actor == nil {
		return nil, apperror.Unauthenticated()
	}
	if !policy.CanApply(actor) {
		return nil, apperror.Forbidden("only students can apply to jobs")
	}

	if _, err := s.jobs.GetJobByID(ctx, jobID); err != nil {
		return nil, err
	}

	app := &model.Application{
		ResumeURL:   in.ResumeURL,
		CoverLetter: in.CoverLetter,
		Status:      model.StatusSubmitted,
		StudentID:   actor.ID,
		JobID:       jobID,
	}

	if err := s.apps.CreateApplication(ctx, app); err != nil {
		s.logger.Error("failed to create application",
			slog.String("studentID", actor.ID),
			slog.String("jobID", jobID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating application: %w", err)
	}

	s.logger.Info("application submitted",
		slog.String("id", app.ID),
		slog.String("studentID", actor.ID),
		slog.String("jobID", jobID),
	)

	return app, nil
}

// List returns the applications visible to the actor, denormalized with job
// and profile display fields.
//
// Visibility is role-scoped:
//   - a student sees only applications they authored
//   - an employer sees only applications targeting jobs they own, computed
//     as "gather my job ids, filter applications by membership"
//   - any other role sees everything — a defensive branch that should be
//     unreachable with the two-role model
//
// CanManage on each record is actor.Role == employer: a coarse capability
// hint for the UI, not a per-record permission.
func (s *ApplicationService) List(ctx context.Context, actor *model.User) ([]model.ApplicationView, error) {
	if actor == nil {
		return nil, apperror.Unauthenticated()
	}

	var (
		views []model.ApplicationView
		err   error
	)

	switch actor.Role {
	case model.RoleStudent:
		views, err = s.apps.ApplicationViewsByStudent(ctx, actor.ID)
	case model.RoleEmployer:
		var jobIDs []string
		jobIDs, err = s.jobs.JobIDsByEmployer(ctx, actor.ID)
		if err == nil {
			views, err = s.apps.ApplicationViewsByJobIDs(ctx, jobIDs)
		}
	default:
		views, err = s.apps.AllApplicationViews(ctx)
	}
	if err != nil {
		s.logger.Error("failed to list applications",
			slog.String("actorID", actor.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing applications: %w", err)
	}

	canManage := actor.Role == model.RoleEmployer
	for i := range views {
		views[i].CanManage = canManage
	}

	return views, nil
}

// Get returns a single denormalized application record.
//
// Visible to the authoring student and to the employer owning the target
// job. Anyone else gets NotFound — not Forbidden — so the record's
// existence is not leaked.
func (s *ApplicationService) Get(ctx context.Context, actor *model.User, id string) (*model.ApplicationView, error) {
	if actor == nil {
		return nil, apperror.Unauthenticated()
	}

	app, err := s.apps.GetApplicationByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.canSee(ctx, actor, app) {
		return nil, apperror.NotFound("application", id)
	}

	view, err := s.apps.ApplicationViewByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view.CanManage = actor.Role == model.RoleEmployer

	return view, nil
}

// canSee reports whether the actor sits on either side of the split
// ownership: authoring student or owning employer.
func (s *ApplicationService) canSee(ctx context.Context, actor *model.User, app *model.Application) bool {
	if actor.Role == model.RoleStudent && actor.ID == app.StudentID {
		return true
	}
	if actor.Role == model.RoleEmployer {
		job, err := s.jobs.GetJobByID(ctx, app.JobID)
		if err != nil {
			return false
		}
		return policy.CanMutateApplicationStatus(actor, job)
	}
	return false
}

// UpdateStatus moves an application to a new workflow status.
//
// Only the employer owning the target job. The target status must be one of
// the five legal values; beyond that, any transition is allowed — the
// overwrite is unconditional.
func (s *ApplicationService) UpdateStatus(ctx context.Context, actor *model.User, id string, status model.ApplicationStatus) error {
	if actor == nil {
		return apperror.Unauthenticated()
	}

	app, err := s.apps.GetApplicationByID(ctx, id)
	if err != nil {
		return err
	}

	job, err := s.jobs.GetJobByID(ctx, app.JobID)
	if err != nil {
		return err
	}

	if !policy.CanMutateApplicationStatus(actor, job) {
		return apperror.Forbidden("only the employer owning the job may change application status")
	}

	if !status.Valid() {
		return apperror.ValidationFailed("status", fmt.Sprintf("unknown status %q", status))
	}

	if err := s.apps.UpdateApplicationStatus(ctx, id, status); err != nil {
		s.logger.Error("failed to update application status",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("updating application status: %w", err)
	}

	s.logger.Info("application status updated",
		slog.String("id", id),
		slog.String("status", string(status)),
		slog.String("employerID", actor.ID),
	)

	return nil
}
