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

// RatingService records student feedback. Two independent mechanisms that
// never interact:
//
//   - job ratings fold into a single running aggregate on the job
//   - application ratings are a plain overwrite on the application
type RatingService struct {
	jobs   repository.JobRepository
	apps   repository.ApplicationRepository
	logger *slog.Logger
}

// NewRatingService creates a RatingService.
func NewRatingService(jobs repository.JobRepository, apps repository.ApplicationRepository, logger *slog.Logger) *RatingService {
	return &RatingService{jobs: jobs, apps: apps, logger: logger}
}

// RateJob folds a new vote into the job's aggregate score.
//
// Any student may rate any job — applying first is not required.
//
// THE FOLD IS A DECAYING AVERAGE, NOT A MEAN:
//
//	unset    → value
//	r        → (r + value) / 2
//
// Three votes r1,r2,r3 leave ((r1+r2)/2+r3)/2, so each vote weighs half as
// much as everything before it combined. A true mean would track a count;
// this deliberately does not. Do not "fix" it: the recency weighting is
// intended.
//
// The read-average-write is not atomic across concurrent raters; two
// simultaneous votes can base their fold on the same prior value. Accepted
// for now — single statement CAS would close it without changing the
// contract.
func (s *RatingService) RateJob(ctx context.Context, actor *model.User, jobID string, value int) (float64, error) {
	if actor == nil {
		return 0, apperror.Unauthenticated()
	}
	if !policy.CanRateJob(actor) {
		return 0, apperror.Forbidden("only students can rate jobs")
	}
	if value < 1 || value > 5 {
		return 0, apperror.ValidationFailed("rating", "rating must be an integer between 1 and 5")
	}

	job, err := s.jobs.GetJobByID(ctx, jobID)
	if err != nil {
		return 0, err
	}

	var folded float64
	if job.Rating == nil {
		folded = float64(value)
	} else {
		folded = (*job.Rating + float64(value)) / 2
	}

	if err := s.jobs.UpdateJobRating(ctx, jobID, folded); err != nil {
		s.logger.Error("failed to update job rating",
			slog.String("jobID", jobID),
			slog.String("error", err.Error()),
		)
		return 0, fmt.Errorf("updating job rating: %w", err)
	}

	s.logger.Info("job rated",
		slog.String("jobID", jobID),
		slog.String("studentID", actor.ID),
		slog.Int("value", value),
		slog.Float64("aggregate", folded),
	)

	return folded, nil
}

// RateApplication records the student's feedback on their own application.
//
// Only the authoring student. An application that exists but belongs to
// someone else fails NotFound, exactly like one that doesn't exist — the
// caller cannot probe for foreign application ids.
//
// The rating is overwritten on every call; rating 5 then 3 leaves 3.
func (s *RatingService) RateApplication(ctx context.Context, actor *model.User, appID string, value int) error {
	if actor == nil {
		return apperror.Unauthenticated()
	}
	if value < 1 || value > 5 {
		return apperror.ValidationFailed("rating", "rating must be an integer between 1 and 5")
	}

	app, err := s.apps.GetApplicationByID(ctx, appID)
	if err != nil {
		return err
	}

	if !policy.CanRateApplication(actor, app) {
		// Existence hiding: same failure as an unknown id.
		return apperror.NotFound("application", appID)
	}

	if err := s.apps.UpdateApplicationRating(ctx, appID, value); err != nil {
		s.logger.Error("failed to update application rating",
			slog.String("appID", appID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("updating application rating: %w", err)
	}

	s.logger.Info("application rated",
		slog.String("appID", appID),
		slog.String("studentID", actor.ID),
		slog.Int("value", value),
	)

	return nil
}
