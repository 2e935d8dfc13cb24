package service

import (
	"context"
	"errors"
	"testing"

	"github.com/campusworks/internboard/internal/apperror"
	"github.com/campusworks/internboard/internal/model"
)

func newTestRatingService(t *testing.T) (*RatingService, *mockJobRepo, *mockApplicationRepo) {
	t.Helper()
	jobs := newMockJobRepo()
	apps := newMockApplicationRepo()
	return NewRatingService(jobs, apps, testLogger()), jobs, apps
}

// =========================================================================
// JOB RATING TESTS
// =========================================================================

func TestRateJob_FirstVote(t *testing.T) {
	svc, jobs, _ := newTestRatingService(t)
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)

	got, err := svc.RateJob(context.Background(), testStudent("stu-1"), job.ID, 4)
	if err != nil {
		t.Fatalf("RateJob() error = %v", err)
	}
	if got != 4 {
		t.Errorf("aggregate = %v, want 4 (first vote replaces the unset rating)", got)
	}

	stored, _ := jobs.GetJobByID(context.Background(), job.ID)
	if stored.Rating == nil || *stored.Rating != 4 {
		t.Errorf("stored rating = %v, want 4", stored.Rating)
	}
}

// TestRateJob_DecayingFold pins the exact arithmetic of the aggregate.
// It is a decaying average, not a mean: each new vote is averaged with the
// current value, so 4 then 2 gives 3, and a true mean of 4,2,5 (3.67) is
// NOT what a third vote of 5 produces — it gives (3+5)/2 = 4.
func TestRateJob_DecayingFold(t *testing.T) {
	svc, jobs, _ := newTestRatingService(t)
	student := testStudent("stu-1")
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)

	if _, err := svc.RateJob(context.Background(), student, job.ID, 4); err != nil {
		t.Fatalf("vote 1: %v", err)
	}
	got, err := svc.RateJob(context.Background(), student, job.ID, 2)
	if err != nil {
		t.Fatalf("vote 2: %v", err)
	}
	if got != 3 {
		t.Errorf("after votes 4,2: aggregate = %v, want 3", got)
	}

	got, err = svc.RateJob(context.Background(), student, job.ID, 5)
	if err != nil {
		t.Fatalf("vote 3: %v", err)
	}
	if got != 4 {
		t.Errorf("after votes 4,2,5: aggregate = %v, want 4 (not the mean 3.67)", got)
	}
}

func TestRateJob_FractionalAggregate(t *testing.T) {
	svc, jobs, _ := newTestRatingService(t)
	student := testStudent("stu-1")
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)

	if _, err := svc.RateJob(context.Background(), student, job.ID, 5); err != nil {
		t.Fatal(err)
	}
	got, err := svc.RateJob(context.Background(), student, job.ID, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got != 3.5 {
		t.Errorf("after votes 5,2: aggregate = %v, want 3.5", got)
	}
}

// TestRateJob_NoApplicationRequired: any student may rate any job, whether
// or not they ever applied to it.
func TestRateJob_NoApplicationRequired(t *testing.T) {
	svc, jobs, apps := newTestRatingService(t)
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)

	if got, _ := apps.AllApplicationViews(context.Background()); len(got) != 0 {
		t.Fatal("precondition: no applications should exist")
	}

	if _, err := svc.RateJob(context.Background(), testStudent("bystander"), job.ID, 3); err != nil {
		t.Errorf("RateJob() by a non-applicant should succeed, got %v", err)
	}
}

func TestRateJob_OutOfRange(t *testing.T) {
	svc, jobs, _ := newTestRatingService(t)
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)

	for _, value := range []int{0, 6, -1} {
		_, err := svc.RateJob(context.Background(), testStudent("stu-1"), job.ID, value)
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("RateJob(%d): error = %v, want ErrValidation", value, err)
		}
	}

	// A rejected vote must not touch the job.
	stored, _ := jobs.GetJobByID(context.Background(), job.ID)
	if stored.Rating != nil {
		t.Errorf("rating = %v, want still unset after rejected votes", *stored.Rating)
	}
}

func TestRateJob_EmployerForbidden(t *testing.T) {
	svc, jobs, _ := newTestRatingService(t)
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)

	_, err := svc.RateJob(context.Background(), testEmployer("emp-1"), job.ID, 5)
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
}

func TestRateJob_NilActor(t *testing.T) {
	svc, jobs, _ := newTestRatingService(t)
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)

	_, err := svc.RateJob(context.Background(), nil, job.ID, 5)
	if !errors.Is(err, apperror.ErrUnauthenticated) {
		t.Errorf("error = %v, want ErrUnauthenticated", err)
	}
	if errors.Is(err, apperror.ErrForbidden) {
		t.Error("nil actor must not be reported as ErrForbidden")
	}
}

func TestRateJob_JobNotFound(t *testing.T) {
	svc, _, _ := newTestRatingService(t)

	_, err := svc.RateJob(context.Background(), testStudent("stu-1"), "nonexistent", 3)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// APPLICATION RATING TESTS
// =========================================================================

func TestRateApplication_SetAndOverwrite(t *testing.T) {
	svc, jobs, apps := newTestRatingService(t)
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)
	app := seedApplication(t, apps, "stu-1", job.ID)
	student := testStudent("stu-1")

	if err := svc.RateApplication(context.Background(), student, app.ID, 5); err != nil {
		t.Fatalf("RateApplication(5) error = %v", err)
	}
	stored, _ := apps.GetApplicationByID(context.Background(), app.ID)
	if stored.Rating == nil || *stored.Rating != 5 {
		t.Fatalf("rating = %v, want 5", stored.Rating)
	}

	// No aggregation on applications: rating again overwrites.
	if err := svc.RateApplication(context.Background(), student, app.ID, 3); err != nil {
		t.Fatalf("RateApplication(3) error = %v", err)
	}
	stored, _ = apps.GetApplicationByID(context.Background(), app.ID)
	if stored.Rating == nil || *stored.Rating != 3 {
		t.Errorf("rating = %v, want overwritten to 3", stored.Rating)
	}
}

// TestRateApplication_ForeignApplication: rating someone else's application
// fails NotFound, indistinguishable from a nonexistent id.
func TestRateApplication_ForeignApplication(t *testing.T) {
	svc, jobs, apps := newTestRatingService(t)
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)
	app := seedApplication(t, apps, "stu-1", job.ID)

	err := svc.RateApplication(context.Background(), testStudent("stu-2"), app.ID, 4)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if errors.Is(err, apperror.ErrForbidden) {
		t.Error("foreign application must not be distinguishable from a missing one")
	}
}

func TestRateApplication_EmployerCannotRate(t *testing.T) {
	svc, jobs, apps := newTestRatingService(t)
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)
	app := seedApplication(t, apps, "stu-1", job.ID)

	// Even the employer who owns the target job gets NotFound here.
	err := svc.RateApplication(context.Background(), testEmployer("emp-1"), app.ID, 4)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestRateApplication_OutOfRange(t *testing.T) {
	svc, jobs, apps := newTestRatingService(t)
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)
	app := seedApplication(t, apps, "stu-1", job.ID)

	for _, value := range []int{0, 6} {
		err := svc.RateApplication(context.Background(), testStudent("stu-1"), app.ID, value)
		if !errors.Is(err, apperror.ErrValidation) {
			t.Errorf("RateApplication(%d): error = %v, want ErrValidation", value, err)
		}
	}
}

func TestRateApplication_NilActor(t *testing.T) {
	svc, _, _ := newTestRatingService(t)

	err := svc.RateApplication(context.Background(), nil, "app-1", 4)
	if !errors.Is(err, apperror.ErrUnauthenticated) {
		t.Errorf("error = %v, want ErrUnauthenticated", err)
	}
}
