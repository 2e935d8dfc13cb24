package service

import (
	"context"
	"errors"
	"testing"

	"github.com/campusworks/internboard/internal/apperror"
	"github.com/campusworks/internboard/internal/model"
)

func newTestApplicationService(t *testing.T) (*ApplicationService, *mockApplicationRepo, *mockJobRepo) {
	t.Helper()
	apps := newMockApplicationRepo()
	jobs := newMockJobRepo()
	return NewApplicationService(apps, jobs, testLogger()), apps, jobs
}

// seedApplication inserts an application directly into the mock repo.
func seedApplication(t *testing.T, repo *mockApplicationRepo, studentID, jobID string) *model.Application {
	t.Helper()
	app := &model.Application{
		ResumeURL:   "https://example.com/cv.pdf",
		CoverLetter: "I would like to apply",
		Status:      model.StatusSubmitted,
		StudentID:   studentID,
		JobID:       jobID,
	}
	if err := repo.CreateApplication(context.Background(), app); err != nil {
		t.Fatalf("seed application: %v", err)
	}
	return app
}

// =========================================================================
// CREATE TESTS
// =========================================================================

func TestApply_Success(t *testing.T) {
	svc, _, jobs := newTestApplicationService(t)
	student := testStudent("stu-1")
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)

	app, err := svc.Create(context.Background(), student, job.ID, ApplyInput{
		ResumeURL:   "https://example.com/cv.pdf",
		CoverLetter: "hello",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if app.Status != model.StatusSubmitted {
		t.Errorf("Status = %q, want initial %q", app.Status, model.StatusSubmitted)
	}
	if app.StudentID != student.ID {
		t.Errorf("StudentID = %q, want %q", app.StudentID, student.ID)
	}
	if app.JobID != job.ID {
		t.Errorf("JobID = %q, want %q", app.JobID, job.ID)
	}
	if app.Rating != nil {
		t.Error("a new application must start unrated")
	}
}

func TestApply_EmployerForbidden(t *testing.T) {
	svc, _, jobs := newTestApplicationService(t)
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)

	_, err := svc.Create(context.Background(), testEmployer("emp-1"), job.ID, ApplyInput{})
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
}

func TestApply_NilActor(t *testing.T) {
	svc, _, jobs := newTestApplicationService(t)
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)

	_, err := svc.Create(context.Background(), nil, job.ID, ApplyInput{})
	if !errors.Is(err, apperror.ErrUnauthenticated) {
		t.Errorf("error = %v, want ErrUnauthenticated", err)
	}
}

func TestApply_JobNotFound(t *testing.T) {
	svc, _, _ := newTestApplicationService(t)

	_, err := svc.Create(context.Background(), testStudent("stu-1"), "nonexistent", ApplyInput{})
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// TestApply_NoUniqueness: applying twice to the same job creates two
// independent applications. There is deliberately no (student, job) rule.
func TestApply_NoUniqueness(t *testing.T) {
	svc, _, jobs := newTestApplicationService(t)
	student := testStudent("stu-1")
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)

	first, err := svc.Create(context.Background(), student, job.ID, ApplyInput{})
	if err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	second, err := svc.Create(context.Background(), student, job.ID, ApplyInput{})
	if err != nil {
		t.Fatalf("second Create() error = %v", err)
	}
	if first.ID == second.ID {
		t.Error("second application should be a distinct record")
	}
}

// =========================================================================
// LIST TESTS
// =========================================================================

func TestApplicationList_StudentSeesOnlyOwn(t *testing.T) {
	svc, apps, jobs := newTestApplicationService(t)
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)
	mine := seedApplication(t, apps, "stu-1", job.ID)
	seedApplication(t, apps, "stu-2", job.ID)

	views, err := svc.List(context.Background(), testStudent("stu-1"))
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("List() returned %d applications, want 1", len(views))
	}
	if views[0].ID != mine.ID {
		t.Errorf("listed application = %q, want own %q", views[0].ID, mine.ID)
	}
	if views[0].CanManage {
		t.Error("CanManage must be false for students")
	}
}

func TestApplicationList_EmployerSeesOnlyOwnJobs(t *testing.T) {
	svc, apps, jobs := newTestApplicationService(t)
	myJob := seedJob(t, jobs, "emp-1", model.JobStatusOpen)
	otherJob := seedJob(t, jobs, "emp-2", model.JobStatusOpen)
	visible := seedApplication(t, apps, "stu-1", myJob.ID)
	seedApplication(t, apps, "stu-1", otherJob.ID)

	views, err := svc.List(context.Background(), testEmployer("emp-1"))
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("List() returned %d applications, want 1", len(views))
	}
	if views[0].ID != visible.ID {
		t.Errorf("listed application = %q, want %q", views[0].ID, visible.ID)
	}
	if !views[0].CanManage {
		t.Error("CanManage must be true for employers")
	}
}

func TestApplicationList_EmployerWithNoJobs(t *testing.T) {
	svc, apps, jobs := newTestApplicationService(t)
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)
	seedApplication(t, apps, "stu-1", job.ID)

	views, err := svc.List(context.Background(), testEmployer("emp-jobless"))
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(views) != 0 {
		t.Errorf("List() returned %d applications, want 0", len(views))
	}
}

func TestApplicationList_NilActor(t *testing.T) {
	svc, _, _ := newTestApplicationService(t)

	_, err := svc.List(context.Background(), nil)
	if !errors.Is(err, apperror.ErrUnauthenticated) {
		t.Errorf("error = %v, want ErrUnauthenticated", err)
	}
}

// =========================================================================
// GET TESTS
// =========================================================================

func TestApplicationGet_Author(t *testing.T) {
	svc, apps, jobs := newTestApplicationService(t)
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)
	app := seedApplication(t, apps, "stu-1", job.ID)

	view, err := svc.Get(context.Background(), testStudent("stu-1"), app.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if view.ID != app.ID {
		t.Errorf("view.ID = %q, want %q", view.ID, app.ID)
	}
	if view.CanManage {
		t.Error("CanManage must be false for the authoring student")
	}
}

func TestApplicationGet_OwningEmployer(t *testing.T) {
	svc, apps, jobs := newTestApplicationService(t)
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)
	app := seedApplication(t, apps, "stu-1", job.ID)

	view, err := svc.Get(context.Background(), testEmployer("emp-1"), app.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !view.CanManage {
		t.Error("CanManage must be true for the owning employer")
	}
}

// TestApplicationGet_ForeignStudent: someone else's application fails
// NotFound, not Forbidden — existence is hidden.
func TestApplicationGet_ForeignStudent(t *testing.T) {
	svc, apps, jobs := newTestApplicationService(t)
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)
	app := seedApplication(t, apps, "stu-1", job.ID)

	_, err := svc.Get(context.Background(), testStudent("stu-2"), app.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
	if errors.Is(err, apperror.ErrForbidden) {
		t.Error("foreign application access must not leak existence via ErrForbidden")
	}
}

func TestApplicationGet_RivalEmployer(t *testing.T) {
	svc, apps, jobs := newTestApplicationService(t)
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)
	app := seedApplication(t, apps, "stu-1", job.ID)

	_, err := svc.Get(context.Background(), testEmployer("emp-2"), app.ID)
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

// =========================================================================
// STATUS UPDATE TESTS
// =========================================================================

func TestUpdateStatus_Owner(t *testing.T) {
	svc, apps, jobs := newTestApplicationService(t)
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)
	app := seedApplication(t, apps, "stu-1", job.ID)

	if err := svc.UpdateStatus(context.Background(), testEmployer("emp-1"), app.ID, model.StatusInvited); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	stored, _ := apps.GetApplicationByID(context.Background(), app.ID)
	if stored.Status != model.StatusInvited {
		t.Errorf("Status = %q, want %q", stored.Status, model.StatusInvited)
	}
}

// TestUpdateStatus_BackwardsTransition: there is no transition graph, only
// set membership. accepted → rejected is allowed.
func TestUpdateStatus_BackwardsTransition(t *testing.T) {
	svc, apps, jobs := newTestApplicationService(t)
	employer := testEmployer("emp-1")
	job := seedJob(t, jobs, employer.ID, model.JobStatusOpen)
	app := seedApplication(t, apps, "stu-1", job.ID)

	if err := svc.UpdateStatus(context.Background(), employer, app.ID, model.StatusAccepted); err != nil {
		t.Fatalf("UpdateStatus(accepted) error = %v", err)
	}
	if err := svc.UpdateStatus(context.Background(), employer, app.ID, model.StatusRejected); err != nil {
		t.Fatalf("UpdateStatus(rejected after accepted) error = %v", err)
	}

	stored, _ := apps.GetApplicationByID(context.Background(), app.ID)
	if stored.Status != model.StatusRejected {
		t.Errorf("Status = %q, want %q", stored.Status, model.StatusRejected)
	}
}

func TestUpdateStatus_UnknownStatus(t *testing.T) {
	svc, apps, jobs := newTestApplicationService(t)
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)
	app := seedApplication(t, apps, "stu-1", job.ID)

	err := svc.UpdateStatus(context.Background(), testEmployer("emp-1"), app.ID, "shortlisted")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestUpdateStatus_RivalEmployer(t *testing.T) {
	svc, apps, jobs := newTestApplicationService(t)
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)
	app := seedApplication(t, apps, "stu-1", job.ID)

	err := svc.UpdateStatus(context.Background(), testEmployer("emp-2"), app.ID, model.StatusRejected)
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
}

func TestUpdateStatus_Student(t *testing.T) {
	svc, apps, jobs := newTestApplicationService(t)
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)
	app := seedApplication(t, apps, "stu-1", job.ID)

	// Not even the authoring student may touch the status.
	err := svc.UpdateStatus(context.Background(), testStudent("stu-1"), app.ID, model.StatusAccepted)
	if !errors.Is(err, apperror.ErrForbidden) {
		t.Errorf("error = %v, want ErrForbidden", err)
	}
}

func TestUpdateStatus_NilActor(t *testing.T) {
	svc, apps, jobs := newTestApplicationService(t)
	job := seedJob(t, jobs, "emp-1", model.JobStatusOpen)
	app := seedApplication(t, apps, "stu-1", job.ID)

	err := svc.UpdateStatus(context.Background(), nil, app.ID, model.StatusAccepted)
	if !errors.Is(err, apperror.ErrUnauthenticated) {
		t.Errorf("error = %v, want ErrUnauthenticated", err)
	}
}
