package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/campusworks/internboard/internal/apperror"
	"github.com/campusworks/internboard/internal/model"
	"github.com/campusworks/internboard/internal/repository"
)

// =========================================================================
// MOCK REPOSITORIES
// =========================================================================
//
// Hand-written in-memory implementations of the repository interfaces.
// The services don't know or care that they're not talking to sqlite —
// that's the point of depending on interfaces. Storing copies (never the
// caller's pointer) keeps tests from interfering with each other through
// shared state.

type mockUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	user.CreatedAt = time.Now()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *user
	return &result, nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	for _, user := range m.users {
		if user.Username == username {
			result := *user
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", username)
}

func (m *mockUserRepo) GetByGitHubID(_ context.Context, githubID int64) (*model.User, error) {
	if githubID == 0 {
		return nil, apperror.NotFound("user", "github:0")
	}
	for _, user := range m.users {
		if user.GitHubID == githubID {
			result := *user
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", fmt.Sprintf("github:%d", githubID))
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return apperror.NotFound("user", user.ID)
	}
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return apperror.NotFound("user", id)
	}
	delete(m.users, id)
	return nil
}

type mockJobRepo struct {
	jobs   map[string]*model.Job
	nextID int
}

func newMockJobRepo() *mockJobRepo {
	return &mockJobRepo{jobs: make(map[string]*model.Job)}
}

func (m *mockJobRepo) CreateJob(_ context.Context, job *model.Job) error {
	m.nextID++
	job.ID = fmt.Sprintf("job-%d", m.nextID)
	job.CreatedAt = time.Now()
	stored := *job
	m.jobs[job.ID] = &stored
	return nil
}

func (m *mockJobRepo) GetJobByID(_ context.Context, id string) (*model.Job, error) {
	job, ok := m.jobs[id]
	if !ok {
		return nil, apperror.NotFound("job", id)
	}
	result := *job
	return &result, nil
}

func (m *mockJobRepo) ListJobs(_ context.Context, filter repository.JobFilter) ([]model.JobSummary, error) {
	result := make([]model.JobSummary, 0, len(m.jobs))
	for _, job := range m.jobs {
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		if filter.JobType != "" && job.JobType != filter.JobType {
			continue
		}
		if filter.Keyword != "" {
			kw := strings.ToLower(filter.Keyword)
			if !strings.Contains(strings.ToLower(job.Title), kw) &&
				!strings.Contains(strings.ToLower(job.Description), kw) {
				continue
			}
		}
		result = append(result, model.JobSummary{
			ID:          job.ID,
			Title:       job.Title,
			Description: job.Description,
			JobType:     job.JobType,
			Status:      job.Status,
			CreatedAt:   job.CreatedAt,
		})
	}
	return result, nil
}

func (m *mockJobRepo) JobIDsByEmployer(_ context.Context, employerID string) ([]string, error) {
	ids := []string{}
	for _, job := range m.jobs {
		if job.EmployerID == employerID {
			ids = append(ids, job.ID)
		}
	}
	return ids, nil
}

func (m *mockJobRepo) UpdateJob(_ context.Context, job *model.Job) error {
	if _, ok := m.jobs[job.ID]; !ok {
		return apperror.NotFound("job", job.ID)
	}
	stored := *job
	m.jobs[job.ID] = &stored
	return nil
}

func (m *mockJobRepo) UpdateJobRating(_ context.Context, id string, rating float64) error {
	job, ok := m.jobs[id]
	if !ok {
		return apperror.NotFound("job", id)
	}
	job.Rating = &rating
	return nil
}

func (m *mockJobRepo) DeleteJob(_ context.Context, id string) error {
	if _, ok := m.jobs[id]; !ok {
		return apperror.NotFound("job", id)
	}
	delete(m.jobs, id)
	return nil
}

type mockApplicationRepo struct {
	apps   map[string]*model.Application
	nextID int
}

func newMockApplicationRepo() *mockApplicationRepo {
	return &mockApplicationRepo{apps: make(map[string]*model.Application)}
}

func (m *mockApplicationRepo) CreateApplication(_ context.Context, app *model.Application) error {
	m.nextID++
	app.ID = fmt.Sprintf("app-%d", m.nextID)
	app.AppliedAt = time.Now()
	stored := *app
	m.apps[app.ID] = &stored
	return nil
}

func (m *mockApplicationRepo) GetApplicationByID(_ context.Context, id string) (*model.Application, error) {
	app, ok := m.apps[id]
	if !ok {
		return nil, apperror.NotFound("application", id)
	}
	result := *app
	return &result, nil
}

// view builds a denormalized record from the bare application. The joined
// display fields stay empty — the services under test never read them, and
// the real JOINs are covered by the sqlite tests.
func (m *mockApplicationRepo) view(app *model.Application) model.ApplicationView {
	return model.ApplicationView{
		ID:          app.ID,
		JobID:       app.JobID,
		ResumeURL:   app.ResumeURL,
		CoverLetter: app.CoverLetter,
		Status:      app.Status,
		Rating:      app.Rating,
		AppliedAt:   app.AppliedAt,
	}
}

func (m *mockApplicationRepo) ApplicationViewsByStudent(_ context.Context, studentID string) ([]model.ApplicationView, error) {
	views := []model.ApplicationView{}
	for _, app := range m.apps {
		if app.StudentID == studentID {
			views = append(views, m.view(app))
		}
	}
	return views, nil
}

func (m *mockApplicationRepo) ApplicationViewsByJobIDs(_ context.Context, jobIDs []string) ([]model.ApplicationView, error) {
	views := []model.ApplicationView{}
	for _, app := range m.apps {
		for _, id := range jobIDs {
			if app.JobID == id {
				views = append(views, m.view(app))
				break
			}
		}
	}
	return views, nil
}

func (m *mockApplicationRepo) AllApplicationViews(_ context.Context) ([]model.ApplicationView, error) {
	views := []model.ApplicationView{}
	for _, app := range m.apps {
		views = append(views, m.view(app))
	}
	return views, nil
}

func (m *mockApplicationRepo) ApplicationViewByID(_ context.Context, id string) (*model.ApplicationView, error) {
	app, ok := m.apps[id]
	if !ok {
		return nil, apperror.NotFound("application", id)
	}
	v := m.view(app)
	return &v, nil
}

func (m *mockApplicationRepo) UpdateApplicationStatus(_ context.Context, id string, status model.ApplicationStatus) error {
	app, ok := m.apps[id]
	if !ok {
		return apperror.NotFound("application", id)
	}
	app.Status = status
	return nil
}

func (m *mockApplicationRepo) UpdateApplicationRating(_ context.Context, id string, rating int) error {
	app, ok := m.apps[id]
	if !ok {
		return apperror.NotFound("application", id)
	}
	app.Rating = &rating
	return nil
}

// Compile-time checks: the mocks really do implement the interfaces.
var (
	_ repository.UserRepository        = (*mockUserRepo)(nil)
	_ repository.JobRepository         = (*mockJobRepo)(nil)
	_ repository.ApplicationRepository = (*mockApplicationRepo)(nil)
)

// =========================================================================
// SHARED FIXTURES
// =========================================================================

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testStudent(id string) *model.User {
	return &model.User{ID: id, Username: id, Role: model.RoleStudent}
}

func testEmployer(id string) *model.User {
	return &model.User{ID: id, Username: id, Role: model.RoleEmployer}
}

// seedJob inserts a job directly into the mock repo, bypassing the service.
func seedJob(t *testing.T, repo *mockJobRepo, employerID string, status model.JobStatus) *model.Job {
	t.Helper()
	job := &model.Job{
		Title:       "Backend Intern",
		Description: "Go and SQL",
		JobType:     model.DefaultJobType,
		Status:      status,
		EmployerID:  employerID,
	}
	if err := repo.CreateJob(context.Background(), job); err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return job
}
