// Package repository defines the storage interfaces the services depend on.
// Services program against these interfaces, never against a concrete
// database — tests inject in-memory mocks, production injects sqlite.
package repository

import (
	"context"

	"github.com/campusworks/internboard/internal/model"
)

// JobFilter narrows a job catalog scan. Zero values mean "no constraint"
// except Status, which the service defaults to "open" — closed postings are
// invisible unless asked for explicitly.
type JobFilter struct {
	Status  model.JobStatus
	JobType string // exact match
	Keyword string // case-insensitive substring of title OR description
}

// UserRepository persists user accounts.
//
// Delete must cascade: removing a user also removes every job they own and
// every application they submitted (and, transitively, applications against
// the deleted jobs). The sqlite implementation does this with foreign keys.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByGitHubID(ctx context.Context, githubID int64) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
}

// JobRepository persists job postings.
//
// DeleteJob must cascade to the job's applications. JobIDsByEmployer exists
// for the employer-scoped application listing, which is computed as "gather
// my job ids, then filter applications by membership".
//
// Method names carry the entity because one sqlite.DB implements all three
// repository interfaces on a single receiver.
type JobRepository interface {
	CreateJob(ctx context.Context, job *model.Job) error
	GetJobByID(ctx context.Context, id string) (*model.Job, error)
	ListJobs(ctx context.Context, filter JobFilter) ([]model.JobSummary, error)
	JobIDsByEmployer(ctx context.Context, employerID string) ([]string, error)
	UpdateJob(ctx context.Context, job *model.Job) error
	UpdateJobRating(ctx context.Context, id string, rating float64) error
	DeleteJob(ctx context.Context, id string) error
}

// ApplicationRepository persists applications.
//
// The View methods return denormalized records (job title, employer
// organization, student profile) resolved with LEFT JOINs, so a deleted
// counterpart degrades to an absent display field instead of an error.
type ApplicationRepository interface {
	CreateApplication(ctx context.Context, app *model.Application) error
	GetApplicationByID(ctx context.Context, id string) (*model.Application, error)
	ApplicationViewsByStudent(ctx context.Context, studentID string) ([]model.ApplicationView, error)
	ApplicationViewsByJobIDs(ctx context.Context, jobIDs []string) ([]model.ApplicationView, error)
	AllApplicationViews(ctx context.Context) ([]model.ApplicationView, error)
	ApplicationViewByID(ctx context.Context, id string) (*model.ApplicationView, error)
	UpdateApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) error
	UpdateApplicationRating(ctx context.Context, id string, rating int) error
}
