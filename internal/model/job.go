package model

import "time"

// JobStatus controls a posting's visibility: the catalog lists open jobs by
// default, so closing a job effectively hides it without deleting it.
type JobStatus string

const (
	JobStatusOpen   JobStatus = "open"
	JobStatusClosed JobStatus = "closed"
)

// DefaultJobType is used when a posting doesn't specify its own type.
// JobType is otherwise a free-form tag ("internship", "part-time", ...).
const DefaultJobType = "internship"

// Job is a posting owned by exactly one employer.
//
// WHY Rating *float64 (a pointer)?
// The rating is a running aggregate that starts out unset — a job nobody has
// rated yet has no score at all, which is different from a score of 0.
// A nil pointer models "never rated"; JSON marshals it as null.
//
// The stored value is a decaying average: each new vote v replaces the
// current value r with (r+v)/2, so recent votes weigh more than old ones.
// See RatingService for the fold itself.
type Job struct {
	ID          string    `json:"id"          db:"id"`
	Title       string    `json:"title"       db:"title"`
	Description string    `json:"description" db:"description"`
	JobType     string    `json:"job_type"    db:"job_type"`
	Status      JobStatus `json:"status"      db:"status"`
	Rating      *float64  `json:"job_rating"  db:"job_rating"`
	EmployerID  string    `json:"-"           db:"employer_id"`
	CreatedAt   time.Time `json:"created_at"  db:"created_at"`

	// Employer is the owner's display name, resolved with a LEFT JOIN on
	// single reads (same null-tolerant rule as JobSummary). Writes leave it
	// unset, omitempty keeps it out of create/update responses.
	Employer *string `json:"employer,omitempty" db:"-"`
}

// JobSummary is the catalog's read model for a posting.
//
// Employer is the owner's display name, resolved at read time with a LEFT
// JOIN. If the employer account has been deleted out from under the posting
// the field is nil (JSON null) — readers tolerate the dangling reference
// instead of failing.
type JobSummary struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	JobType     string    `json:"job_type"`
	Status      JobStatus `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	Employer    *string   `json:"employer"`
}
