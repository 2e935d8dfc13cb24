package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/campusworks/internboard/internal/apperror"
	"github.com/campusworks/internboard/internal/model"
	"github.com/campusworks/internboard/internal/repository"
)

// Compile-time check that *DB implements repository.JobRepository.
var _ repository.JobRepository = (*DB)(nil)

// CreateJob inserts a new job posting. ID and CreatedAt are filled in here;
// the caller is expected to have set status and job_type defaults already.
func (db *DB) CreateJob(ctx context.Context, job *model.Job) error {
	job.ID = xid.New().String()
	job.CreatedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO jobs (id, title, description, job_type, status, job_rating, employer_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		job.ID,
		job.Title,
		job.Description,
		job.JobType,
		string(job.Status),
		job.Rating,
		job.EmployerID,
		job.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating job: %w", err)
	}

	return nil
}

// GetJobByID retrieves a single job posting with the employer's display
// name. The LEFT JOIN keeps a posting readable even if its owner row is
// gone — employer comes back nil rather than the read failing.
func (db *DB) GetJobByID(ctx context.Context, id string) (*model.Job, error) {
	var (
		j        model.Job
		rating   sql.NullFloat64
		employer sql.NullString
	)

	err := db.conn.QueryRowContext(ctx,
		`SELECT j.id, j.title, j.description, j.job_type, j.status, j.job_rating, j.employer_id, j.created_at, u.username
		 FROM jobs j
		 LEFT JOIN users u ON u.id = j.employer_id
		 WHERE j.id = ?`,
		id,
	).Scan(
		&j.ID,
		&j.Title,
		&j.Description,
		&j.JobType,
		&j.Status,
		&rating,
		&j.EmployerID,
		&j.CreatedAt,
		&employer,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("job", id)
		}
		return nil, fmt.Errorf("sqlite: getting job %s: %w", id, err)
	}

	if rating.Valid {
		j.Rating = &rating.Float64
	}
	if employer.Valid {
		j.Employer = &employer.String
	}

	return &j, nil
}

// ListJobs scans the catalog with the given filter.
//
// The WHERE clause is assembled dynamically from the filter — every clause
// uses a ? placeholder, never string interpolation of user input. Keyword
// matching is a case-insensitive substring test against title OR description
// (SQLite's LIKE is case-insensitive for ASCII by default, matching the
// source's ilike).
//
// The employer display name comes from a LEFT JOIN: a posting whose owner
// was deleted lists with employer = null rather than disappearing or
// erroring.
//
// No ORDER BY: callers get natural scan order, and no ordering contract is
// promised.
func (db *DB) ListJobs(ctx context.Context, filter repository.JobFilter) ([]model.JobSummary, error) {
	query := `SELECT j.id, j.title, j.description, j.job_type, j.status, j.created_at, u.username
	          FROM jobs j
	          LEFT JOIN users u ON u.id = j.employer_id
	          WHERE j.status = ?`
	args := []any{string(filter.Status)}

	if filter.JobType != "" {
		query += ` AND j.job_type = ?`
		args = append(args, filter.JobType)
	}
	if filter.Keyword != "" {
		query += ` AND (j.title LIKE ? OR j.description LIKE ?)`
		pattern := "%" + strings.TrimSpace(filter.Keyword) + "%"
		args = append(args, pattern, pattern)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing jobs: %w", err)
	}
	defer rows.Close()

	summaries := []model.JobSummary{}
	for rows.Next() {
		var (
			s        model.JobSummary
			employer sql.NullString
		)
		if err := rows.Scan(
			&s.ID, &s.Title, &s.Description, &s.JobType, &s.Status,
			&s.CreatedAt, &employer,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning job row: %w", err)
		}
		if employer.Valid {
			s.Employer = &employer.String
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating jobs: %w", err)
	}

	return summaries, nil
}

// JobIDsByEmployer returns the ids of every job the employer owns.
// Feeds the employer-scoped application listing.
func (db *DB) JobIDsByEmployer(ctx context.Context, employerID string) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id FROM jobs WHERE employer_id = ?`, employerID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing jobs for employer %s: %w", employerID, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("sqlite: scanning job id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating job ids: %w", err)
	}

	return ids, nil
}

// UpdateJob persists title and description — the only fields the catalog's
// update operation may touch. Status, job_type, rating and ownership have
// their own paths or are immutable.
func (db *DB) UpdateJob(ctx context.Context, job *model.Job) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE jobs SET title = ?, description = ? WHERE id = ?`,
		job.Title,
		job.Description,
		job.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating job %s: %w", job.ID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("job", job.ID)
	}

	return nil
}

// UpdateJobRating overwrites the stored aggregate. The fold itself
// (read, average, write) happens in the rating service; this is just the
// write half.
func (db *DB) UpdateJobRating(ctx context.Context, id string, rating float64) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE jobs SET job_rating = ? WHERE id = ?`, rating, id)
	if err != nil {
		return fmt.Errorf("sqlite: updating job rating %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("job", id)
	}

	return nil
}

// DeleteJob removes a posting; ON DELETE CASCADE removes its applications.
func (db *DB) DeleteJob(ctx context.Context, id string) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM jobs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting job %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("job", id)
	}

	return nil
}
