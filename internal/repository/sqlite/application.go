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

// Compile-time check that *DB implements repository.ApplicationRepository.
var _ repository.ApplicationRepository = (*DB)(nil)

// CreateApplication inserts a new application. ID and AppliedAt are filled
// in here. There is deliberately no uniqueness constraint on
// (student_id, job_id) — a student may apply to the same job twice.
func (db *DB) CreateApplication(ctx context.Context, app *model.Application) error {
	app.ID = xid.New().String()
	app.AppliedAt = time.Now()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO applications (id, resume_url, cover_letter, status, rating, student_id, job_id, applied_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		app.ID,
		app.ResumeURL,
		app.CoverLetter,
		string(app.Status),
		app.Rating,
		app.StudentID,
		app.JobID,
		app.AppliedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating application: %w", err)
	}

	return nil
}

// GetApplicationByID retrieves the raw application row (no joins).
// Used by the workflow and rating paths, which need the foreign keys to
// authorize before anything else.
func (db *DB) GetApplicationByID(ctx context.Context, id string) (*model.Application, error) {
	var (
		a      model.Application
		rating sql.NullInt64
	)

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, resume_url, cover_letter, status, rating, student_id, job_id, applied_at
		 FROM applications
		 WHERE id = ?`,
		id,
	).Scan(
		&a.ID,
		&a.ResumeURL,
		&a.CoverLetter,
		&a.Status,
		&rating,
		&a.StudentID,
		&a.JobID,
		&a.AppliedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("application", id)
		}
		return nil, fmt.Errorf("sqlite: getting application %s: %w", id, err)
	}

	if rating.Valid {
		r := int(rating.Int64)
		a.Rating = &r
	}

	return &a, nil
}

// viewQuery is the denormalized read used by all listing paths: the
// application joined with its job's title, the job owner's organization and
// the applicant's student profile.
//
// LEFT JOINs everywhere: a deleted job or employer shows up as null/empty
// display fields, never as a failed read.
const viewQuery = `
	SELECT a.id, a.job_id, j.title, su.username, su.full_name, su.course, su.faculty,
	       eu.organization, a.resume_url, a.cover_letter, a.status, a.rating, a.applied_at
	FROM applications a
	LEFT JOIN jobs j ON j.id = a.job_id
	LEFT JOIN users su ON su.id = a.student_id
	LEFT JOIN users eu ON eu.id = j.employer_id`

func scanViews(rows *sql.Rows) ([]model.ApplicationView, error) {
	views := []model.ApplicationView{}
	for rows.Next() {
		v, err := scanView(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning application view: %w", err)
		}
		views = append(views, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating application views: %w", err)
	}
	return views, nil
}

// scanView reads one view row. It accepts the Scan function itself so it
// works for both *sql.Row and *sql.Rows.
func scanView(scan func(...any) error) (*model.ApplicationView, error) {
	var (
		v            model.ApplicationView
		title        sql.NullString
		student      sql.NullString
		name         sql.NullString
		course       sql.NullString
		faculty      sql.NullString
		organization sql.NullString
		rating       sql.NullInt64
	)

	if err := scan(
		&v.ID, &v.JobID, &title, &student, &name, &course, &faculty,
		&organization, &v.ResumeURL, &v.CoverLetter, &v.Status, &rating, &v.AppliedAt,
	); err != nil {
		return nil, err
	}

	if title.Valid {
		v.JobTitle = &title.String
	}
	if student.Valid {
		v.Student = &student.String
	}
	v.StudentName = name.String
	v.StudentCourse = course.String
	v.StudentFaculty = faculty.String
	v.Organization = organization.String
	if rating.Valid {
		r := int(rating.Int64)
		v.Rating = &r
	}

	return &v, nil
}

// ApplicationViewsByStudent lists the applications a student authored.
func (db *DB) ApplicationViewsByStudent(ctx context.Context, studentID string) ([]model.ApplicationView, error) {
	rows, err := db.conn.QueryContext(ctx, viewQuery+` WHERE a.student_id = ?`, studentID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing applications for student %s: %w", studentID, err)
	}
	defer rows.Close()

	return scanViews(rows)
}

// ApplicationViewsByJobIDs lists the applications targeting any of the given
// jobs. An empty id set short-circuits to an empty result — SQL IN () is a
// syntax error, and an employer with no postings has no applications to see.
func (db *DB) ApplicationViewsByJobIDs(ctx context.Context, jobIDs []string) ([]model.ApplicationView, error) {
	if len(jobIDs) == 0 {
		return []model.ApplicationView{}, nil
	}

	placeholders := strings.Repeat("?,", len(jobIDs))
	placeholders = placeholders[:len(placeholders)-1]

	args := make([]any, len(jobIDs))
	for i, id := range jobIDs {
		args[i] = id
	}

	rows, err := db.conn.QueryContext(ctx,
		viewQuery+` WHERE a.job_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing applications by job ids: %w", err)
	}
	defer rows.Close()

	return scanViews(rows)
}

// AllApplicationViews lists every application. Only reachable through the
// defensive listing branch for an unknown role.
func (db *DB) AllApplicationViews(ctx context.Context) ([]model.ApplicationView, error) {
	rows, err := db.conn.QueryContext(ctx, viewQuery)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing all applications: %w", err)
	}
	defer rows.Close()

	return scanViews(rows)
}

// ApplicationViewByID retrieves a single denormalized application record.
func (db *DB) ApplicationViewByID(ctx context.Context, id string) (*model.ApplicationView, error) {
	row := db.conn.QueryRowContext(ctx, viewQuery+` WHERE a.id = ?`, id)

	v, err := scanView(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("application", id)
		}
		return nil, fmt.Errorf("sqlite: getting application view %s: %w", id, err)
	}

	return v, nil
}

// UpdateApplicationStatus overwrites the workflow status unconditionally.
// Transition legality (set membership only) is the service's concern.
func (db *DB) UpdateApplicationStatus(ctx context.Context, id string, status model.ApplicationStatus) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE applications SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		return fmt.Errorf("sqlite: updating application status %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("application", id)
	}

	return nil
}

// UpdateApplicationRating overwrites the student's rating. Later calls
// silently replace earlier values — no aggregation on applications.
func (db *DB) UpdateApplicationRating(ctx context.Context, id string, rating int) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE applications SET rating = ? WHERE id = ?`, rating, id)
	if err != nil {
		return fmt.Errorf("sqlite: updating application rating %s: %w", id, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperror.NotFound("application", id)
	}

	return nil
}
