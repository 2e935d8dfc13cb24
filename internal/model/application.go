package model

import "time"

// ApplicationStatus is the workflow state of an application.
//
// "submitted" is the sole initial state. The other four may be set by the
// employer in any order — the workflow validates only that a target status is
// one of the five values, not that the transition makes sense (an employer
// may move accepted → rejected). Whether forward-only transitions were the
// intended design is an open product question; we keep the permissive rule.
type ApplicationStatus string

const (
	StatusSubmitted ApplicationStatus = "submitted"
	StatusInReview  ApplicationStatus = "in_review"
	StatusInvited   ApplicationStatus = "invited"
	StatusRejected  ApplicationStatus = "rejected"
	StatusAccepted  ApplicationStatus = "accepted"
)

// Valid reports whether s is one of the five legal statuses.
// This is the only status check the workflow performs.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusSubmitted, StatusInReview, StatusInvited, StatusRejected, StatusAccepted:
		return true
	}
	return false
}

// Application is a student's submission against one job.
//
// OWNERSHIP IS SPLIT:
// The student authored it and is the only one who may read it as "theirs" or
// rate it; the employer who owns the target job is the only one who may move
// its status. Neither foreign key ever changes after creation. The two
// authorization paths live in separate policy predicates so each can be
// audited on its own.
//
// Rating is the student's feedback on the placement, 1–5, nil until set.
// Setting it again overwrites — there is no aggregation on applications.
type Application struct {
	ID          string            `json:"id"           db:"id"`
	ResumeURL   string            `json:"resume_url"   db:"resume_url"`
	CoverLetter string            `json:"cover_letter" db:"cover_letter"`
	Status      ApplicationStatus `json:"status"       db:"status"`
	Rating      *int              `json:"rating"       db:"rating"`
	StudentID   string            `json:"student_id"   db:"student_id"`
	JobID       string            `json:"job_id"       db:"job_id"`
	AppliedAt   time.Time         `json:"applied_at"   db:"applied_at"`
}

// ApplicationView is the denormalized record returned by application
// listings: the application itself joined with the job title, the job
// owner's organization and the applicant's student profile.
//
// The joined fields are resolved with LEFT JOINs and default to empty/nil
// when the referenced row is gone — same dangling-reference tolerance as
// JobSummary.
//
// CanManage is a coarse capability hint: it is true whenever the viewer is
// an employer, NOT a guarantee the viewer may manage this specific record.
// The status-update path re-checks real ownership.
type ApplicationView struct {
	ID             string            `json:"id"`
	JobID          string            `json:"job_id"`
	JobTitle       *string           `json:"job_title"`
	Student        *string           `json:"student"`
	StudentName    string            `json:"student_full_name"`
	StudentCourse  string            `json:"student_course"`
	StudentFaculty string            `json:"student_faculty"`
	Organization   string            `json:"organization"`
	ResumeURL      string            `json:"resume_url"`
	CoverLetter    string            `json:"cover_letter"`
	Status         ApplicationStatus `json:"status"`
	Rating         *int              `json:"rating"`
	AppliedAt      time.Time         `json:"applied_at"`
	CanManage      bool              `json:"can_manage"`
}
