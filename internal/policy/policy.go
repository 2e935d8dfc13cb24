// Package policy contains the access-control rules of the marketplace as
// pure, stateless predicates.
//
// Every predicate answers one question: may THIS actor perform THIS action
// on THIS resource? They touch no storage and have no side effects, which
// makes the whole authorization surface testable with plain struct literals.
//
// Services must evaluate the matching predicate before touching storage and
// translate a false answer into apperror.Forbidden (or Unauthenticated when
// there is no actor at all) — never after a partial mutation.
//
// Application is a SPLIT-OWNERSHIP resource: the authoring student owns its
// content and its rating, while the employer who owns the target job owns
// its workflow status. Those are two separate predicates on purpose, so the
// two authorization paths stay independently auditable.
package policy

import "github.com/campusworks/internboard/internal/model"

// CanCreateJob reports whether the actor may create a job posting.
// Only employers post jobs.
func CanCreateJob(actor *model.User) bool {
	return actor != nil && actor.Role == model.RoleEmployer
}

// CanMutateJob reports whether the actor may edit or delete the given job.
// Ownership is exclusive: only the employer who created the posting.
func CanMutateJob(actor *model.User, job *model.Job) bool {
	return actor != nil && job != nil &&
		actor.Role == model.RoleEmployer && actor.ID == job.EmployerID
}

// CanApply reports whether the actor may submit applications.
// Only students apply.
func CanApply(actor *model.User) bool {
	return actor != nil && actor.Role == model.RoleStudent
}

// CanRateJob reports whether the actor may rate a job posting.
//
// Any student may rate any job — there is no requirement that the rater ever
// applied to it. Likely unintended upstream, but preserved: tightening it is
// a product decision, not a bug fix.
func CanRateJob(actor *model.User) bool {
	return actor != nil && actor.Role == model.RoleStudent
}

// CanMutateApplicationStatus reports whether the actor may change an
// application's workflow status. job is the application's target job; the
// status side of the split ownership belongs to that job's employer.
func CanMutateApplicationStatus(actor *model.User, job *model.Job) bool {
	return actor != nil && job != nil &&
		actor.Role == model.RoleEmployer && actor.ID == job.EmployerID
}

// CanRateApplication reports whether the actor may rate the given
// application. Only the student who authored it.
func CanRateApplication(actor *model.User, app *model.Application) bool {
	return actor != nil && app != nil &&
		actor.Role == model.RoleStudent && actor.ID == app.StudentID
}
