// Package model defines the data structures used throughout the application.
// In Go, we use structs to represent our data — similar to classes in other languages,
// but without inheritance. Go favours composition over inheritance.
package model

import "time"

// Role determines what a user may do on the marketplace.
// There are exactly two roles and a user's role never changes after
// registration — no endpoint mutates it.
type Role string

const (
	RoleStudent  Role = "student"
	RoleEmployer Role = "employer"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleEmployer
}

// User represents a registered account — either a student or an employer.
//
// The profile fields are role-specific: FullName/Course/Faculty are only
// meaningful for students, Organization only for employers. We keep them all
// on one struct (one users table) rather than splitting into two types; the
// profile service decides which fields a given role may read and write.
// Fields irrelevant to a role are simply left empty, never erased.
//
// WHY GitHubID int64?
// Users who sign in with GitHub OAuth are linked by GitHub's numeric user ID.
// Zero means "no GitHub account linked" — password-registered users. int64
// avoids overflow for large GitHub account numbers.
type User struct {
	ID           string    `json:"id"           db:"id"`
	Username     string    `json:"username"     db:"username"` // unique, immutable handle
	PasswordHash string    `json:"-"            db:"password_hash"`
	Role         Role      `json:"role"         db:"role"`
	FullName     string    `json:"fullName"     db:"full_name"`    // student profile
	Course       string    `json:"course"       db:"course"`       // student profile
	Faculty      string    `json:"faculty"      db:"faculty"`      // student profile
	Organization string    `json:"organization" db:"organization"` // employer profile
	GitHubID     int64     `json:"-"            db:"github_id"`    // 0 = not linked
	CreatedAt    time.Time `json:"createdAt"    db:"created_at"`
}
