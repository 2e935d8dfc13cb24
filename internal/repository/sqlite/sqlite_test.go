package sqlite

import (
	"context"
	"testing"

	"github.com/campusworks/internboard/internal/model"
)

// TESTING WITH IN-MEMORY SQLITE:
// ":memory:" creates a fresh database that exists only during the test —
// fast, isolated, destroyed when the connection closes. These tests run the
// real schema with real foreign keys, so the cascade behaviour is exercised
// for real, not mocked.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *DB, username string, role model.Role) *model.User {
	t.Helper()
	user := &model.User{Username: username, Role: role}
	if err := db.Create(context.Background(), user); err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

func createTestJob(t *testing.T, db *DB, employerID string) *model.Job {
	t.Helper()
	job := &model.Job{
		Title:       "Backend Intern",
		Description: "Go and SQL",
		JobType:     model.DefaultJobType,
		Status:      model.JobStatusOpen,
		EmployerID:  employerID,
	}
	if err := db.CreateJob(context.Background(), job); err != nil {
		t.Fatalf("failed to create test job: %v", err)
	}
	return job
}

func createTestApplication(t *testing.T, db *DB, studentID, jobID string) *model.Application {
	t.Helper()
	app := &model.Application{
		ResumeURL:   "https://example.com/cv.pdf",
		CoverLetter: "please hire me",
		Status:      model.StatusSubmitted,
		StudentID:   studentID,
		JobID:       jobID,
	}
	if err := db.CreateApplication(context.Background(), app); err != nil {
		t.Fatalf("failed to create test application: %v", err)
	}
	return app
}
