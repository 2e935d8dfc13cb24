// Package handler contains the HTTP layer: request decoding, shape
// validation, calling the services with the resolved actor, and encoding
// responses. No business rule lives here — a handler that rejects a request
// itself is always rejecting a malformed shape, never a policy violation.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/campusworks/internboard/internal/model"
	"github.com/campusworks/internboard/internal/repository"
	"github.com/campusworks/internboard/internal/service"
)

// JobHandler manages the job catalog endpoints and job rating.
type JobHandler struct {
	jobs     *service.JobService
	ratings  *service.RatingService
	auths    *service.AuthService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewJobHandler creates a JobHandler.
func NewJobHandler(jobs *service.JobService, ratings *service.RatingService, auths *service.AuthService, validate *validator.Validate, logger *slog.Logger) *JobHandler {
	return &JobHandler{
		jobs:     jobs,
		ratings:  ratings,
		auths:    auths,
		validate: validate,
		logger:   logger,
	}
}

// HandleList returns the job catalog.
//
// HTTP: GET /api/jobs?status=open&job_type=internship&q=backend
//
// All filters are optional; an unset status defaults to "open" in the
// service, so closed postings never show up unless asked for.
func (h *JobHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	filter := repository.JobFilter{
		Status:  model.JobStatus(r.URL.Query().Get("status")),
		JobType: r.URL.Query().Get("job_type"),
		Keyword: r.URL.Query().Get("q"),
	}

	jobs, err := h.jobs.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, jobs)
}

// HandleGet returns a single posting.
//
// HTTP: GET /api/jobs/{id}
func (h *JobHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	job, err := h.jobs.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

type createJobRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description" validate:"required"`
	JobType     string `json:"job_type"`
}

// HandleCreate creates a posting owned by the actor.
//
// HTTP: POST /api/jobs (auth required, employers only)
func (h *JobHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.auths)
	if err != nil {
		writeError(w, err)
		return
	}

	var req createJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	job, err := h.jobs.Create(r.Context(), actor, service.CreateJobInput{
		Title:       req.Title,
		Description: req.Description,
		JobType:     req.JobType,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, job)
}

type updateJobRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// HandleUpdate edits a posting's title and/or description.
//
// HTTP: PUT /api/jobs/{id} (auth required, owning employer only)
//
// Pointer fields distinguish "absent" from "empty": a field left out of the
// JSON stays nil and is never touched.
func (h *JobHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.auths)
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, err)
		return
	}

	job, err := h.jobs.Update(r.Context(), actor, r.PathValue("id"), service.UpdateJobInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, job)
}

// HandleDelete removes a posting and, through the storage cascade, every
// application targeting it.
//
// HTTP: DELETE /api/jobs/{id} (auth required, owning employer only)
func (h *JobHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.auths)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.jobs.Delete(r.Context(), actor, r.PathValue("id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

type rateRequest struct {
	Rating int `json:"rating"`
}

// HandleRate folds the actor's vote into the job's aggregate score and
// returns the new value.
//
// HTTP: POST /api/jobs/{id}/rate (auth required, students only)
// BODY: {"rating": 4}
func (h *JobHandler) HandleRate(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.auths)
	if err != nil {
		writeError(w, err)
		return
	}

	var req rateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, err)
		return
	}

	aggregate, err := h.ratings.RateJob(r.Context(), actor, r.PathValue("id"), req.Rating)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]float64{"job_rating": aggregate})
}
