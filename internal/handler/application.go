package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/campusworks/internboard/internal/model"
	"github.com/campusworks/internboard/internal/service"
)

// ApplicationHandler manages the application workflow endpoints and
// application rating.
type ApplicationHandler struct {
	apps     *service.ApplicationService
	ratings  *service.RatingService
	auths    *service.AuthService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewApplicationHandler creates an ApplicationHandler.
func NewApplicationHandler(apps *service.ApplicationService, ratings *service.RatingService, auths *service.AuthService, validate *validator.Validate, logger *slog.Logger) *ApplicationHandler {
	return &ApplicationHandler{
		apps:     apps,
		ratings:  ratings,
		auths:    auths,
		validate: validate,
		logger:   logger,
	}
}

type applyRequest struct {
	ResumeURL   string `json:"resume_url"`
	CoverLetter string `json:"cover_letter"`
}

// HandleApply submits an application against a job.
//
// HTTP: POST /api/jobs/{id}/apply (auth required, students only)
//
// Both body fields are optional free text; an empty body is a valid
// application.
func (h *ApplicationHandler) HandleApply(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.auths)
	if err != nil {
		writeError(w, err)
		return
	}

	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, err)
		return
	}

	app, err := h.apps.Create(r.Context(), actor, r.PathValue("id"), service.ApplyInput{
		ResumeURL:   req.ResumeURL,
		CoverLetter: req.CoverLetter,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, app)
}

// HandleList returns the applications visible to the actor: students see
// the ones they authored, employers the ones targeting their jobs.
//
// HTTP: GET /api/applications (auth required)
func (h *ApplicationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.auths)
	if err != nil {
		writeError(w, err)
		return
	}

	views, err := h.apps.List(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, views)
}

// HandleGet returns one application view.
//
// HTTP: GET /api/applications/{id} (auth required)
func (h *ApplicationHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.auths)
	if err != nil {
		writeError(w, err)
		return
	}

	view, err := h.apps.Get(r.Context(), actor, r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// HandleUpdateStatus moves an application to a new workflow status.
//
// HTTP: PUT /api/applications/{id}/status (auth required, owning employer)
// BODY: {"status": "invited"}
func (h *ApplicationHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.auths)
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeValidationError(w, err)
		return
	}

	if err := h.apps.UpdateStatus(r.Context(), actor, r.PathValue("id"), model.ApplicationStatus(req.Status)); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

// HandleRate records the actor's feedback on their own application.
//
// HTTP: POST /api/applications/{id}/rate (auth required, authoring student)
// BODY: {"rating": 5}
func (h *ApplicationHandler) HandleRate(w http.ResponseWriter, r *http.Request) {
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

	if err := h.ratings.RateApplication(r.Context(), actor, r.PathValue("id"), req.Rating); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"rating": req.Rating})
}
