package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/campusworks/internboard/internal/service"
)

// ProfileHandler manages the actor's own profile and account deletion.
// There is deliberately no cross-user profile endpoint.
type ProfileHandler struct {
	profiles *service.ProfileService
	auths    *service.AuthService
	logger   *slog.Logger
}

// NewProfileHandler creates a ProfileHandler.
func NewProfileHandler(profiles *service.ProfileService, auths *service.AuthService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		auths:    auths,
		logger:   logger,
	}
}

// HandleGet returns the actor's role-appropriate profile.
//
// HTTP: GET /api/profile (auth required)
func (h *ProfileHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.auths)
	if err != nil {
		writeError(w, err)
		return
	}

	profile, err := h.profiles.Get(r.Context(), actor)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

type updateProfileRequest struct {
	FullName     *string `json:"full_name"`
	Course       *string `json:"course"`
	Faculty      *string `json:"faculty"`
	Organization *string `json:"organization"`
}

// HandleUpdate applies a partial, role-gated profile update. Fields absent
// from the JSON stay untouched; fields that don't belong to the actor's
// role are ignored, not rejected.
//
// HTTP: PUT /api/profile (auth required)
func (h *ProfileHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.auths)
	if err != nil {
		writeError(w, err)
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeValidationError(w, err)
		return
	}

	profile, err := h.profiles.Update(r.Context(), actor, service.UpdateProfileInput{
		FullName:     req.FullName,
		Course:       req.Course,
		Faculty:      req.Faculty,
		Organization: req.Organization,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// HandleDeleteAccount removes the actor's account; the storage cascade takes
// their jobs and applications with it. The session cookie is cleared — the
// token would otherwise stay valid for a user that no longer exists.
//
// HTTP: DELETE /api/account (auth required)
func (h *ProfileHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	actor, err := resolveActor(r, h.auths)
	if err != nil {
		writeError(w, err)
		return
	}

	if err := h.profiles.DeleteAccount(r.Context(), actor); err != nil {
		writeError(w, err)
		return
	}

	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}
