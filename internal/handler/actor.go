package handler

import (
	"errors"
	"net/http"

	"github.com/campusworks/internboard/internal/apperror"
	"github.com/campusworks/internboard/internal/auth"
	"github.com/campusworks/internboard/internal/model"
	"github.com/campusworks/internboard/internal/service"
)

// resolveActor turns the middleware's userID into the full user record the
// services take as the actor.
//
// Anonymous requests and sessions whose user has since been deleted both
// resolve to a nil actor — the services answer nil with ErrUnauthenticated,
// so a stale cookie fails exactly like no cookie. Only a real storage
// failure is returned as an error.
func resolveActor(r *http.Request, auths *service.AuthService) (*model.User, error) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return nil, nil
	}

	user, err := auths.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}
