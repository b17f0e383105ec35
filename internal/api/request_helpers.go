package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/platform/logger"
)

// actorFromRequest returns the authenticated username placed in the request
// context by the authentication middleware. It writes a 401 and reports false
// when the request is anonymous.
func actorFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	username, ok := domain.ActorFromContext(r.Context())
	if !ok {
		logger.FromContext(r.Context()).Warn("authenticated user not found in request context")
		HandleAPIError(w, r, ErrUnauthenticated, "")
		return "", false
	}
	return username, true
}

// pathParam returns a required, non-blank URL path parameter. It writes a 400
// and reports false when the parameter is missing.
func pathParam(w http.ResponseWriter, r *http.Request, name string) (string, bool) {
	value := strings.TrimSpace(chi.URLParam(r, name))
	if value == "" {
		HandleAPIError(w, r, fmt.Errorf("%w: %s is required", domain.ErrValidation, name), "")
		return "", false
	}
	return value, true
}
