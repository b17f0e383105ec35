package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/console-api/internal/api/shared"
	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/platform/logger"
	"github.com/phrazzld/console-api/internal/service"
)

// ApplicationHandler serves the /api/applications endpoints.
type ApplicationHandler struct {
	apps   service.ApplicationService
	logger *slog.Logger
}

// NewApplicationHandler creates an ApplicationHandler.
func NewApplicationHandler(apps service.ApplicationService, logger *slog.Logger) *ApplicationHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ApplicationHandler{
		apps:   apps,
		logger: logger.With("component", "application_handler"),
	}
}

// List handles GET /api/applications. With ?name= it searches by name, with
// ?group= it lists a group's applications, and otherwise it returns the
// applications of the current user.
func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	username, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var (
		apps []*domain.ApplicationView
		err  error
	)
	query := r.URL.Query()
	switch {
	case query.Has("name"):
		apps, err = h.apps.FindByName(r.Context(), query.Get("name"))
	case query.Get("group") != "":
		apps, err = h.apps.FindByGroup(r.Context(), query.Get("group"))
	default:
		apps, err = h.apps.FindByUser(r.Context(), username)
	}
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if apps == nil {
		apps = []*domain.ApplicationView{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, apps)
}

// Create handles POST /api/applications. The current user becomes the
// primary owner.
func (h *ApplicationHandler) Create(w http.ResponseWriter, r *http.Request) {
	username, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req domain.NewApplication
	if err := shared.DecodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	app, err := h.apps.Create(r.Context(), req, username)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("application created",
		slog.String("application_id", app.ID))
	shared.RespondWithJSON(w, r, http.StatusCreated, app)
}

// Get handles GET /api/applications/{id}.
func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	app, err := h.apps.FindByID(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, app)
}

// Update handles PUT /api/applications/{id}.
func (h *ApplicationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	var req domain.UpdateApplication
	if err := shared.DecodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	app, err := h.apps.Update(r.Context(), id, req)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, app)
}

// Archive handles DELETE /api/applications/{id}.
func (h *ApplicationHandler) Archive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathParam(w, r, "id")
	if !ok {
		return
	}

	if err := h.apps.Archive(r.Context(), id); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("application archived",
		slog.String("application_id", id))
	shared.RespondNoContent(w)
}
