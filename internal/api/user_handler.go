package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/console-api/internal/api/shared"
	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/platform/logger"
	"github.com/phrazzld/console-api/internal/service"
)

// UserHandler serves the user and registration endpoints.
type UserHandler struct {
	users  service.UserService
	logger *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(users service.UserService, logger *slog.Logger) *UserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UserHandler{
		users:  users,
		logger: logger.With("component", "user_handler"),
	}
}

// Register handles POST /api/users/registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req domain.NewExternalUser
	if err := shared.DecodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.users.Register(r.Context(), req)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Info("registration requested",
		slog.String("username", user.Username))

	shared.RespondWithJSON(w, r, http.StatusCreated, user)
}

// FinalizeRegistration handles POST /api/users/registration/finalize.
func (h *UserHandler) FinalizeRegistration(w http.ResponseWriter, r *http.Request) {
	var req domain.RegisterUser
	if err := shared.DecodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.users.CompleteRegistration(r.Context(), req)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, user)
}

// CreateExternal handles POST /api/users. The user is created without a
// password and with the default roles.
func (h *UserHandler) CreateExternal(w http.ResponseWriter, r *http.Request) {
	var req domain.NewExternalUser
	if err := shared.DecodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.users.CreateExternal(r.Context(), req, true)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, user)
}

// Current handles GET /api/user.
func (h *UserHandler) Current(w http.ResponseWriter, r *http.Request) {
	username, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	user, err := h.users.FindByName(r.Context(), username, true)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// UpdateCurrent handles PUT /api/user.
func (h *UserHandler) UpdateCurrent(w http.ResponseWriter, r *http.Request) {
	username, ok := actorFromRequest(w, r)
	if !ok {
		return
	}

	var req domain.UpdateUser
	if err := shared.DecodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	req.Username = username

	user, err := h.users.Update(r.Context(), req)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}

// List handles GET /api/users.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.FindAll(r.Context(), false)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}
	if users == nil {
		users = []*domain.UserView{}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, users)
}

// Get handles GET /api/users/{username}.
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	username, ok := pathParam(w, r, "username")
	if !ok {
		return
	}

	user, err := h.users.FindByName(r.Context(), username, false)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, user)
}
