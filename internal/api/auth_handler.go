package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/phrazzld/console-api/internal/api/shared"
	"github.com/phrazzld/console-api/internal/platform/logger"
	"github.com/phrazzld/console-api/internal/redact"
	"github.com/phrazzld/console-api/internal/service"
	"github.com/phrazzld/console-api/internal/service/auth"
)

// ErrInvalidCredentials is reported for an unknown user or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	users            service.UserService
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	logger           *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	users service.UserService,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		users:            users,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		logger:           logger.With("component", "auth_handler"),
	}
}

// Login handles POST /api/auth/login. It checks the password, records the
// connection and returns a session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContextOrDefault(ctx, h.logger)

	var req LoginRequest
	if err := shared.DecodeAndValidate(w, r, &req); err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.users.FindByName(ctx, req.Username, false)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			h.rejectCredentials(w, r)
			return
		}
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	if user.Password == "" {
		h.rejectCredentials(w, r)
		return
	}
	if err := h.passwordVerifier.Compare(user.Password, req.Password); err != nil {
		h.rejectCredentials(w, r)
		return
	}

	user, err = h.users.Connect(ctx, req.Username)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	token, err := h.jwtService.GenerateToken(ctx, user.Username)
	if err != nil {
		log.Error("failed to generate token", redact.Attr(err), slog.String("username", user.Username))
		HandleAPIError(w, r, err, "Failed to generate authentication token")
		return
	}

	log.Info("user logged in", slog.String("username", user.Username))
	shared.RespondWithJSON(w, r, http.StatusOK, TokenResponse{
		Token:     token,
		TokenType: TokenTypeBearer,
		User:      user,
	})
}

func (h *AuthHandler) rejectCredentials(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid credentials",
		ErrInvalidCredentials, shared.WithElevatedLogLevel())
}
