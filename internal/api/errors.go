package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/console-api/internal/api/shared"
	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/service"
	"github.com/phrazzld/console-api/internal/service/auth"
)

// ErrUnauthenticated is reported when a protected handler runs without an
// authenticated user in its context.
var ErrUnauthenticated = errors.New("authentication required")

// ErrForbidden is reported when the current user's roles do not grant the
// permission a route requires.
var ErrForbidden = errors.New("access denied")

// MapErrorToStatusCode maps service errors to HTTP status codes by kind.
func MapErrorToStatusCode(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, ErrUnauthenticated),
		errors.Is(err, ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden

	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict

	case errors.Is(err, service.ErrPreconditionFailed),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, shared.ErrEmptyBody),
		errors.Is(err, shared.ErrInvalidBody),
		errors.As(err, &verrs):
		return http.StatusBadRequest

	default:
		// ErrDataIntegrity and technical failures.
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns the message exposed to clients for err.
// Classified errors carry messages written for users; anything else is
// replaced by a generic message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return SanitizeValidationError(verrs)
	}

	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, auth.ErrMissingToken):
		return "Invalid token"
	case errors.Is(err, ErrUnauthenticated):
		return "Authentication required"
	case errors.Is(err, ErrForbidden):
		return "Access denied"
	case errors.Is(err, shared.ErrEmptyBody):
		return "Request body is required"
	case errors.Is(err, shared.ErrInvalidBody):
		return "Invalid request format"
	case errors.Is(err, service.ErrDataIntegrity):
		return "An unexpected error occurred"
	}

	var te *service.TechnicalError
	if errors.As(err, &te) {
		return "An unexpected error occurred"
	}

	if errors.Is(err, service.ErrNotFound) ||
		errors.Is(err, service.ErrConflict) ||
		errors.Is(err, service.ErrPreconditionFailed) ||
		errors.Is(err, domain.ErrValidation) {
		return capitalize(err.Error())
	}
	return "An unexpected error occurred"
}

// SanitizeValidationError turns validator errors into one line naming each
// offending JSON field.
func SanitizeValidationError(verrs validator.ValidationErrors) string {
	if len(verrs) == 0 {
		return "Validation error"
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag())))
	}
	return strings.Join(parts, "; ")
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	default:
		return "validation failed"
	}
}

// HandleAPIError maps err to a status and a safe message and writes the
// error response. An explicit message overrides the derived one.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	var opts []shared.ResponseOption
	if status == http.StatusUnauthorized {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
