package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/console-api/internal/domain"
)

// Error kinds. Every specific service error wraps exactly one of them, and
// the API layer maps kinds to HTTP statuses.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrDataIntegrity      = errors.New("data integrity violation")
)

// kindError is a specific error that belongs to one kind.
type kindError struct {
	kind error
	msg  string
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func newKindError(kind error, msg string) error {
	return &kindError{kind: kind, msg: msg}
}

// Not found
var (
	ErrUserNotFound         = newKindError(ErrNotFound, "user not found")
	ErrApplicationNotFound  = newKindError(ErrNotFound, "application not found")
	ErrGroupNotFound        = newKindError(ErrNotFound, "group not found")
	ErrRoleNotFound         = newKindError(ErrNotFound, "role not found")
	ErrDefaultRoleNotFound  = newKindError(ErrNotFound, "no default role found")
	ErrSubscriptionNotFound = newKindError(ErrNotFound, "subscription not found")
	ErrAPIKeyNotFound       = newKindError(ErrNotFound, "api key not found")
	ErrAPINotFound          = newKindError(ErrNotFound, "api not found")
)

// Conflict
var (
	ErrUsernameAlreadyExists    = newKindError(ErrConflict, "username already exists")
	ErrApplicationAlreadyExists = newKindError(ErrConflict, "application already exists")
)

// Precondition failed
var (
	ErrRegistrationDisabled       = newKindError(ErrPreconditionFailed, "user registration is disabled")
	ErrJWTSecretMissing           = newKindError(ErrPreconditionFailed, "JWT secret is mandatory")
	ErrPortalURLMissing           = newKindError(ErrPreconditionFailed, "portal URL must be configured")
	ErrEmailRequired              = newKindError(ErrPreconditionFailed, "an e-mail address is required")
	ErrSupportUnavailable         = newKindError(ErrPreconditionFailed, "support is not available")
	ErrSupportEmailNotConfigured  = newKindError(ErrPreconditionFailed, "support e-mail address is not configured")
	ErrApplicationArchived        = newKindError(ErrPreconditionFailed, "application is archived")
	ErrSubscriptionNotClosable    = newKindError(ErrPreconditionFailed, "subscription cannot be closed")
	ErrApplicationServiceNotReady = newKindError(ErrPreconditionFailed, "application service is not wired")
)

// Data integrity
var (
	ErrPrimaryOwnerMissing = newKindError(ErrDataIntegrity, "primary owner missing")
)

// TechnicalError wraps a store or otherwise unexpected failure.
type TechnicalError struct {
	Op      string
	Message string
	Err     error
}

// Error implements the error interface for TechnicalError.
func (e *TechnicalError) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s failed: %s", e.Op, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	default:
		return e.Op + " failed"
	}
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TechnicalError) Unwrap() error {
	return e.Err
}

// NewTechnicalError creates a TechnicalError.
func NewTechnicalError(op, message string, err error) *TechnicalError {
	return &TechnicalError{Op: op, Message: message, Err: err}
}

// IsClassified reports whether err already carries a kind, a validation
// failure or a technical wrapper, and so should be returned as is.
func IsClassified(err error) bool {
	var te *TechnicalError
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrPreconditionFailed) ||
		errors.Is(err, ErrDataIntegrity) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.As(err, &te)
}

// technical passes classified errors through and wraps everything else.
func technical(op string, err error) error {
	if err == nil || IsClassified(err) {
		return err
	}
	return &TechnicalError{Op: op, Err: err}
}
