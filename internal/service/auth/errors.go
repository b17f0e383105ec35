package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid or signature doesn't match
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrWrongTokenType indicates a token issued for one purpose was presented for another,
	// e.g. a registration token used as a session token.
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrMissingSecret indicates no signing secret is configured.
	ErrMissingSecret = errors.New("JWT secret is mandatory")

	// ErrWeakSecret indicates the configured signing secret is too short.
	ErrWeakSecret = errors.New("jwt secret must be at least 32 characters")
)
