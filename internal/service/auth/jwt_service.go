package auth

import (
	"context"
	"time"
)

// Token purposes carried in the "type" claim.
const (
	TokenTypeSession      = "session"
	TokenTypeRegistration = "registration"
)

// JWTService issues and validates console session tokens.
type JWTService interface {
	// GenerateToken creates a signed session token for username.
	GenerateToken(ctx context.Context, username string) (string, error)

	// ValidateToken validates a session token and extracts its claims.
	// Returns ErrExpiredToken, ErrWrongTokenType or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the validated content of a session token.
type Claims struct {
	Username  string    `json:"sub,omitempty"`
	TokenType string    `json:"type,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// RegistrationTokenService signs and verifies the self-registration tokens
// e-mailed to new users.
type RegistrationTokenService interface {
	// Configured reports whether a signing secret is available.
	Configured() bool

	// Sign issues a token carrying the identity claims of a pre-created user.
	Sign(ctx context.Context, claims RegistrationClaims) (string, error)

	// Verify checks signature and expiry and returns the identity claims.
	Verify(ctx context.Context, tokenString string) (*RegistrationClaims, error)
}

// RegistrationClaims is the identity carried by a registration token.
type RegistrationClaims struct {
	Issuer    string
	Subject   string
	Email     string
	Firstname string
	Lastname  string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
