package api

import "github.com/phrazzld/console-api/internal/domain"

// TokenTypeBearer is the token type returned by the login endpoint.
const TokenTypeBearer = "BEARER"

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,max=72"`
}

// TokenResponse defines the successful response of the login endpoint.
type TokenResponse struct {
	// Token is the session JWT to send as "Authorization: Bearer <token>"
	Token     string           `json:"token"`
	TokenType string           `json:"token_type"`
	User      *domain.UserView `json:"user"`
}
