package mocks

import (
	"context"

	"github.com/phrazzld/console-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing
type MockJWTService struct {
	// GenerateTokenFn allows test cases to mock the GenerateToken behavior
	GenerateTokenFn func(ctx context.Context, username string) (string, error)

	// ValidateTokenFn allows test cases to mock the ValidateToken behavior
	ValidateTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Default values used when functions aren't explicitly defined
	Token       string
	Err         error
	ValidateErr error
	Claims      *auth.Claims
}

var _ auth.JWTService = (*MockJWTService)(nil)

// GenerateToken implements the auth.JWTService interface
func (m *MockJWTService) GenerateToken(ctx context.Context, username string) (string, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, username)
	}
	return m.Token, m.Err
}

// ValidateToken implements the auth.JWTService interface
func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.ValidateTokenFn != nil {
		return m.ValidateTokenFn(ctx, tokenString)
	}
	return m.Claims, m.ValidateErr
}

// MockRegistrationTokens implements auth.RegistrationTokenService for testing.
// Sign records the claims and returns Token; Verify returns Claims.
type MockRegistrationTokens struct {
	Unconfigured bool

	SignFn   func(ctx context.Context, c auth.RegistrationClaims) (string, error)
	VerifyFn func(ctx context.Context, token string) (*auth.RegistrationClaims, error)

	Token     string
	Claims    *auth.RegistrationClaims
	Err       error
	Signed    []auth.RegistrationClaims
	VerifyErr error
}

var _ auth.RegistrationTokenService = (*MockRegistrationTokens)(nil)

// Configured implements auth.RegistrationTokenService
func (m *MockRegistrationTokens) Configured() bool {
	return !m.Unconfigured
}

// Sign implements auth.RegistrationTokenService
func (m *MockRegistrationTokens) Sign(ctx context.Context, c auth.RegistrationClaims) (string, error) {
	if m.SignFn != nil {
		return m.SignFn(ctx, c)
	}
	if m.Unconfigured {
		return "", auth.ErrMissingSecret
	}
	m.Signed = append(m.Signed, c)
	return m.Token, m.Err
}

// Verify implements auth.RegistrationTokenService
func (m *MockRegistrationTokens) Verify(ctx context.Context, token string) (*auth.RegistrationClaims, error) {
	if m.VerifyFn != nil {
		return m.VerifyFn(ctx, token)
	}
	if m.Unconfigured {
		return nil, auth.ErrMissingSecret
	}
	return m.Claims, m.VerifyErr
}
