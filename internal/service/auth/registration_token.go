package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/console-api/internal/platform/logger"
)

type registrationJWTClaims struct {
	TokenType string `json:"type"`
	Email     string `json:"email"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	jwt.RegisteredClaims
}

// hmacRegistrationTokens implements RegistrationTokenService with HS256.
// An empty secret is accepted at construction; Sign and Verify then fail
// with ErrMissingSecret.
type hmacRegistrationTokens struct {
	signingKey []byte
	issuer     string
	lifetime   time.Duration
	timeFunc   func() time.Time
}

var _ RegistrationTokenService = (*hmacRegistrationTokens)(nil)

// NewRegistrationTokenService creates a registration token service.
// lifetime is the validity of issued tokens.
func NewRegistrationTokenService(secret, issuer string, lifetime time.Duration) RegistrationTokenService {
	return newRegistrationTokens(secret, issuer, lifetime, time.Now)
}

func newRegistrationTokens(secret, issuer string, lifetime time.Duration, timeFunc func() time.Time) *hmacRegistrationTokens {
	return &hmacRegistrationTokens{
		signingKey: []byte(secret),
		issuer:     issuer,
		lifetime:   lifetime,
		timeFunc:   timeFunc,
	}
}

// Configured implements RegistrationTokenService.
func (s *hmacRegistrationTokens) Configured() bool {
	return len(s.signingKey) > 0
}

// Sign implements RegistrationTokenService.
func (s *hmacRegistrationTokens) Sign(ctx context.Context, c RegistrationClaims) (string, error) {
	if !s.Configured() {
		return "", ErrMissingSecret
	}
	now := s.timeFunc()

	claims := registrationJWTClaims{
		TokenType: TokenTypeRegistration,
		Email:     c.Email,
		Firstname: c.Firstname,
		Lastname:  c.Lastname,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   c.Subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.lifetime)),
			ID:        uuid.New().String(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		logger.FromContext(ctx).Error("failed to sign registration token",
			"error", err,
			"username", c.Subject)
		return "", fmt.Errorf("failed to sign registration token: %w", err)
	}
	return signed, nil
}

// Verify implements RegistrationTokenService.
func (s *hmacRegistrationTokens) Verify(ctx context.Context, tokenString string) (*RegistrationClaims, error) {
	if !s.Configured() {
		return nil, ErrMissingSecret
	}

	var claims registrationJWTClaims
	if err := parseHMAC(tokenString, &claims, s.signingKey, s.timeFunc(), 0); err != nil {
		logger.FromContext(ctx).Debug("registration token validation failed", "error", err)
		return nil, err
	}
	if claims.TokenType != TokenTypeRegistration {
		return nil, ErrWrongTokenType
	}

	out := &RegistrationClaims{
		Issuer:    claims.Issuer,
		Subject:   claims.Subject,
		Email:     claims.Email,
		Firstname: claims.Firstname,
		Lastname:  claims.Lastname,
		ID:        claims.ID,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
