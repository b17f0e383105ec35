package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/console-api/internal/api/middleware"
	"github.com/phrazzld/console-api/internal/config"
	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/platform/metrics"
	"github.com/phrazzld/console-api/internal/service"
	"github.com/phrazzld/console-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

// stubUsers answers FindByName; every other method panics through the nil
// embedded interface.
type stubUsers struct {
	service.UserService
}

func (stubUsers) FindByName(_ context.Context, username string, _ bool) (*domain.UserView, error) {
	if username != "jdoe" {
		return nil, service.ErrUserNotFound
	}
	return &domain.UserView{Username: "jdoe", Email: "jdoe@example.com"}, nil
}

// stubMemberships grants jdoe nothing on any reference.
type stubMemberships struct {
	service.MembershipService
}

func (stubMemberships) GetRole(
	context.Context,
	domain.MembershipReferenceType,
	string,
	string,
	domain.RoleScope,
) (*domain.Role, error) {
	return nil, nil
}

func newTestApplication(t *testing.T) *application {
	t.Helper()

	jwtService, err := auth.NewJWTService(config.JWTConfig{Secret: testSecret, Issuer: "console", ExpireAfter: 600})
	require.NoError(t, err)

	return &application{
		config:            &config.Config{Server: config.ServerConfig{Port: 8083}},
		logger:            slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:           metrics.New(),
		jwtService:        jwtService,
		passwordVerifier:  auth.NewBcryptVerifier(),
		userService:       stubUsers{},
		membershipService: stubMemberships{},
	}
}

func TestRouterHealth(t *testing.T) {
	app := newTestApplication(t)
	rec := httptest.NewRecorder()

	app.setupRouter().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.TraceIDHeader))
}

func TestRouterProtectedRoutes(t *testing.T) {
	app := newTestApplication(t)
	router := app.setupRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/user", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := app.jwtService.GenerateToken(context.Background(), "jdoe")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"username":"jdoe"`)
}

func TestRouterRequiresPermissions(t *testing.T) {
	app := newTestApplication(t)
	router := app.setupRouter()

	token, err := app.jwtService.GenerateToken(context.Background(), "jdoe")
	require.NoError(t, err)

	for _, tt := range []struct{ method, target string }{
		{http.MethodGet, "/api/users"},
		{http.MethodPost, "/api/users"},
		{http.MethodGet, "/api/users/asmith"},
		{http.MethodGet, "/api/applications/app-1"},
		{http.MethodPut, "/api/applications/app-1"},
		{http.MethodDelete, "/api/applications/app-1"},
	} {
		req := httptest.NewRequest(tt.method, tt.target, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code, "%s %s", tt.method, tt.target)
	}
}

func TestRouterExposesMetrics(t *testing.T) {
	app := newTestApplication(t)
	router := app.setupRouter()

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "console_http_requests_total"))
}

func TestNewSessionTokensWithoutSecret(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tokens, err := newSessionTokens(config.JWTConfig{Issuer: "console", ExpireAfter: 600}, logger)
	require.NoError(t, err)

	token, err := tokens.GenerateToken(context.Background(), "jdoe")
	require.NoError(t, err)
	claims, err := tokens.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "jdoe", claims.Username)
}

func TestHandleMigrationsRejectsUnknownCommand(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	err := handleMigrations(context.Background(), &config.Config{}, "sideways", logger)

	assert.ErrorContains(t, err, `unknown migration command "sideways"`)
}
