package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/mocks"
	"github.com/phrazzld/console-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	t.Parallel()

	users := &mockUserService{}
	users.On("FindByName", mock.Anything, "jdoe", false).
		Return(&domain.UserView{Username: "jdoe", Password: "$2a$10$hash"}, nil)
	users.On("Connect", mock.Anything, "jdoe").
		Return(&domain.UserView{Username: "jdoe", Email: "jdoe@example.com"}, nil)
	verifier := &mocks.MockPasswordVerifier{ShouldSucceed: true}
	jwt := &mocks.MockJWTService{Token: "session-token"}
	h := NewAuthHandler(users, jwt, verifier, nil)

	rec := serve(http.MethodPost, "/api/auth/login", "/api/auth/login",
		`{"username":"jdoe","password":"s3cret!!"}`, "", h.Login)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp TokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "session-token", resp.Token)
	assert.Equal(t, TokenTypeBearer, resp.TokenType)
	assert.Equal(t, "jdoe@example.com", resp.User.Email)
	assert.Equal(t, "$2a$10$hash", verifier.CompareCalledWith.HashedPassword)
	assert.Equal(t, "s3cret!!", verifier.CompareCalledWith.Password)
	assert.NotContains(t, rec.Body.String(), "$2a$10$hash")
	users.AssertExpectations(t)
}

func TestLoginRejected(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		user     *domain.UserView
		findErr  error
		succeeds bool
	}{
		{name: "unknown user", findErr: service.ErrUserNotFound},
		{name: "external user without password", user: &domain.UserView{Username: "jdoe"}, succeeds: true},
		{name: "wrong password", user: &domain.UserView{Username: "jdoe", Password: "$2a$10$hash"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			users := &mockUserService{}
			users.On("FindByName", mock.Anything, "jdoe", false).Return(tt.user, tt.findErr)
			h := NewAuthHandler(users, &mocks.MockJWTService{}, &mocks.MockPasswordVerifier{ShouldSucceed: tt.succeeds}, nil)

			rec := serve(http.MethodPost, "/login", "/login", `{"username":"jdoe","password":"whatever"}`, "", h.Login)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "Invalid credentials", decodeError(t, rec).Message)
			users.AssertNotCalled(t, "Connect", mock.Anything, mock.Anything)
		})
	}
}

func TestLoginBadRequest(t *testing.T) {
	t.Parallel()

	users := &mockUserService{}
	h := NewAuthHandler(users, &mocks.MockJWTService{}, &mocks.MockPasswordVerifier{}, nil)

	for _, body := range []string{"", `{"username":`, `{"username":"jdoe"}`, `{"username":"jdoe","password":"x","extra":1}`} {
		rec := serve(http.MethodPost, "/login", "/login", body, "", h.Login)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	users.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoginTokenFailure(t *testing.T) {
	t.Parallel()

	users := &mockUserService{}
	users.On("FindByName", mock.Anything, "jdoe", false).
		Return(&domain.UserView{Username: "jdoe", Password: "hash"}, nil)
	users.On("Connect", mock.Anything, "jdoe").Return(&domain.UserView{Username: "jdoe"}, nil)
	jwt := &mocks.MockJWTService{Err: errors.New("signing key unavailable")}
	h := NewAuthHandler(users, jwt, &mocks.MockPasswordVerifier{ShouldSucceed: true}, nil)

	rec := serve(http.MethodPost, "/login", "/login", `{"username":"jdoe","password":"pw"}`, "", h.Login)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to generate authentication token", decodeError(t, rec).Message)
}
