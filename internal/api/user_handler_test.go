package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	t.Parallel()

	users := &mockUserService{}
	req := domain.NewExternalUser{Email: "jdoe@example.com", Firstname: "John", Lastname: "Doe"}
	users.On("Register", mock.Anything, req).
		Return(&domain.UserView{Username: "jdoe@example.com", Email: "jdoe@example.com"}, nil)
	h := NewUserHandler(users, nil)

	rec := serve(http.MethodPost, "/api/users/registration", "/api/users/registration",
		`{"email":"jdoe@example.com","firstname":"John","lastname":"Doe"}`, "", h.Register)

	assert.Equal(t, http.StatusCreated, rec.Code)
	users.AssertExpectations(t)
}

func TestRegisterErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "invalid email",
			body:       `{"email":"not-an-email"}`,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Invalid email: invalid email format",
		},
		{
			name:       "registration disabled",
			body:       `{"email":"jdoe@example.com"}`,
			serviceErr: service.ErrRegistrationDisabled,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "User registration is disabled",
		},
		{
			name:       "existing user",
			body:       `{"email":"jdoe@example.com"}`,
			serviceErr: service.ErrUsernameAlreadyExists,
			wantStatus: http.StatusConflict,
			wantMsg:    "Username already exists",
		},
		{
			name:       "technical failure",
			body:       `{"email":"jdoe@example.com"}`,
			serviceErr: service.NewTechnicalError("create user", "", assert.AnError),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "An unexpected error occurred",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			users := &mockUserService{}
			users.On("Register", mock.Anything, mock.Anything).Return(nil, tt.serviceErr)
			h := NewUserHandler(users, nil)

			rec := serve(http.MethodPost, "/r", "/r", tt.body, "", h.Register)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantMsg, decodeError(t, rec).Message)
		})
	}
}

func TestFinalizeRegistration(t *testing.T) {
	t.Parallel()

	users := &mockUserService{}
	users.On("CompleteRegistration", mock.Anything, domain.RegisterUser{Token: "tok", Password: "longenough"}).
		Return(&domain.UserView{Username: "jdoe"}, nil)
	h := NewUserHandler(users, nil)

	rec := serve(http.MethodPost, "/f", "/f", `{"token":"tok","password":"longenough"}`, "", h.FinalizeRegistration)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = serve(http.MethodPost, "/f", "/f", `{"token":"tok","password":"short"}`, "", h.FinalizeRegistration)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid password: too short", decodeError(t, rec).Message)

	users.AssertNumberOfCalls(t, "CompleteRegistration", 1)
}

func TestCreateExternalUser(t *testing.T) {
	t.Parallel()

	users := &mockUserService{}
	users.On("CreateExternal", mock.Anything, mock.Anything, true).
		Return(&domain.UserView{Username: "ext"}, nil)
	h := NewUserHandler(users, nil)

	rec := serve(http.MethodPost, "/api/users", "/api/users", `{"username":"ext","email":"ext@example.com"}`, "admin", h.CreateExternal)

	assert.Equal(t, http.StatusCreated, rec.Code)
	users.AssertExpectations(t)
}

func TestCurrentUser(t *testing.T) {
	t.Parallel()

	users := &mockUserService{}
	users.On("FindByName", mock.Anything, "jdoe", true).Return(&domain.UserView{
		Username: "jdoe",
		Password: "$2a$10$secret",
		Roles:    []domain.UserRole{{Scope: domain.RoleScopePortal, Name: "USER"}},
	}, nil)
	h := NewUserHandler(users, nil)

	rec := serve(http.MethodGet, "/api/user", "/api/user", "", "jdoe", h.Current)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "secret")
	var got domain.UserView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Len(t, got.Roles, 1)
}

func TestCurrentUserAnonymous(t *testing.T) {
	t.Parallel()

	users := &mockUserService{}
	h := NewUserHandler(users, nil)

	rec := serve(http.MethodGet, "/api/user", "/api/user", "", "", h.Current)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	users.AssertNotCalled(t, "FindByName", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateCurrentUserUsesActor(t *testing.T) {
	t.Parallel()

	users := &mockUserService{}
	users.On("Update", mock.Anything, domain.UpdateUser{Username: "jdoe", Picture: "data:image/png;base64,AAA"}).
		Return(&domain.UserView{Username: "jdoe", Picture: "data:image/png;base64,AAA"}, nil)
	h := NewUserHandler(users, nil)

	rec := serve(http.MethodPut, "/api/user", "/api/user", `{"picture":"data:image/png;base64,AAA"}`, "jdoe", h.UpdateCurrent)

	assert.Equal(t, http.StatusOK, rec.Code)
	users.AssertExpectations(t)
}

func TestListAndGetUsers(t *testing.T) {
	t.Parallel()

	users := &mockUserService{}
	users.On("FindAll", mock.Anything, false).Return(nil, nil)
	users.On("FindByName", mock.Anything, "ghost", false).Return(nil, service.ErrUserNotFound)
	h := NewUserHandler(users, nil)

	rec := serve(http.MethodGet, "/api/users", "/api/users", "", "admin", h.List)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = serve(http.MethodGet, "/api/users/{username}", "/api/users/ghost", "", "admin", h.Get)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", decodeError(t, rec).Message)
}
