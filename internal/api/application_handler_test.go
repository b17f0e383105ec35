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

func TestListApplications(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		method string
		arg    string
	}{
		{name: "current user", target: "/api/applications", method: "FindByUser", arg: "jdoe"},
		{name: "by name", target: "/api/applications?name=bill", method: "FindByName", arg: "bill"},
		{name: "blank name", target: "/api/applications?name=", method: "FindByName", arg: ""},
		{name: "by group", target: "/api/applications?group=g1", method: "FindByGroup", arg: "g1"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			apps := &mockApplicationService{}
			apps.On(tt.method, mock.Anything, tt.arg).
				Return([]*domain.ApplicationView{{ID: "a1", Name: "billing"}}, nil)
			h := NewApplicationHandler(apps, nil)

			rec := serve(http.MethodGet, "/api/applications", tt.target, "", "jdoe", h.List)

			require.Equal(t, http.StatusOK, rec.Code)
			var got []domain.ApplicationView
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
			require.Len(t, got, 1)
			assert.Equal(t, "a1", got[0].ID)
			apps.AssertExpectations(t)
		})
	}
}

func TestListApplicationsEmpty(t *testing.T) {
	t.Parallel()

	apps := &mockApplicationService{}
	apps.On("FindByUser", mock.Anything, "jdoe").Return(nil, nil)
	h := NewApplicationHandler(apps, nil)

	rec := serve(http.MethodGet, "/api/applications", "/api/applications", "", "jdoe", h.List)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestCreateApplication(t *testing.T) {
	t.Parallel()

	apps := &mockApplicationService{}
	want := domain.NewApplication{Name: "billing", Description: "invoices", Groups: []string{"g1"}}
	apps.On("Create", mock.Anything, want, "jdoe").Return(&domain.ApplicationView{
		ID:           "a1",
		Name:         "billing",
		Status:       "ACTIVE",
		PrimaryOwner: &domain.PrimaryOwner{Username: "jdoe"},
	}, nil)
	h := NewApplicationHandler(apps, nil)

	rec := serve(http.MethodPost, "/api/applications", "/api/applications",
		`{"name":"billing","description":"invoices","groups":["g1"]}`, "jdoe", h.Create)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got domain.ApplicationView
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "jdoe", got.PrimaryOwner.Username)
	apps.AssertExpectations(t)
}

func TestCreateApplicationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
	}{
		{name: "missing description", body: `{"name":"billing"}`, wantStatus: http.StatusBadRequest},
		{name: "unknown group", body: `{"name":"b","description":"d"}`, serviceErr: service.ErrGroupNotFound, wantStatus: http.StatusNotFound},
		{name: "collision", body: `{"name":"b","description":"d"}`, serviceErr: service.ErrApplicationAlreadyExists, wantStatus: http.StatusConflict},
		{name: "invalid record", body: `{"name":"b","description":"d"}`, serviceErr: domain.ErrEmptyApplicationName, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			apps := &mockApplicationService{}
			apps.On("Create", mock.Anything, mock.Anything, "jdoe").Return(nil, tt.serviceErr)
			h := NewApplicationHandler(apps, nil)

			rec := serve(http.MethodPost, "/a", "/a", tt.body, "jdoe", h.Create)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestGetApplication(t *testing.T) {
	t.Parallel()

	apps := &mockApplicationService{}
	apps.On("FindByID", mock.Anything, "a1").Return(&domain.ApplicationView{ID: "a1"}, nil)
	apps.On("FindByID", mock.Anything, "missing").Return(nil, service.ErrApplicationNotFound)
	apps.On("FindByID", mock.Anything, "orphan").Return(nil, service.ErrPrimaryOwnerMissing)
	h := NewApplicationHandler(apps, nil)

	rec := serve(http.MethodGet, "/api/applications/{id}", "/api/applications/a1", "", "jdoe", h.Get)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(http.MethodGet, "/api/applications/{id}", "/api/applications/missing", "", "jdoe", h.Get)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Application not found", decodeError(t, rec).Message)

	rec = serve(http.MethodGet, "/api/applications/{id}", "/api/applications/orphan", "", "jdoe", h.Get)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "An unexpected error occurred", decodeError(t, rec).Message)
}

func TestUpdateApplication(t *testing.T) {
	t.Parallel()

	apps := &mockApplicationService{}
	apps.On("Update", mock.Anything, "a1", domain.UpdateApplication{Name: "renamed", Description: "d"}).
		Return(&domain.ApplicationView{ID: "a1", Name: "renamed"}, nil)
	apps.On("Update", mock.Anything, "old", mock.Anything).Return(nil, service.ErrApplicationArchived)
	h := NewApplicationHandler(apps, nil)

	rec := serve(http.MethodPut, "/api/applications/{id}", "/api/applications/a1",
		`{"name":"renamed","description":"d"}`, "jdoe", h.Update)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(http.MethodPut, "/api/applications/{id}", "/api/applications/old",
		`{"name":"renamed","description":"d"}`, "jdoe", h.Update)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Application is archived", decodeError(t, rec).Message)
}

func TestArchiveApplication(t *testing.T) {
	t.Parallel()

	apps := &mockApplicationService{}
	apps.On("Archive", mock.Anything, "a1").Return(nil)
	apps.On("Archive", mock.Anything, "gone").Return(service.ErrApplicationNotFound)
	h := NewApplicationHandler(apps, nil)

	rec := serve(http.MethodDelete, "/api/applications/{id}", "/api/applications/a1", "", "jdoe", h.Archive)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())

	rec = serve(http.MethodDelete, "/api/applications/{id}", "/api/applications/gone", "", "jdoe", h.Archive)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	apps.AssertExpectations(t)
}
