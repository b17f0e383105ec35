package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/mocks"
	"github.com/phrazzld/console-api/internal/platform/metrics"
	"github.com/phrazzld/console-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mustPatchField returns one side of an audit entry's before/after patch.
func mustPatchField(t *testing.T, entry domain.Audit, field string) json.RawMessage {
	t.Helper()
	var patch map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(entry.Patch, &patch))
	v, ok := patch[field]
	require.True(t, ok, "patch has no %q", field)
	return v
}

func TestAuditService_CreateApplicationAuditLog(t *testing.T) {
	audits := mocks.NewMockAuditStore()
	m := metrics.New()
	svc := service.NewAuditService(audits, m, testLogger())
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	svc.CreateApplicationAuditLog(context.Background(),
		"app-1",
		map[string]string{domain.AuditPropertyApplication: "app-1"},
		domain.AuditApplicationArchived,
		"jdoe",
		at,
		&domain.Application{ID: "app-1", Status: domain.ApplicationActive},
		&domain.Application{ID: "app-1", Status: domain.ApplicationArchived})

	entries := audits.Entries()
	require.Len(t, entries, 1)
	e := entries[0]
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, domain.AuditReferenceApplication, e.ReferenceType)
	assert.Equal(t, "app-1", e.ReferenceID)
	assert.Equal(t, "jdoe", e.User)
	assert.Equal(t, at, e.CreatedAt)
	assert.Contains(t, string(mustPatchField(t, e, "previous")), `"status":"ACTIVE"`)
	assert.Contains(t, string(mustPatchField(t, e, "current")), `"status":"ARCHIVED"`)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body),
		`console_audit_events_total{event="APPLICATION_ARCHIVED",reference_type="APPLICATION"} 1`)
}

func TestAuditService_PortalEntriesUseDefaultReference(t *testing.T) {
	audits := mocks.NewMockAuditStore()
	svc := service.NewAuditService(audits, nil, testLogger())

	svc.CreatePortalAuditLog(context.Background(),
		map[string]string{domain.AuditPropertyUser: "jdoe"},
		domain.AuditUserConnected, "jdoe", time.Now(), nil, &domain.User{Username: "jdoe", Password: "secret"})

	entries := audits.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.AuditReferencePortal, entries[0].ReferenceType)
	assert.Equal(t, domain.DefaultReferenceID, entries[0].ReferenceID)
	assert.NotContains(t, string(entries[0].Patch), "secret", "password hashes never reach the audit trail")
}

func TestAuditService_StoreFailureIsSwallowed(t *testing.T) {
	audits := mocks.NewMockAuditStore()
	audits.CreateFn = func(context.Context, *domain.Audit) error {
		return errors.New("audit table locked")
	}
	svc := service.NewAuditService(audits, nil, testLogger())

	assert.NotPanics(t, func() {
		svc.CreatePortalAuditLog(context.Background(), nil, domain.AuditUserUpdated, "jdoe", time.Now(), nil, nil)
	})
}
