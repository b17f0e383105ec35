package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAuditEventsDistinctFromStatuses(t *testing.T) {
	assert.Equal(t, AuditEvent("APPLICATION_ARCHIVED"), AuditApplicationArchived)
	assert.Equal(t, ApplicationStatus("ARCHIVED"), ApplicationArchived)

	events := []AuditEvent{
		AuditUserCreated,
		AuditUserUpdated,
		AuditUserConnected,
		AuditApplicationCreated,
		AuditApplicationUpdated,
		AuditApplicationArchived,
	}
	seen := make(map[AuditEvent]bool, len(events))
	for _, e := range events {
		assert.False(t, seen[e], "duplicate event %s", e)
		seen[e] = true
	}
}
