package domain

import (
	"encoding/json"
	"time"
)

// AuditReferenceType is the entity family an audit entry belongs to.
type AuditReferenceType string

const (
	AuditReferencePortal      AuditReferenceType = "PORTAL"
	AuditReferenceApplication AuditReferenceType = "APPLICATION"
)

// AuditEvent tags a recorded state transition.
type AuditEvent string

const (
	AuditUserCreated   AuditEvent = "USER_CREATED"
	AuditUserUpdated   AuditEvent = "USER_UPDATED"
	AuditUserConnected AuditEvent = "USER_CONNECTED"

	AuditApplicationCreated  AuditEvent = "APPLICATION_CREATED"
	AuditApplicationUpdated  AuditEvent = "APPLICATION_UPDATED"
	AuditApplicationArchived AuditEvent = "APPLICATION_ARCHIVED"
)

// Audit property keys.
const (
	AuditPropertyUser        = "USER"
	AuditPropertyApplication = "APPLICATION"
)

// Audit is one append-only entry of the audit trail.
type Audit struct {
	ID            string             `json:"id"`
	ReferenceType AuditReferenceType `json:"referenceType"`
	ReferenceID   string             `json:"referenceId"`
	User          string             `json:"user"`
	Event         AuditEvent         `json:"event"`
	Properties    map[string]string  `json:"properties,omitempty"`
	Patch         json.RawMessage    `json:"patch,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// AuditPatch is the before/after snapshot stored with an audit entry.
type AuditPatch struct {
	Previous any `json:"previous"`
	Current  any `json:"current"`
}
