package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/platform/logger"
	"github.com/phrazzld/console-api/internal/platform/metrics"
	"github.com/phrazzld/console-api/internal/store"
)

// AuditService appends entries to the audit trail. It never fails the
// audited operation: write errors are logged and dropped.
type AuditService interface {
	// CreatePortalAuditLog records an event on the portal itself.
	CreatePortalAuditLog(
		ctx context.Context,
		properties map[string]string,
		event domain.AuditEvent,
		actor string,
		createdAt time.Time,
		previous, current any,
	)

	// CreateApplicationAuditLog records an event on one application.
	CreateApplicationAuditLog(
		ctx context.Context,
		applicationID string,
		properties map[string]string,
		event domain.AuditEvent,
		actor string,
		createdAt time.Time,
		previous, current any,
	)
}

// AuditServiceImpl implements AuditService on an AuditStore.
type AuditServiceImpl struct {
	audits  store.AuditStore
	metrics *metrics.Metrics
	logger  *slog.Logger
}

var _ AuditService = (*AuditServiceImpl)(nil)

// NewAuditService creates an AuditService. m may be nil.
func NewAuditService(audits store.AuditStore, m *metrics.Metrics, logger *slog.Logger) *AuditServiceImpl {
	return &AuditServiceImpl{
		audits:  audits,
		metrics: m,
		logger:  logger.With("component", "audit_service"),
	}
}

// CreatePortalAuditLog implements AuditService.
func (s *AuditServiceImpl) CreatePortalAuditLog(
	ctx context.Context,
	properties map[string]string,
	event domain.AuditEvent,
	actor string,
	createdAt time.Time,
	previous, current any,
) {
	s.create(ctx, domain.AuditReferencePortal, domain.DefaultReferenceID, properties, event, actor, createdAt, previous, current)
}

// CreateApplicationAuditLog implements AuditService.
func (s *AuditServiceImpl) CreateApplicationAuditLog(
	ctx context.Context,
	applicationID string,
	properties map[string]string,
	event domain.AuditEvent,
	actor string,
	createdAt time.Time,
	previous, current any,
) {
	s.create(ctx, domain.AuditReferenceApplication, applicationID, properties, event, actor, createdAt, previous, current)
}

func (s *AuditServiceImpl) create(
	ctx context.Context,
	referenceType domain.AuditReferenceType,
	referenceID string,
	properties map[string]string,
	event domain.AuditEvent,
	actor string,
	createdAt time.Time,
	previous, current any,
) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		"reference_type", referenceType,
		"reference_id", referenceID,
		"event", event)

	patch, err := json.Marshal(domain.AuditPatch{Previous: previous, Current: current})
	if err != nil {
		log.Error("failed to encode audit snapshots", "error", err)
		return
	}

	entry := &domain.Audit{
		ID:            uuid.NewString(),
		ReferenceType: referenceType,
		ReferenceID:   referenceID,
		User:          actor,
		Event:         event,
		Properties:    properties,
		Patch:         patch,
		CreatedAt:     createdAt,
	}
	if err := s.audits.Create(ctx, entry); err != nil {
		log.Error("failed to write audit entry", "error", err, "actor", actor)
		return
	}

	s.metrics.AuditRecorded(string(referenceType), string(event))
	log.Debug("audit entry written", "audit_id", entry.ID, "actor", actor)
}

// actorOr returns the authenticated caller carried by ctx, or fallback.
func actorOr(ctx context.Context, fallback string) string {
	if actor, ok := domain.ActorFromContext(ctx); ok && actor != "" {
		return actor
	}
	return fallback
}
