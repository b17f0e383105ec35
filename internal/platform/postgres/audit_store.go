package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/platform/logger"
	"github.com/phrazzld/console-api/internal/store"
)

// PostgresAuditStore implements store.AuditStore.
type PostgresAuditStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAuditStore creates a new PostgreSQL implementation of the AuditStore interface.
func NewPostgresAuditStore(db store.DBTX, logger *slog.Logger) *PostgresAuditStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAuditStore{
		db:     db,
		logger: logger.With(slog.String("component", "audit_store")),
	}
}

var _ store.AuditStore = (*PostgresAuditStore)(nil)

// Create implements store.AuditStore.Create
func (s *PostgresAuditStore) Create(ctx context.Context, a *domain.Audit) error {
	props, err := json.Marshal(a.Properties)
	if err != nil {
		return fmt.Errorf("encode audit properties: %w", err)
	}
	if a.Properties == nil {
		props = []byte("{}")
	}

	var patch any
	if len(a.Patch) > 0 {
		patch = []byte(a.Patch)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audits (id, reference_type, reference_id, username, event, properties, patch, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, string(a.ReferenceType), a.ReferenceID, a.User, string(a.Event), props, patch, a.CreatedAt)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to create audit entry",
			slog.String("error", err.Error()),
			slog.String("event", string(a.Event)),
			slog.String("reference_id", a.ReferenceID))
		return MapError(err)
	}
	return nil
}
