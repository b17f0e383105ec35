package store

import (
	"context"

	"github.com/phrazzld/console-api/internal/domain"
)

// AuditStore is the append-only audit trail.
type AuditStore interface {
	Create(ctx context.Context, a *domain.Audit) error
}
