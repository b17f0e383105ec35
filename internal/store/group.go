package store

import (
	"context"

	"github.com/phrazzld/console-api/internal/domain"
)

// GroupStore reads user groups.
type GroupStore interface {
	// FindByIDs returns the groups whose id is in ids; unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Group, error)

	// FindAll returns every group.
	FindAll(ctx context.Context) ([]*domain.Group, error)
}
