package store

import (
	"context"

	"github.com/phrazzld/console-api/internal/domain"
)

// APIStore reads published API definitions.
type APIStore interface {
	// FindByID returns ErrAPINotFound if the id is unknown. Metadata is loaded.
	FindByID(ctx context.Context, id string) (*domain.APIModel, error)
}

// MetadataStore reads portal-level metadata entries.
type MetadataStore interface {
	// FindByKey returns ErrMetadataNotFound if the key is unset.
	FindByKey(ctx context.Context, key string) (string, error)
}
