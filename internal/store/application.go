package store

import (
	"context"

	"github.com/phrazzld/console-api/internal/domain"
)

// ApplicationStore defines the interface for application persistence.
// Groups are part of the record: Create and Update persist the full set.
type ApplicationStore interface {
	// FindByID returns ErrApplicationNotFound if the id is unknown.
	FindByID(ctx context.Context, id string) (*domain.Application, error)

	// FindByIDs returns the applications whose id is in ids, any status.
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Application, error)

	// FindByName returns applications whose name contains name, ignoring case, any status.
	FindByName(ctx context.Context, name string) ([]*domain.Application, error)

	// FindByGroups returns applications attached to at least one of groupIDs
	// and having the given status.
	FindByGroups(ctx context.Context, groupIDs []string, status domain.ApplicationStatus) ([]*domain.Application, error)

	// FindAll returns applications with the given status.
	FindAll(ctx context.Context, status domain.ApplicationStatus) ([]*domain.Application, error)

	// Create saves a new application. Returns ErrApplicationExists on id collision.
	Create(ctx context.Context, app *domain.Application) (*domain.Application, error)

	// Update replaces the stored record. Returns ErrApplicationNotFound if absent.
	Update(ctx context.Context, app *domain.Application) (*domain.Application, error)
}
