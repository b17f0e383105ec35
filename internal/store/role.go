package store

import (
	"context"

	"github.com/phrazzld/console-api/internal/domain"
)

// RoleStore reads role definitions.
type RoleStore interface {
	// FindByID returns ErrRoleNotFound if the scope has no role with that name.
	FindByID(ctx context.Context, scope domain.RoleScope, name string) (*domain.Role, error)

	// FindDefaultByScopes returns the roles flagged as default for any of the scopes.
	FindDefaultByScopes(ctx context.Context, scopes []domain.RoleScope) ([]*domain.Role, error)
}
