package store

import (
	"context"

	"github.com/phrazzld/console-api/internal/domain"
)

// MembershipStore persists the (user, reference) role bindings.
type MembershipStore interface {
	// FindByID returns ErrMembershipNotFound if no membership binds the user to the reference.
	FindByID(ctx context.Context, username, referenceID string, referenceType domain.MembershipReferenceType) (*domain.Membership, error)

	// FindByUserAndReferenceType lists a user's memberships of one reference type.
	FindByUserAndReferenceType(ctx context.Context, username string, referenceType domain.MembershipReferenceType) ([]*domain.Membership, error)

	// FindByReferencesAndRole lists memberships on any of referenceIDs whose
	// role for scope equals role.
	FindByReferencesAndRole(
		ctx context.Context,
		referenceType domain.MembershipReferenceType,
		referenceIDs []string,
		scope domain.RoleScope,
		role string,
	) ([]*domain.Membership, error)

	// Create saves a new membership. Returns ErrDuplicate if it already exists.
	Create(ctx context.Context, m *domain.Membership) (*domain.Membership, error)

	// Update replaces the roles of an existing membership.
	// Returns ErrMembershipNotFound if absent.
	Update(ctx context.Context, m *domain.Membership) (*domain.Membership, error)
}
