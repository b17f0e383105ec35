package mocks

import (
	"context"
	"maps"
	"slices"

	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/store"
)

// MockMembershipStore implements store.MembershipStore for testing
type MockMembershipStore struct {
	FindByIDFn                   func(ctx context.Context, username, referenceID string, referenceType domain.MembershipReferenceType) (*domain.Membership, error)
	FindByUserAndReferenceTypeFn func(ctx context.Context, username string, referenceType domain.MembershipReferenceType) ([]*domain.Membership, error)
	FindByReferencesAndRoleFn    func(ctx context.Context, referenceType domain.MembershipReferenceType, referenceIDs []string, scope domain.RoleScope, role string) ([]*domain.Membership, error)
	CreateFn                     func(ctx context.Context, m *domain.Membership) (*domain.Membership, error)
	UpdateFn                     func(ctx context.Context, m *domain.Membership) (*domain.Membership, error)

	// Memberships in insertion order
	Memberships []*domain.Membership
}

var _ store.MembershipStore = (*MockMembershipStore)(nil)

// NewMockMembershipStore creates a store seeded with memberships.
func NewMockMembershipStore(ms ...*domain.Membership) *MockMembershipStore {
	m := &MockMembershipStore{}
	for _, ms := range ms {
		m.Memberships = append(m.Memberships, cloneMembership(ms))
	}
	return m
}

// FindByID implements the MembershipStore interface
func (m *MockMembershipStore) FindByID(
	ctx context.Context,
	username, referenceID string,
	referenceType domain.MembershipReferenceType,
) (*domain.Membership, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, username, referenceID, referenceType)
	}
	if i := m.index(username, referenceID, referenceType); i >= 0 {
		return cloneMembership(m.Memberships[i]), nil
	}
	return nil, store.ErrMembershipNotFound
}

// FindByUserAndReferenceType implements the MembershipStore interface
func (m *MockMembershipStore) FindByUserAndReferenceType(
	ctx context.Context,
	username string,
	referenceType domain.MembershipReferenceType,
) ([]*domain.Membership, error) {
	if m.FindByUserAndReferenceTypeFn != nil {
		return m.FindByUserAndReferenceTypeFn(ctx, username, referenceType)
	}
	out := []*domain.Membership{}
	for _, ms := range m.Memberships {
		if ms.UserID == username && ms.ReferenceType == referenceType {
			out = append(out, cloneMembership(ms))
		}
	}
	return out, nil
}

// FindByReferencesAndRole implements the MembershipStore interface
func (m *MockMembershipStore) FindByReferencesAndRole(
	ctx context.Context,
	referenceType domain.MembershipReferenceType,
	referenceIDs []string,
	scope domain.RoleScope,
	role string,
) ([]*domain.Membership, error) {
	if m.FindByReferencesAndRoleFn != nil {
		return m.FindByReferencesAndRoleFn(ctx, referenceType, referenceIDs, scope, role)
	}
	out := []*domain.Membership{}
	for _, ms := range m.Memberships {
		if ms.ReferenceType == referenceType &&
			slices.Contains(referenceIDs, ms.ReferenceID) &&
			ms.Roles[scope] == role {
			out = append(out, cloneMembership(ms))
		}
	}
	return out, nil
}

// Create implements the MembershipStore interface
func (m *MockMembershipStore) Create(ctx context.Context, ms *domain.Membership) (*domain.Membership, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, ms)
	}
	if m.index(ms.UserID, ms.ReferenceID, ms.ReferenceType) >= 0 {
		return nil, store.ErrDuplicate
	}
	m.Memberships = append(m.Memberships, cloneMembership(ms))
	return cloneMembership(ms), nil
}

// Update implements the MembershipStore interface
func (m *MockMembershipStore) Update(ctx context.Context, ms *domain.Membership) (*domain.Membership, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, ms)
	}
	i := m.index(ms.UserID, ms.ReferenceID, ms.ReferenceType)
	if i < 0 {
		return nil, store.ErrMembershipNotFound
	}
	m.Memberships[i] = cloneMembership(ms)
	return cloneMembership(ms), nil
}

func (m *MockMembershipStore) index(username, referenceID string, referenceType domain.MembershipReferenceType) int {
	return slices.IndexFunc(m.Memberships, func(ms *domain.Membership) bool {
		return ms.UserID == username && ms.ReferenceID == referenceID && ms.ReferenceType == referenceType
	})
}

func cloneMembership(ms *domain.Membership) *domain.Membership {
	c := *ms
	c.Roles = maps.Clone(ms.Roles)
	return &c
}
