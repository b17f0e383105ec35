package mocks

import (
	"context"
	"slices"

	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/store"
)

// MockRoleStore implements store.RoleStore for testing
type MockRoleStore struct {
	FindByIDFn            func(ctx context.Context, scope domain.RoleScope, name string) (*domain.Role, error)
	FindDefaultByScopesFn func(ctx context.Context, scopes []domain.RoleScope) ([]*domain.Role, error)

	Roles []*domain.Role
}

var _ store.RoleStore = (*MockRoleStore)(nil)

// NewMockRoleStore creates a store seeded with roles.
func NewMockRoleStore(roles ...*domain.Role) *MockRoleStore {
	return &MockRoleStore{Roles: roles}
}

// FindByID implements the RoleStore interface
func (m *MockRoleStore) FindByID(ctx context.Context, scope domain.RoleScope, name string) (*domain.Role, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, scope, name)
	}
	for _, r := range m.Roles {
		if r.Scope == scope && r.Name == name {
			c := *r
			return &c, nil
		}
	}
	return nil, store.ErrRoleNotFound
}

// FindDefaultByScopes implements the RoleStore interface
func (m *MockRoleStore) FindDefaultByScopes(ctx context.Context, scopes []domain.RoleScope) ([]*domain.Role, error) {
	if m.FindDefaultByScopesFn != nil {
		return m.FindDefaultByScopesFn(ctx, scopes)
	}
	out := []*domain.Role{}
	for _, r := range m.Roles {
		if r.Default && slices.Contains(scopes, r.Scope) {
			c := *r
			out = append(out, &c)
		}
	}
	return out, nil
}
