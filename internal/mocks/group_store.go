package mocks

import (
	"context"
	"slices"

	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/store"
)

// MockGroupStore implements store.GroupStore for testing
type MockGroupStore struct {
	FindByIDsFn func(ctx context.Context, ids []string) ([]*domain.Group, error)
	FindAllFn   func(ctx context.Context) ([]*domain.Group, error)

	Groups []*domain.Group
}

var _ store.GroupStore = (*MockGroupStore)(nil)

// NewMockGroupStore creates a store seeded with groups.
func NewMockGroupStore(groups ...*domain.Group) *MockGroupStore {
	return &MockGroupStore{Groups: groups}
}

// FindByIDs implements the GroupStore interface
func (m *MockGroupStore) FindByIDs(ctx context.Context, ids []string) ([]*domain.Group, error) {
	if m.FindByIDsFn != nil {
		return m.FindByIDsFn(ctx, ids)
	}
	out := []*domain.Group{}
	for _, g := range m.Groups {
		if slices.Contains(ids, g.ID) {
			out = append(out, g)
		}
	}
	return out, nil
}

// FindAll implements the GroupStore interface
func (m *MockGroupStore) FindAll(ctx context.Context) ([]*domain.Group, error) {
	if m.FindAllFn != nil {
		return m.FindAllFn(ctx)
	}
	return slices.Clone(m.Groups), nil
}
