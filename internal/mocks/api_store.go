package mocks

import (
	"context"

	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/store"
)

// MockAPIStore implements store.APIStore for testing
type MockAPIStore struct {
	FindByIDFn func(ctx context.Context, id string) (*domain.APIModel, error)

	APIs map[string]*domain.APIModel
}

var _ store.APIStore = (*MockAPIStore)(nil)

// NewMockAPIStore creates a store seeded with apis.
func NewMockAPIStore(apis ...*domain.APIModel) *MockAPIStore {
	m := &MockAPIStore{APIs: make(map[string]*domain.APIModel)}
	for _, a := range apis {
		m.APIs[a.ID] = a
	}
	return m
}

// FindByID implements the APIStore interface
func (m *MockAPIStore) FindByID(ctx context.Context, id string) (*domain.APIModel, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	a, ok := m.APIs[id]
	if !ok {
		return nil, store.ErrAPINotFound
	}
	return a, nil
}

// MockMetadataStore implements store.MetadataStore for testing
type MockMetadataStore struct {
	FindByKeyFn func(ctx context.Context, key string) (string, error)

	Values map[string]string
}

var _ store.MetadataStore = (*MockMetadataStore)(nil)

// NewMockMetadataStore creates a store seeded with values.
func NewMockMetadataStore(values map[string]string) *MockMetadataStore {
	if values == nil {
		values = map[string]string{}
	}
	return &MockMetadataStore{Values: values}
}

// FindByKey implements the MetadataStore interface
func (m *MockMetadataStore) FindByKey(ctx context.Context, key string) (string, error) {
	if m.FindByKeyFn != nil {
		return m.FindByKeyFn(ctx, key)
	}
	v, ok := m.Values[key]
	if !ok {
		return "", store.ErrMetadataNotFound
	}
	return v, nil
}
