package mocks

import (
	"context"
	"slices"
	"sort"
	"strings"

	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/store"
)

// MockApplicationStore implements store.ApplicationStore for testing
type MockApplicationStore struct {
	FindByIDFn     func(ctx context.Context, id string) (*domain.Application, error)
	FindByIDsFn    func(ctx context.Context, ids []string) ([]*domain.Application, error)
	FindByNameFn   func(ctx context.Context, name string) ([]*domain.Application, error)
	FindByGroupsFn func(ctx context.Context, groupIDs []string, status domain.ApplicationStatus) ([]*domain.Application, error)
	FindAllFn      func(ctx context.Context, status domain.ApplicationStatus) ([]*domain.Application, error)
	CreateFn       func(ctx context.Context, app *domain.Application) (*domain.Application, error)
	UpdateFn       func(ctx context.Context, app *domain.Application) (*domain.Application, error)

	// Applications keyed by id
	Applications map[string]*domain.Application
}

var _ store.ApplicationStore = (*MockApplicationStore)(nil)

// NewMockApplicationStore creates a store seeded with apps.
func NewMockApplicationStore(apps ...*domain.Application) *MockApplicationStore {
	m := &MockApplicationStore{Applications: make(map[string]*domain.Application)}
	for _, a := range apps {
		m.Applications[a.ID] = a.Clone()
	}
	return m
}

// FindByID implements the ApplicationStore interface
func (m *MockApplicationStore) FindByID(ctx context.Context, id string) (*domain.Application, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	a, ok := m.Applications[id]
	if !ok {
		return nil, store.ErrApplicationNotFound
	}
	return a.Clone(), nil
}

// FindByIDs implements the ApplicationStore interface
func (m *MockApplicationStore) FindByIDs(ctx context.Context, ids []string) ([]*domain.Application, error) {
	if m.FindByIDsFn != nil {
		return m.FindByIDsFn(ctx, ids)
	}
	return m.filter(func(a *domain.Application) bool { return slices.Contains(ids, a.ID) }), nil
}

// FindByName implements the ApplicationStore interface with a
// case-insensitive substring match.
func (m *MockApplicationStore) FindByName(ctx context.Context, name string) ([]*domain.Application, error) {
	if m.FindByNameFn != nil {
		return m.FindByNameFn(ctx, name)
	}
	needle := strings.ToLower(name)
	return m.filter(func(a *domain.Application) bool {
		return strings.Contains(strings.ToLower(a.Name), needle)
	}), nil
}

// FindByGroups implements the ApplicationStore interface
func (m *MockApplicationStore) FindByGroups(
	ctx context.Context,
	groupIDs []string,
	status domain.ApplicationStatus,
) ([]*domain.Application, error) {
	if m.FindByGroupsFn != nil {
		return m.FindByGroupsFn(ctx, groupIDs, status)
	}
	return m.filter(func(a *domain.Application) bool {
		if a.Status != status {
			return false
		}
		for _, g := range a.Groups {
			if slices.Contains(groupIDs, g) {
				return true
			}
		}
		return false
	}), nil
}

// FindAll implements the ApplicationStore interface
func (m *MockApplicationStore) FindAll(ctx context.Context, status domain.ApplicationStatus) ([]*domain.Application, error) {
	if m.FindAllFn != nil {
		return m.FindAllFn(ctx, status)
	}
	return m.filter(func(a *domain.Application) bool { return a.Status == status }), nil
}

// Create implements the ApplicationStore interface
func (m *MockApplicationStore) Create(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, app)
	}
	if _, exists := m.Applications[app.ID]; exists {
		return nil, store.ErrApplicationExists
	}
	m.Applications[app.ID] = app.Clone()
	return app.Clone(), nil
}

// Update implements the ApplicationStore interface
func (m *MockApplicationStore) Update(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, app)
	}
	if _, exists := m.Applications[app.ID]; !exists {
		return nil, store.ErrApplicationNotFound
	}
	m.Applications[app.ID] = app.Clone()
	return app.Clone(), nil
}

func (m *MockApplicationStore) filter(keep func(*domain.Application) bool) []*domain.Application {
	out := []*domain.Application{}
	for _, a := range m.Applications {
		if keep(a) {
			out = append(out, a.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}
