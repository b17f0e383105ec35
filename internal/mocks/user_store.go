package mocks

import (
	"context"
	"sort"

	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/store"
)

// MockUserStore implements store.UserStore for testing
type MockUserStore struct {
	// Function fields for customizable behavior
	FindByUsernameFn  func(ctx context.Context, username string) (*domain.User, error)
	FindByUsernamesFn func(ctx context.Context, usernames []string) ([]*domain.User, error)
	FindAllFn         func(ctx context.Context) ([]*domain.User, error)
	CreateFn          func(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateFn          func(ctx context.Context, user *domain.User) (*domain.User, error)

	// Data for default implementation, keyed by username
	Users map[string]*domain.User

	// Calls counts invocations per method name
	Calls map[string]int
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a new mock store with initialized defaults
func NewMockUserStore(users ...*domain.User) *MockUserStore {
	m := &MockUserStore{
		Users: make(map[string]*domain.User),
		Calls: make(map[string]int),
	}
	for _, u := range users {
		m.Users[u.Username] = u.Clone()
	}
	return m
}

// FindByUsername implements the UserStore interface
func (m *MockUserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.Calls["FindByUsername"]++
	if m.FindByUsernameFn != nil {
		return m.FindByUsernameFn(ctx, username)
	}
	u, ok := m.Users[username]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	return u.Clone(), nil
}

// FindByUsernames implements the UserStore interface
func (m *MockUserStore) FindByUsernames(ctx context.Context, usernames []string) ([]*domain.User, error) {
	m.Calls["FindByUsernames"]++
	if m.FindByUsernamesFn != nil {
		return m.FindByUsernamesFn(ctx, usernames)
	}
	out := []*domain.User{}
	seen := make(map[string]bool, len(usernames))
	for _, name := range usernames {
		if u, ok := m.Users[name]; ok && !seen[name] {
			seen[name] = true
			out = append(out, u.Clone())
		}
	}
	sortUsers(out)
	return out, nil
}

// FindAll implements the UserStore interface
func (m *MockUserStore) FindAll(ctx context.Context) ([]*domain.User, error) {
	m.Calls["FindAll"]++
	if m.FindAllFn != nil {
		return m.FindAllFn(ctx)
	}
	out := make([]*domain.User, 0, len(m.Users))
	for _, u := range m.Users {
		out = append(out, u.Clone())
	}
	sortUsers(out)
	return out, nil
}

// Create implements the UserStore interface
func (m *MockUserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	m.Calls["Create"]++
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	if _, exists := m.Users[user.Username]; exists {
		return nil, store.ErrUsernameExists
	}
	m.Users[user.Username] = user.Clone()
	return user.Clone(), nil
}

// Update implements the UserStore interface
func (m *MockUserStore) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	m.Calls["Update"]++
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, user)
	}
	if _, exists := m.Users[user.Username]; !exists {
		return nil, store.ErrUserNotFound
	}
	m.Users[user.Username] = user.Clone()
	return user.Clone(), nil
}

func sortUsers(users []*domain.User) {
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
}
