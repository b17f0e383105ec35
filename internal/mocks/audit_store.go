package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/store"
)

// MockAuditStore implements store.AuditStore by recording entries.
type MockAuditStore struct {
	CreateFn func(ctx context.Context, a *domain.Audit) error

	mu      sync.Mutex
	entries []domain.Audit
}

var _ store.AuditStore = (*MockAuditStore)(nil)

// NewMockAuditStore creates an empty recording store.
func NewMockAuditStore() *MockAuditStore {
	return &MockAuditStore{}
}

// Create implements the AuditStore interface
func (m *MockAuditStore) Create(ctx context.Context, a *domain.Audit) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, *a)
	return nil
}

// Entries returns a copy of the recorded entries.
func (m *MockAuditStore) Entries() []domain.Audit {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Audit(nil), m.entries...)
}

// Events returns the recorded event tags in order.
func (m *MockAuditStore) Events() []domain.AuditEvent {
	entries := m.Entries()
	out := make([]domain.AuditEvent, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Event)
	}
	return out
}
