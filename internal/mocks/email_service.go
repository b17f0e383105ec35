package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/console-api/internal/domain"
)

// MockEmailService records notifications instead of delivering them.
type MockEmailService struct {
	SendFn func(ctx context.Context, n domain.EmailNotification) error

	mu    sync.Mutex
	Sent  []domain.EmailNotification
	Async []domain.EmailNotification
}

// Send records n as delivered synchronously.
func (m *MockEmailService) Send(ctx context.Context, n domain.EmailNotification) error {
	if m.SendFn != nil {
		return m.SendFn(ctx, n)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, n)
	return nil
}

// SendAsync records n as queued.
func (m *MockEmailService) SendAsync(ctx context.Context, n domain.EmailNotification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Async = append(m.Async, n)
}
