package mocks

import (
	"context"

	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/store"
)

// MockSubscriptionStore implements store.SubscriptionStore for testing
type MockSubscriptionStore struct {
	FindByIDFn                 func(ctx context.Context, id string) (*domain.Subscription, error)
	FindByApplicationAndPlanFn func(ctx context.Context, applicationID, plan string) ([]*domain.Subscription, error)
	UpdateFn                   func(ctx context.Context, s *domain.Subscription) (*domain.Subscription, error)

	// Subscriptions in insertion order
	Subscriptions []*domain.Subscription
}

var _ store.SubscriptionStore = (*MockSubscriptionStore)(nil)

// NewMockSubscriptionStore creates a store seeded with subscriptions.
func NewMockSubscriptionStore(subs ...*domain.Subscription) *MockSubscriptionStore {
	m := &MockSubscriptionStore{}
	for _, s := range subs {
		c := *s
		m.Subscriptions = append(m.Subscriptions, &c)
	}
	return m
}

// FindByID implements the SubscriptionStore interface
func (m *MockSubscriptionStore) FindByID(ctx context.Context, id string) (*domain.Subscription, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	for _, s := range m.Subscriptions {
		if s.ID == id {
			c := *s
			return &c, nil
		}
	}
	return nil, store.ErrSubscriptionNotFound
}

// FindByApplicationAndPlan implements the SubscriptionStore interface
func (m *MockSubscriptionStore) FindByApplicationAndPlan(
	ctx context.Context,
	applicationID, plan string,
) ([]*domain.Subscription, error) {
	if m.FindByApplicationAndPlanFn != nil {
		return m.FindByApplicationAndPlanFn(ctx, applicationID, plan)
	}
	out := []*domain.Subscription{}
	for _, s := range m.Subscriptions {
		if s.Application == applicationID && (plan == "" || s.Plan == plan) {
			c := *s
			out = append(out, &c)
		}
	}
	return out, nil
}

// Update implements the SubscriptionStore interface
func (m *MockSubscriptionStore) Update(ctx context.Context, s *domain.Subscription) (*domain.Subscription, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, s)
	}
	for i, existing := range m.Subscriptions {
		if existing.ID == s.ID {
			c := *s
			m.Subscriptions[i] = &c
			out := c
			return &out, nil
		}
	}
	return nil, store.ErrSubscriptionNotFound
}

// Status returns the stored status of subscription id, or "" if unknown.
func (m *MockSubscriptionStore) Status(id string) domain.SubscriptionStatus {
	for _, s := range m.Subscriptions {
		if s.ID == id {
			return s.Status
		}
	}
	return ""
}

// MockAPIKeyStore implements store.APIKeyStore for testing
type MockAPIKeyStore struct {
	FindByKeyFn          func(ctx context.Context, key string) (*domain.APIKey, error)
	FindBySubscriptionFn func(ctx context.Context, subscriptionID string) ([]*domain.APIKey, error)
	UpdateFn             func(ctx context.Context, k *domain.APIKey) (*domain.APIKey, error)

	Keys []*domain.APIKey
}

var _ store.APIKeyStore = (*MockAPIKeyStore)(nil)

// NewMockAPIKeyStore creates a store seeded with keys.
func NewMockAPIKeyStore(keys ...*domain.APIKey) *MockAPIKeyStore {
	m := &MockAPIKeyStore{}
	for _, k := range keys {
		c := *k
		m.Keys = append(m.Keys, &c)
	}
	return m
}

// FindByKey implements the APIKeyStore interface
func (m *MockAPIKeyStore) FindByKey(ctx context.Context, key string) (*domain.APIKey, error) {
	if m.FindByKeyFn != nil {
		return m.FindByKeyFn(ctx, key)
	}
	for _, k := range m.Keys {
		if k.Key == key {
			c := *k
			return &c, nil
		}
	}
	return nil, store.ErrAPIKeyNotFound
}

// FindBySubscription implements the APIKeyStore interface
func (m *MockAPIKeyStore) FindBySubscription(ctx context.Context, subscriptionID string) ([]*domain.APIKey, error) {
	if m.FindBySubscriptionFn != nil {
		return m.FindBySubscriptionFn(ctx, subscriptionID)
	}
	out := []*domain.APIKey{}
	for _, k := range m.Keys {
		if k.Subscription == subscriptionID {
			c := *k
			out = append(out, &c)
		}
	}
	return out, nil
}

// Update implements the APIKeyStore interface
func (m *MockAPIKeyStore) Update(ctx context.Context, k *domain.APIKey) (*domain.APIKey, error) {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, k)
	}
	for i, existing := range m.Keys {
		if existing.Key == k.Key {
			c := *k
			m.Keys[i] = &c
			out := c
			return &out, nil
		}
	}
	return nil, store.ErrAPIKeyNotFound
}
