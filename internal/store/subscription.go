package store

import (
	"context"

	"github.com/phrazzld/console-api/internal/domain"
)

// SubscriptionStore persists application subscriptions to API plans.
type SubscriptionStore interface {
	// FindByID returns ErrSubscriptionNotFound if the id is unknown.
	FindByID(ctx context.Context, id string) (*domain.Subscription, error)

	// FindByApplicationAndPlan lists the subscriptions of an application.
	// An empty plan matches every plan.
	FindByApplicationAndPlan(ctx context.Context, applicationID, plan string) ([]*domain.Subscription, error)

	// Update replaces the stored record. Returns ErrSubscriptionNotFound if absent.
	Update(ctx context.Context, s *domain.Subscription) (*domain.Subscription, error)
}

// APIKeyStore persists the keys issued for subscriptions.
type APIKeyStore interface {
	// FindByKey returns ErrAPIKeyNotFound if the key is unknown.
	FindByKey(ctx context.Context, key string) (*domain.APIKey, error)

	// FindBySubscription lists the keys of a subscription.
	FindBySubscription(ctx context.Context, subscriptionID string) ([]*domain.APIKey, error)

	// Update replaces the stored record. Returns ErrAPIKeyNotFound if absent.
	Update(ctx context.Context, k *domain.APIKey) (*domain.APIKey, error)
}
