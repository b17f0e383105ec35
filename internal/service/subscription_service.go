package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/platform/logger"
	"github.com/phrazzld/console-api/internal/store"
)

// SubscriptionService manages application subscriptions to API plans.
type SubscriptionService interface {
	// FindByApplicationAndPlan lists an application's subscriptions; an
	// empty plan matches every plan.
	FindByApplicationAndPlan(ctx context.Context, applicationID, plan string) ([]*domain.Subscription, error)

	// Close moves an ACCEPTED subscription to CLOSED. Any other state fails
	// with ErrSubscriptionNotClosable.
	Close(ctx context.Context, id string) (*domain.Subscription, error)
}

// SubscriptionServiceImpl implements SubscriptionService.
type SubscriptionServiceImpl struct {
	subscriptions store.SubscriptionStore
	logger        *slog.Logger
}

var _ SubscriptionService = (*SubscriptionServiceImpl)(nil)

// NewSubscriptionService creates a SubscriptionService.
func NewSubscriptionService(subscriptions store.SubscriptionStore, logger *slog.Logger) *SubscriptionServiceImpl {
	return &SubscriptionServiceImpl{
		subscriptions: subscriptions,
		logger:        logger.With("component", "subscription_service"),
	}
}

// FindByApplicationAndPlan implements SubscriptionService.
func (s *SubscriptionServiceImpl) FindByApplicationAndPlan(
	ctx context.Context,
	applicationID, plan string,
) ([]*domain.Subscription, error) {
	subs, err := s.subscriptions.FindByApplicationAndPlan(ctx, applicationID, plan)
	if err != nil {
		return nil, technical("find subscriptions", err)
	}
	return subs, nil
}

// Close implements SubscriptionService.
func (s *SubscriptionServiceImpl) Close(ctx context.Context, id string) (*domain.Subscription, error) {
	sub, err := s.subscriptions.FindByID(ctx, id)
	if errors.Is(err, store.ErrSubscriptionNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrSubscriptionNotFound, id)
	}
	if err != nil {
		return nil, technical("find subscription", err)
	}
	if !sub.Closable() {
		return nil, fmt.Errorf("%w: %s is %s", ErrSubscriptionNotClosable, id, sub.Status)
	}

	now := time.Now().UTC()
	sub.Status = domain.SubscriptionClosed
	sub.ClosedAt = &now
	sub.UpdatedAt = now

	closed, err := s.subscriptions.Update(ctx, sub)
	if err != nil {
		return nil, technical("close subscription", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("subscription closed",
		"subscription_id", id,
		"application_id", sub.Application)
	return closed, nil
}

// APIKeyService manages subscription credentials.
type APIKeyService interface {
	// FindBySubscription lists the keys issued for a subscription.
	FindBySubscription(ctx context.Context, subscriptionID string) ([]*domain.APIKey, error)

	// Revoke revokes key. Revoking an already revoked key is a no-op.
	Revoke(ctx context.Context, key string) (*domain.APIKey, error)
}

// APIKeyServiceImpl implements APIKeyService.
type APIKeyServiceImpl struct {
	keys   store.APIKeyStore
	logger *slog.Logger
}

var _ APIKeyService = (*APIKeyServiceImpl)(nil)

// NewAPIKeyService creates an APIKeyService.
func NewAPIKeyService(keys store.APIKeyStore, logger *slog.Logger) *APIKeyServiceImpl {
	return &APIKeyServiceImpl{keys: keys, logger: logger.With("component", "api_key_service")}
}

// FindBySubscription implements APIKeyService.
func (s *APIKeyServiceImpl) FindBySubscription(ctx context.Context, subscriptionID string) ([]*domain.APIKey, error) {
	keys, err := s.keys.FindBySubscription(ctx, subscriptionID)
	if err != nil {
		return nil, technical("find api keys", err)
	}
	return keys, nil
}

// Revoke implements APIKeyService.
func (s *APIKeyServiceImpl) Revoke(ctx context.Context, key string) (*domain.APIKey, error) {
	k, err := s.keys.FindByKey(ctx, key)
	if errors.Is(err, store.ErrAPIKeyNotFound) {
		return nil, ErrAPIKeyNotFound
	}
	if err != nil {
		return nil, technical("find api key", err)
	}
	if k.Revoked {
		return k, nil
	}

	now := time.Now().UTC()
	k.Revoked = true
	k.RevokedAt = &now
	k.UpdatedAt = now

	revoked, err := s.keys.Update(ctx, k)
	if err != nil {
		return nil, technical("revoke api key", err)
	}
	logger.FromContextOrDefault(ctx, s.logger).Info("api key revoked",
		"subscription_id", k.Subscription,
		"application_id", k.Application)
	return revoked, nil
}
