package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/platform/logger"
	"github.com/phrazzld/console-api/internal/store"
)

const subscriptionColumns = `id, api, plan, application, status, created_at, updated_at, closed_at`

// PostgresSubscriptionStore implements store.SubscriptionStore.
type PostgresSubscriptionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSubscriptionStore creates a new PostgreSQL implementation of the SubscriptionStore interface.
func NewPostgresSubscriptionStore(db store.DBTX, logger *slog.Logger) *PostgresSubscriptionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSubscriptionStore{
		db:     db,
		logger: logger.With(slog.String("component", "subscription_store")),
	}
}

var _ store.SubscriptionStore = (*PostgresSubscriptionStore)(nil)

// FindByID implements store.SubscriptionStore.FindByID
func (s *PostgresSubscriptionStore) FindByID(ctx context.Context, id string) (*domain.Subscription, error) {
	var sub domain.Subscription
	err := s.db.GetContext(ctx, &sub,
		`SELECT `+subscriptionColumns+` FROM subscriptions WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSubscriptionNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get subscription",
			slog.String("error", err.Error()),
			slog.String("subscription_id", id))
		return nil, MapError(err)
	}
	return &sub, nil
}

// FindByApplicationAndPlan implements store.SubscriptionStore.FindByApplicationAndPlan
func (s *PostgresSubscriptionStore) FindByApplicationAndPlan(
	ctx context.Context,
	applicationID, plan string,
) ([]*domain.Subscription, error) {
	subs := []*domain.Subscription{}
	err := s.db.SelectContext(ctx, &subs, `
		SELECT `+subscriptionColumns+` FROM subscriptions
		WHERE application = $1 AND ($2 = '' OR plan = $2)
		ORDER BY created_at, id`, applicationID, plan)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list subscriptions",
			slog.String("error", err.Error()),
			slog.String("application_id", applicationID))
		return nil, MapError(err)
	}
	return subs, nil
}

// Update implements store.SubscriptionStore.Update
func (s *PostgresSubscriptionStore) Update(ctx context.Context, sub *domain.Subscription) (*domain.Subscription, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE subscriptions SET status = $1, updated_at = $2, closed_at = $3
		WHERE id = $4`,
		string(sub.Status), sub.UpdatedAt, sub.ClosedAt, sub.ID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update subscription",
			slog.String("error", err.Error()),
			slog.String("subscription_id", sub.ID))
		return nil, MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrSubscriptionNotFound); err != nil {
		return nil, err
	}
	return sub, nil
}

const apiKeyColumns = `key, subscription, application, plan, revoked, revoked_at, expire_at, created_at, updated_at`

// PostgresAPIKeyStore implements store.APIKeyStore.
type PostgresAPIKeyStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAPIKeyStore creates a new PostgreSQL implementation of the APIKeyStore interface.
func NewPostgresAPIKeyStore(db store.DBTX, logger *slog.Logger) *PostgresAPIKeyStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAPIKeyStore{
		db:     db,
		logger: logger.With(slog.String("component", "api_key_store")),
	}
}

var _ store.APIKeyStore = (*PostgresAPIKeyStore)(nil)

// FindByKey implements store.APIKeyStore.FindByKey
func (s *PostgresAPIKeyStore) FindByKey(ctx context.Context, key string) (*domain.APIKey, error) {
	var k domain.APIKey
	err := s.db.GetContext(ctx, &k, `SELECT `+apiKeyColumns+` FROM api_keys WHERE key = $1`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAPIKeyNotFound
		}
		// The key itself is a credential; it is never logged.
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get api key",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return &k, nil
}

// FindBySubscription implements store.APIKeyStore.FindBySubscription
func (s *PostgresAPIKeyStore) FindBySubscription(ctx context.Context, subscriptionID string) ([]*domain.APIKey, error) {
	keys := []*domain.APIKey{}
	err := s.db.SelectContext(ctx, &keys,
		`SELECT `+apiKeyColumns+` FROM api_keys WHERE subscription = $1 ORDER BY created_at`, subscriptionID)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list api keys",
			slog.String("error", err.Error()),
			slog.String("subscription_id", subscriptionID))
		return nil, MapError(err)
	}
	return keys, nil
}

// Update implements store.APIKeyStore.Update
func (s *PostgresAPIKeyStore) Update(ctx context.Context, k *domain.APIKey) (*domain.APIKey, error) {
	result, err := s.db.ExecContext(ctx, `
		UPDATE api_keys SET revoked = $1, revoked_at = $2, expire_at = $3, updated_at = $4
		WHERE key = $5`,
		k.Revoked, k.RevokedAt, k.ExpireAt, k.UpdatedAt, k.Key)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update api key",
			slog.String("error", err.Error()),
			slog.String("subscription_id", k.Subscription))
		return nil, MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrAPIKeyNotFound); err != nil {
		return nil, err
	}
	return k, nil
}
