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

type apiMetadataRow struct {
	Key   string `db:"key"`
	Value string `db:"value"`
}

// PostgresAPIStore implements store.APIStore.
type PostgresAPIStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAPIStore creates a new PostgreSQL implementation of the APIStore interface.
func NewPostgresAPIStore(db store.DBTX, logger *slog.Logger) *PostgresAPIStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAPIStore{
		db:     db,
		logger: logger.With(slog.String("component", "api_store")),
	}
}

var _ store.APIStore = (*PostgresAPIStore)(nil)

// FindByID implements store.APIStore.FindByID
func (s *PostgresAPIStore) FindByID(ctx context.Context, id string) (*domain.APIModel, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	api := domain.APIModel{Metadata: map[string]string{}}
	err := s.db.QueryRowxContext(ctx, `SELECT id, name, version FROM apis WHERE id = $1`, id).
		Scan(&api.ID, &api.Name, &api.Version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAPINotFound
		}
		log.Error("failed to get api", slog.String("error", err.Error()), slog.String("api_id", id))
		return nil, MapError(err)
	}

	var rows []apiMetadataRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT key, value FROM api_metadata WHERE api_id = $1`, id); err != nil {
		log.Error("failed to get api metadata", slog.String("error", err.Error()), slog.String("api_id", id))
		return nil, MapError(err)
	}
	for _, r := range rows {
		api.Metadata[r.Key] = r.Value
	}

	return &api, nil
}

// PostgresMetadataStore implements store.MetadataStore over portal_metadata.
type PostgresMetadataStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMetadataStore creates a new PostgreSQL implementation of the MetadataStore interface.
func NewPostgresMetadataStore(db store.DBTX, logger *slog.Logger) *PostgresMetadataStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMetadataStore{
		db:     db,
		logger: logger.With(slog.String("component", "metadata_store")),
	}
}

var _ store.MetadataStore = (*PostgresMetadataStore)(nil)

// FindByKey implements store.MetadataStore.FindByKey
func (s *PostgresMetadataStore) FindByKey(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM portal_metadata WHERE key = $1`, key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", store.ErrMetadataNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get metadata",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return "", MapError(err)
	}
	return value, nil
}
