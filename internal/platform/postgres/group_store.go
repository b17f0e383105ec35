package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/platform/logger"
	"github.com/phrazzld/console-api/internal/store"
)

const groupColumns = `id, name, event_rules, created_at, updated_at`

type groupRow struct {
	ID         string    `db:"id"`
	Name       string    `db:"name"`
	EventRules []byte    `db:"event_rules"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (r groupRow) toDomain() (*domain.Group, error) {
	g := &domain.Group{
		ID:        r.ID,
		Name:      r.Name,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if len(r.EventRules) > 0 {
		if err := json.Unmarshal(r.EventRules, &g.EventRules); err != nil {
			return nil, fmt.Errorf("decode group event rules: %w", err)
		}
	}
	return g, nil
}

// PostgresGroupStore implements store.GroupStore.
type PostgresGroupStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresGroupStore creates a new PostgreSQL implementation of the GroupStore interface.
func NewPostgresGroupStore(db store.DBTX, logger *slog.Logger) *PostgresGroupStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresGroupStore{
		db:     db,
		logger: logger.With(slog.String("component", "group_store")),
	}
}

var _ store.GroupStore = (*PostgresGroupStore)(nil)

// FindByIDs implements store.GroupStore.FindByIDs
func (s *PostgresGroupStore) FindByIDs(ctx context.Context, ids []string) ([]*domain.Group, error) {
	if len(ids) == 0 {
		return []*domain.Group{}, nil
	}

	query, args, err := sqlx.In(`SELECT `+groupColumns+` FROM user_groups WHERE id IN (?) ORDER BY id`, ids)
	if err != nil {
		return nil, err
	}
	return s.selectGroups(ctx, s.db.Rebind(query), args...)
}

// FindAll implements store.GroupStore.FindAll
func (s *PostgresGroupStore) FindAll(ctx context.Context) ([]*domain.Group, error) {
	return s.selectGroups(ctx, `SELECT `+groupColumns+` FROM user_groups ORDER BY id`)
}

func (s *PostgresGroupStore) selectGroups(ctx context.Context, query string, args ...any) ([]*domain.Group, error) {
	var rows []groupRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to query groups",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	out := make([]*domain.Group, 0, len(rows))
	for _, r := range rows {
		g, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, nil
}
