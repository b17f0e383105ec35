package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/platform/logger"
	"github.com/phrazzld/console-api/internal/store"
)

const roleColumns = `scope, name, description, default_role, system, permissions`

type roleRow struct {
	domain.Role
	RawPermissions []byte `db:"permissions"`
}

func (r roleRow) toDomain() (*domain.Role, error) {
	role := r.Role
	if len(r.RawPermissions) > 0 {
		if err := json.Unmarshal(r.RawPermissions, &role.Permissions); err != nil {
			return nil, fmt.Errorf("decode role permissions: %w", err)
		}
	}
	return &role, nil
}

// PostgresRoleStore implements store.RoleStore.
type PostgresRoleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresRoleStore creates a new PostgreSQL implementation of the RoleStore interface.
func NewPostgresRoleStore(db store.DBTX, logger *slog.Logger) *PostgresRoleStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresRoleStore{
		db:     db,
		logger: logger.With(slog.String("component", "role_store")),
	}
}

var _ store.RoleStore = (*PostgresRoleStore)(nil)

// FindByID implements store.RoleStore.FindByID
func (s *PostgresRoleStore) FindByID(ctx context.Context, scope domain.RoleScope, name string) (*domain.Role, error) {
	var row roleRow
	err := s.db.GetContext(ctx, &row,
		`SELECT `+roleColumns+` FROM roles WHERE scope = $1 AND name = $2`, string(scope), name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrRoleNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get role",
			slog.String("error", err.Error()),
			slog.String("scope", string(scope)),
			slog.String("name", name))
		return nil, MapError(err)
	}
	return row.toDomain()
}

// FindDefaultByScopes implements store.RoleStore.FindDefaultByScopes
func (s *PostgresRoleStore) FindDefaultByScopes(ctx context.Context, scopes []domain.RoleScope) ([]*domain.Role, error) {
	if len(scopes) == 0 {
		return []*domain.Role{}, nil
	}

	names := make([]string, len(scopes))
	for i, sc := range scopes {
		names[i] = string(sc)
	}

	query, args, err := sqlx.In(
		`SELECT `+roleColumns+` FROM roles WHERE default_role AND scope IN (?) ORDER BY scope, name`, names)
	if err != nil {
		return nil, err
	}

	var rows []roleRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get default roles",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	out := make([]*domain.Role, 0, len(rows))
	for _, r := range rows {
		role, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, nil
}
