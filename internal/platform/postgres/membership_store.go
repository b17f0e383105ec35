package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/platform/logger"
	"github.com/phrazzld/console-api/internal/store"
)

const membershipColumns = `user_id, reference_id, reference_type, roles, created_at, updated_at`

type membershipRow struct {
	UserID        string    `db:"user_id"`
	ReferenceID   string    `db:"reference_id"`
	ReferenceType string    `db:"reference_type"`
	Roles         []byte    `db:"roles"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r membershipRow) toDomain() (*domain.Membership, error) {
	m := &domain.Membership{
		UserID:        r.UserID,
		ReferenceID:   r.ReferenceID,
		ReferenceType: domain.MembershipReferenceType(r.ReferenceType),
		Roles:         map[domain.RoleScope]string{},
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
	if len(r.Roles) > 0 {
		if err := json.Unmarshal(r.Roles, &m.Roles); err != nil {
			return nil, fmt.Errorf("decode membership roles: %w", err)
		}
	}
	return m, nil
}

// PostgresMembershipStore implements store.MembershipStore.
// Roles are kept as a JSONB object keyed by scope.
type PostgresMembershipStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresMembershipStore creates a new PostgreSQL implementation of the MembershipStore interface.
func NewPostgresMembershipStore(db store.DBTX, logger *slog.Logger) *PostgresMembershipStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresMembershipStore{
		db:     db,
		logger: logger.With(slog.String("component", "membership_store")),
	}
}

var _ store.MembershipStore = (*PostgresMembershipStore)(nil)

// FindByID implements store.MembershipStore.FindByID
func (s *PostgresMembershipStore) FindByID(
	ctx context.Context,
	username, referenceID string,
	referenceType domain.MembershipReferenceType,
) (*domain.Membership, error) {
	var row membershipRow
	err := s.db.GetContext(ctx, &row, `
		SELECT `+membershipColumns+` FROM memberships
		WHERE user_id = $1 AND reference_id = $2 AND reference_type = $3`,
		username, referenceID, string(referenceType))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrMembershipNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get membership",
			slog.String("error", err.Error()),
			slog.String("username", username),
			slog.String("reference_id", referenceID))
		return nil, MapError(err)
	}
	return row.toDomain()
}

// FindByUserAndReferenceType implements store.MembershipStore.FindByUserAndReferenceType
func (s *PostgresMembershipStore) FindByUserAndReferenceType(
	ctx context.Context,
	username string,
	referenceType domain.MembershipReferenceType,
) ([]*domain.Membership, error) {
	return s.selectMemberships(ctx, `
		SELECT `+membershipColumns+` FROM memberships
		WHERE user_id = ? AND reference_type = ?
		ORDER BY reference_id`, username, string(referenceType))
}

// FindByReferencesAndRole implements store.MembershipStore.FindByReferencesAndRole
func (s *PostgresMembershipStore) FindByReferencesAndRole(
	ctx context.Context,
	referenceType domain.MembershipReferenceType,
	referenceIDs []string,
	scope domain.RoleScope,
	role string,
) ([]*domain.Membership, error) {
	if len(referenceIDs) == 0 {
		return []*domain.Membership{}, nil
	}
	return s.selectMemberships(ctx, `
		SELECT `+membershipColumns+` FROM memberships
		WHERE reference_type = ? AND reference_id IN (?) AND roles ->> ? = ?
		ORDER BY reference_id, user_id`, string(referenceType), referenceIDs, string(scope), role)
}

// Create implements store.MembershipStore.Create
func (s *PostgresMembershipStore) Create(ctx context.Context, m *domain.Membership) (*domain.Membership, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	roles, err := json.Marshal(m.Roles)
	if err != nil {
		return nil, fmt.Errorf("encode membership roles: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO memberships (`+membershipColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.UserID, m.ReferenceID, string(m.ReferenceType), roles, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		log.Error("failed to create membership",
			slog.String("error", err.Error()),
			slog.String("username", m.UserID),
			slog.String("reference_id", m.ReferenceID),
			slog.String("reference_type", string(m.ReferenceType)))
		return nil, MapError(err)
	}

	log.Debug("membership created",
		slog.String("username", m.UserID),
		slog.String("reference_id", m.ReferenceID),
		slog.String("reference_type", string(m.ReferenceType)))
	return m, nil
}

// Update implements store.MembershipStore.Update
func (s *PostgresMembershipStore) Update(ctx context.Context, m *domain.Membership) (*domain.Membership, error) {
	roles, err := json.Marshal(m.Roles)
	if err != nil {
		return nil, fmt.Errorf("encode membership roles: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE memberships SET roles = $1, updated_at = $2
		WHERE user_id = $3 AND reference_id = $4 AND reference_type = $5`,
		roles, m.UpdatedAt, m.UserID, m.ReferenceID, string(m.ReferenceType))
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update membership",
			slog.String("error", err.Error()),
			slog.String("username", m.UserID),
			slog.String("reference_id", m.ReferenceID))
		return nil, MapError(err)
	}
	if err := CheckRowsAffected(result, store.ErrMembershipNotFound); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *PostgresMembershipStore) selectMemberships(ctx context.Context, query string, args ...any) ([]*domain.Membership, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, err
	}

	var rows []membershipRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to query memberships",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	out := make([]*domain.Membership, 0, len(rows))
	for _, r := range rows {
		m, err := r.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
