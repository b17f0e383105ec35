package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/platform/logger"
	"github.com/phrazzld/console-api/internal/store"
)

const applicationColumns = `a.id, a.name, a.description, a.type, a.status, a.created_at, a.updated_at`

type applicationRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	Type        string    `db:"type"`
	Status      string    `db:"status"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r applicationRow) toDomain() *domain.Application {
	return &domain.Application{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Type:        r.Type,
		Status:      domain.ApplicationStatus(r.Status),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type applicationGroupRow struct {
	ApplicationID string `db:"application_id"`
	GroupID       string `db:"group_id"`
}

// PostgresApplicationStore implements store.ApplicationStore.
// An application and its group set are written atomically.
type PostgresApplicationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresApplicationStore creates a new PostgreSQL implementation of the ApplicationStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresApplicationStore(db store.DBTX, logger *slog.Logger) *PostgresApplicationStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresApplicationStore{
		db:     db,
		logger: logger.With(slog.String("component", "application_store")),
	}
}

var _ store.ApplicationStore = (*PostgresApplicationStore)(nil)

// FindByID implements store.ApplicationStore.FindByID
func (s *PostgresApplicationStore) FindByID(ctx context.Context, id string) (*domain.Application, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var row applicationRow
	err := s.db.GetContext(ctx, &row,
		`SELECT `+applicationColumns+` FROM applications a WHERE a.id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("application not found", slog.String("application_id", id))
			return nil, store.ErrApplicationNotFound
		}
		log.Error("failed to get application by id",
			slog.String("error", err.Error()),
			slog.String("application_id", id))
		return nil, MapError(err)
	}

	apps, err := s.withGroups(ctx, []applicationRow{row})
	if err != nil {
		return nil, err
	}
	return apps[0], nil
}

// FindByIDs implements store.ApplicationStore.FindByIDs
func (s *PostgresApplicationStore) FindByIDs(ctx context.Context, ids []string) ([]*domain.Application, error) {
	if len(ids) == 0 {
		return []*domain.Application{}, nil
	}
	return s.selectApplications(ctx,
		`SELECT `+applicationColumns+` FROM applications a WHERE a.id IN (?) ORDER BY a.name, a.id`, ids)
}

// FindByName implements store.ApplicationStore.FindByName
func (s *PostgresApplicationStore) FindByName(ctx context.Context, name string) ([]*domain.Application, error) {
	return s.selectApplications(ctx,
		`SELECT `+applicationColumns+` FROM applications a
		WHERE a.name ILIKE '%' || ? || '%' ESCAPE '\' ORDER BY a.name, a.id`, escapeLike(name))
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// FindByGroups implements store.ApplicationStore.FindByGroups
func (s *PostgresApplicationStore) FindByGroups(
	ctx context.Context,
	groupIDs []string,
	status domain.ApplicationStatus,
) ([]*domain.Application, error) {
	if len(groupIDs) == 0 {
		return []*domain.Application{}, nil
	}
	return s.selectApplications(ctx,
		`SELECT DISTINCT `+applicationColumns+` FROM applications a
		JOIN application_groups ag ON ag.application_id = a.id
		WHERE ag.group_id IN (?) AND a.status = ?
		ORDER BY a.name, a.id`, groupIDs, string(status))
}

// FindAll implements store.ApplicationStore.FindAll
func (s *PostgresApplicationStore) FindAll(ctx context.Context, status domain.ApplicationStatus) ([]*domain.Application, error) {
	return s.selectApplications(ctx,
		`SELECT `+applicationColumns+` FROM applications a WHERE a.status = ? ORDER BY a.name, a.id`, string(status))
}

// Create implements store.ApplicationStore.Create
func (s *PostgresApplicationStore) Create(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := app.Validate(); err != nil {
		log.Warn("application validation failed during create",
			slog.String("error", err.Error()),
			slog.String("application_id", app.ID))
		return nil, err
	}

	err := s.inTx(ctx, func(ctx context.Context, db store.DBTX) error {
		_, err := db.ExecContext(ctx, `
			INSERT INTO applications (id, name, description, type, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			app.ID, app.Name, app.Description, app.Type, string(app.Status), app.CreatedAt, app.UpdatedAt)
		if err != nil {
			return MapUniqueViolation(err, store.ErrApplicationExists)
		}
		return insertGroups(ctx, db, app.ID, app.Groups)
	})
	if err != nil {
		log.Error("failed to create application",
			slog.String("error", err.Error()),
			slog.String("application_id", app.ID))
		return nil, err
	}

	log.Info("application created successfully",
		slog.String("application_id", app.ID),
		slog.Int("group_count", len(app.Groups)))
	return app, nil
}

// Update implements store.ApplicationStore.Update
func (s *PostgresApplicationStore) Update(ctx context.Context, app *domain.Application) (*domain.Application, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := app.Validate(); err != nil {
		log.Warn("application validation failed during update",
			slog.String("error", err.Error()),
			slog.String("application_id", app.ID))
		return nil, err
	}

	err := s.inTx(ctx, func(ctx context.Context, db store.DBTX) error {
		result, err := db.ExecContext(ctx, `
			UPDATE applications
			SET name = $1, description = $2, type = $3, status = $4, updated_at = $5
			WHERE id = $6`,
			app.Name, app.Description, app.Type, string(app.Status), app.UpdatedAt, app.ID)
		if err != nil {
			return MapError(err)
		}
		if err := CheckRowsAffected(result, store.ErrApplicationNotFound); err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx,
			`DELETE FROM application_groups WHERE application_id = $1`, app.ID); err != nil {
			return MapError(err)
		}
		return insertGroups(ctx, db, app.ID, app.Groups)
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("application not found for update", slog.String("application_id", app.ID))
		} else {
			log.Error("failed to update application",
				slog.String("error", err.Error()),
				slog.String("application_id", app.ID))
		}
		return nil, err
	}

	log.Debug("application updated successfully",
		slog.String("application_id", app.ID),
		slog.String("status", string(app.Status)))
	return app, nil
}

// inTx runs fn in a transaction when the store holds a pool, or directly on
// the caller's transaction otherwise.
func (s *PostgresApplicationStore) inTx(ctx context.Context, fn func(context.Context, store.DBTX) error) error {
	b, ok := s.db.(store.Beginner)
	if !ok {
		return fn(ctx, s.db)
	}
	return store.RunInTransaction(ctx, b, func(ctx context.Context, tx *sqlx.Tx) error {
		return fn(ctx, tx)
	})
}

func insertGroups(ctx context.Context, db store.DBTX, applicationID string, groups []string) error {
	for _, g := range groups {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO application_groups (application_id, group_id) VALUES ($1, $2)`,
			applicationID, g); err != nil {
			return MapError(err)
		}
	}
	return nil
}

// selectApplications expands slice arguments with sqlx.In, rebinds the query
// for the driver and loads each application's groups.
func (s *PostgresApplicationStore) selectApplications(ctx context.Context, query string, args ...any) ([]*domain.Application, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, err
	}

	var rows []applicationRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		log.Error("failed to query applications", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return s.withGroups(ctx, rows)
}

func (s *PostgresApplicationStore) withGroups(ctx context.Context, rows []applicationRow) ([]*domain.Application, error) {
	apps := make([]*domain.Application, 0, len(rows))
	if len(rows) == 0 {
		return apps, nil
	}

	ids := make([]string, 0, len(rows))
	byID := make(map[string]*domain.Application, len(rows))
	for _, r := range rows {
		app := r.toDomain()
		apps = append(apps, app)
		ids = append(ids, app.ID)
		byID[app.ID] = app
	}

	query, args, err := sqlx.In(
		`SELECT application_id, group_id FROM application_groups
		WHERE application_id IN (?) ORDER BY application_id, group_id`, ids)
	if err != nil {
		return nil, err
	}

	var groups []applicationGroupRow
	if err := s.db.SelectContext(ctx, &groups, s.db.Rebind(query), args...); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load application groups",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	for _, g := range groups {
		if app, ok := byID[g.ApplicationID]; ok {
			app.Groups = append(app.Groups, g.GroupID)
		}
	}
	return apps, nil
}
