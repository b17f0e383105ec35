package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/platform/logger"
	"github.com/phrazzld/console-api/internal/store"
)

const userColumns = `username, email, firstname, lastname, password, source, source_id,
	picture, created_at, updated_at, last_connection_at`

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the UserStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// FindByUsername implements store.UserStore.FindByUsername
func (s *PostgresUserStore) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var user domain.User
	err := s.db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.String("username", username))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by username",
			slog.String("error", err.Error()),
			slog.String("username", username))
		return nil, MapError(err)
	}

	return &user, nil
}

// FindByUsernames implements store.UserStore.FindByUsernames
func (s *PostgresUserStore) FindByUsernames(ctx context.Context, usernames []string) ([]*domain.User, error) {
	if len(usernames) == 0 {
		return []*domain.User{}, nil
	}
	log := logger.FromContextOrDefault(ctx, s.logger)

	query, args, err := sqlx.In(
		`SELECT `+userColumns+` FROM users WHERE username IN (?) ORDER BY username`, usernames)
	if err != nil {
		return nil, err
	}

	users := []*domain.User{}
	if err := s.db.SelectContext(ctx, &users, s.db.Rebind(query), args...); err != nil {
		log.Error("failed to get users by usernames",
			slog.String("error", err.Error()),
			slog.Int("count", len(usernames)))
		return nil, MapError(err)
	}

	return users, nil
}

// FindAll implements store.UserStore.FindAll
func (s *PostgresUserStore) FindAll(ctx context.Context) ([]*domain.User, error) {
	users := []*domain.User{}
	if err := s.db.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users ORDER BY username`); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list users",
			slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	return users, nil
}

// Create implements store.UserStore.Create
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("username", user.Username))
		return nil, err
	}

	_, err := sqlx.NamedExecContext(ctx, s.db, `
		INSERT INTO users (`+userColumns+`)
		VALUES (:username, :email, :firstname, :lastname, :password, :source, :source_id,
			:picture, :created_at, :updated_at, :last_connection_at)`, user)
	if err != nil {
		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("username", user.Username))
		return nil, MapUniqueViolation(err, store.ErrUsernameExists)
	}

	log.Info("user created successfully", slog.String("username", user.Username))
	return user, nil
}

// Update implements store.UserStore.Update
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during update",
			slog.String("error", err.Error()),
			slog.String("username", user.Username))
		return nil, err
	}

	result, err := sqlx.NamedExecContext(ctx, s.db, `
		UPDATE users SET
			email = :email,
			firstname = :firstname,
			lastname = :lastname,
			password = :password,
			source = :source,
			source_id = :source_id,
			picture = :picture,
			updated_at = :updated_at,
			last_connection_at = :last_connection_at
		WHERE username = :username`, user)
	if err != nil {
		log.Error("failed to update user",
			slog.String("error", err.Error()),
			slog.String("username", user.Username))
		return nil, MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrUserNotFound); err != nil {
		log.Debug("user not found for update", slog.String("username", user.Username))
		return nil, err
	}

	log.Debug("user updated successfully", slog.String("username", user.Username))
	return user, nil
}
