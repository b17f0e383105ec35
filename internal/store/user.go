package store

import (
	"context"

	"github.com/phrazzld/console-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// FindByUsername retrieves a user by username.
	// Returns ErrUserNotFound if the user does not exist.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)

	// FindByUsernames retrieves every user whose username is in the list.
	// Unknown usernames are skipped; an empty list yields an empty result.
	FindByUsernames(ctx context.Context, usernames []string) ([]*domain.User, error)

	// FindAll returns every user ordered by username.
	FindAll(ctx context.Context) ([]*domain.User, error)

	// Create saves a new user.
	// Returns ErrUsernameExists if the username is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)

	// Update replaces the stored record for user.Username.
	// Returns ErrUserNotFound if the user does not exist.
	Update(ctx context.Context, user *domain.User) (*domain.User, error)
}
