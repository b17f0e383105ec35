package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the store.
	// Entity-specific variants (e.g., ErrUserNotFound) wrap it.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity (e.g., a user with the same username).
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when the database rejects a row for a
	// foreign key, check or not-null constraint. See postgres.MapError.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTransactionFailed is returned when a database transaction fails
	// to commit or when an operation within a transaction fails.
	ErrTransactionFailed = errors.New("transaction failed")

	// Entity-specific "not found" errors

	ErrUserNotFound         = fmt.Errorf("%w: user", ErrNotFound)
	ErrApplicationNotFound  = fmt.Errorf("%w: application", ErrNotFound)
	ErrMembershipNotFound   = fmt.Errorf("%w: membership", ErrNotFound)
	ErrRoleNotFound         = fmt.Errorf("%w: role", ErrNotFound)
	ErrGroupNotFound        = fmt.Errorf("%w: group", ErrNotFound)
	ErrSubscriptionNotFound = fmt.Errorf("%w: subscription", ErrNotFound)
	ErrAPIKeyNotFound       = fmt.Errorf("%w: api key", ErrNotFound)
	ErrAPINotFound          = fmt.Errorf("%w: api", ErrNotFound)
	ErrMetadataNotFound     = fmt.Errorf("%w: metadata", ErrNotFound)

	// Entity-specific "duplicate" errors

	// ErrUsernameExists indicates that a user with the given username already exists.
	ErrUsernameExists = fmt.Errorf("%w: username", ErrDuplicate)

	// ErrApplicationExists indicates that an application id is already taken.
	ErrApplicationExists = fmt.Errorf("%w: application", ErrDuplicate)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
