package store_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phrazzld/console-api/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestEntityErrorsWrapKinds(t *testing.T) {
	t.Parallel()

	notFound := []error{
		store.ErrUserNotFound,
		store.ErrApplicationNotFound,
		store.ErrMembershipNotFound,
		store.ErrRoleNotFound,
		store.ErrGroupNotFound,
		store.ErrSubscriptionNotFound,
		store.ErrAPIKeyNotFound,
		store.ErrAPINotFound,
		store.ErrMetadataNotFound,
	}
	for _, err := range notFound {
		assert.True(t, store.IsNotFoundError(err), err.Error())
		assert.False(t, errors.Is(err, store.ErrDuplicate), err.Error())
	}

	for _, err := range []error{store.ErrUsernameExists, store.ErrApplicationExists} {
		assert.ErrorIs(t, err, store.ErrDuplicate)
		assert.False(t, store.IsNotFoundError(err), err.Error())
	}

	assert.Equal(t, "entity not found: user", store.ErrUserNotFound.Error())
}

func TestIsNotFoundErrorThroughWrapping(t *testing.T) {
	t.Parallel()

	wrapped := fmt.Errorf("loading owner: %w", store.ErrUserNotFound)
	assert.True(t, store.IsNotFoundError(wrapped))
	assert.True(t, errors.Is(wrapped, store.ErrUserNotFound))
	assert.False(t, store.IsNotFoundError(errors.New("boom")))
	assert.False(t, store.IsNotFoundError(nil))
}
