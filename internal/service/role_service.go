package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/store"
)

// RoleService reads role definitions.
type RoleService interface {
	// FindByID returns ErrRoleNotFound if scope has no role called name.
	FindByID(ctx context.Context, scope domain.RoleScope, name string) (*domain.Role, error)

	// FindDefaultRoleByScopes returns the roles flagged as default for scopes.
	FindDefaultRoleByScopes(ctx context.Context, scopes ...domain.RoleScope) ([]*domain.Role, error)
}

// RoleServiceImpl implements RoleService.
type RoleServiceImpl struct {
	roles  store.RoleStore
	logger *slog.Logger
}

var _ RoleService = (*RoleServiceImpl)(nil)

// NewRoleService creates a RoleService.
func NewRoleService(roles store.RoleStore, logger *slog.Logger) *RoleServiceImpl {
	return &RoleServiceImpl{roles: roles, logger: logger.With("component", "role_service")}
}

// FindByID implements RoleService.
func (s *RoleServiceImpl) FindByID(ctx context.Context, scope domain.RoleScope, name string) (*domain.Role, error) {
	role, err := s.roles.FindByID(ctx, scope, name)
	if errors.Is(err, store.ErrRoleNotFound) {
		return nil, fmt.Errorf("%w: %s/%s", ErrRoleNotFound, scope, name)
	}
	return role, technical("find role", err)
}

// FindDefaultRoleByScopes implements RoleService.
func (s *RoleServiceImpl) FindDefaultRoleByScopes(ctx context.Context, scopes ...domain.RoleScope) ([]*domain.Role, error) {
	roles, err := s.roles.FindDefaultByScopes(ctx, scopes)
	if err != nil {
		return nil, technical("find default roles", err)
	}
	return roles, nil
}
