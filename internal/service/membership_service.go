package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/platform/logger"
	"github.com/phrazzld/console-api/internal/store"
)

// MembershipService manages user-to-reference role bindings.
type MembershipService interface {
	// AddOrUpdateMember grants roleName for scope to username on the
	// reference, creating the membership when needed.
	AddOrUpdateMember(
		ctx context.Context,
		referenceType domain.MembershipReferenceType,
		referenceID, username string,
		scope domain.RoleScope,
		roleName string,
	) (*domain.Membership, error)

	// GetRole returns the user's role for scope on the reference, or nil
	// when the user has none.
	GetRole(
		ctx context.Context,
		referenceType domain.MembershipReferenceType,
		referenceID, username string,
		scope domain.RoleScope,
	) (*domain.Role, error)

	// FindByUserAndReferenceType lists a user's memberships of one type.
	FindByUserAndReferenceType(
		ctx context.Context,
		username string,
		referenceType domain.MembershipReferenceType,
	) ([]*domain.Membership, error)

	// FindByReferencesAndRole lists the memberships granting role for scope
	// on any of referenceIDs.
	FindByReferencesAndRole(
		ctx context.Context,
		referenceType domain.MembershipReferenceType,
		referenceIDs []string,
		scope domain.RoleScope,
		role string,
	) ([]*domain.Membership, error)
}

// MembershipServiceImpl implements MembershipService.
type MembershipServiceImpl struct {
	memberships store.MembershipStore
	roles       RoleService
	logger      *slog.Logger
}

var _ MembershipService = (*MembershipServiceImpl)(nil)

// NewMembershipService creates a MembershipService.
func NewMembershipService(memberships store.MembershipStore, roles RoleService, logger *slog.Logger) *MembershipServiceImpl {
	return &MembershipServiceImpl{
		memberships: memberships,
		roles:       roles,
		logger:      logger.With("component", "membership_service"),
	}
}

// AddOrUpdateMember implements MembershipService.
func (s *MembershipServiceImpl) AddOrUpdateMember(
	ctx context.Context,
	referenceType domain.MembershipReferenceType,
	referenceID, username string,
	scope domain.RoleScope,
	roleName string,
) (*domain.Membership, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.roles.FindByID(ctx, scope, roleName); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	existing, err := s.memberships.FindByID(ctx, username, referenceID, referenceType)
	switch {
	case errors.Is(err, store.ErrMembershipNotFound):
		created, err := s.memberships.Create(ctx, &domain.Membership{
			UserID:        username,
			ReferenceID:   referenceID,
			ReferenceType: referenceType,
			Roles:         map[domain.RoleScope]string{scope: roleName},
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if err != nil {
			return nil, technical("create membership", err)
		}
		log.Debug("membership created",
			"username", username,
			"reference_type", referenceType,
			"reference_id", referenceID,
			"role", roleName)
		return created, nil
	case err != nil:
		return nil, technical("find membership", err)
	}

	if existing.Roles == nil {
		existing.Roles = make(map[domain.RoleScope]string, 1)
	}
	existing.Roles[scope] = roleName
	existing.UpdatedAt = now

	updated, err := s.memberships.Update(ctx, existing)
	if err != nil {
		return nil, technical("update membership", err)
	}
	log.Debug("membership updated",
		"username", username,
		"reference_type", referenceType,
		"reference_id", referenceID,
		"role", roleName)
	return updated, nil
}

// GetRole implements MembershipService.
func (s *MembershipServiceImpl) GetRole(
	ctx context.Context,
	referenceType domain.MembershipReferenceType,
	referenceID, username string,
	scope domain.RoleScope,
) (*domain.Role, error) {
	m, err := s.memberships.FindByID(ctx, username, referenceID, referenceType)
	if errors.Is(err, store.ErrMembershipNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, technical("find membership", err)
	}

	name, ok := m.Roles[scope]
	if !ok {
		return nil, nil
	}
	role, err := s.roles.FindByID(ctx, scope, name)
	if errors.Is(err, ErrRoleNotFound) {
		logger.FromContextOrDefault(ctx, s.logger).Warn("membership references an unknown role",
			"username", username,
			"scope", scope,
			"role", name)
		return nil, nil
	}
	return role, err
}

// FindByUserAndReferenceType implements MembershipService.
func (s *MembershipServiceImpl) FindByUserAndReferenceType(
	ctx context.Context,
	username string,
	referenceType domain.MembershipReferenceType,
) ([]*domain.Membership, error) {
	ms, err := s.memberships.FindByUserAndReferenceType(ctx, username, referenceType)
	if err != nil {
		return nil, technical("find memberships", err)
	}
	return ms, nil
}

// FindByReferencesAndRole implements MembershipService.
func (s *MembershipServiceImpl) FindByReferencesAndRole(
	ctx context.Context,
	referenceType domain.MembershipReferenceType,
	referenceIDs []string,
	scope domain.RoleScope,
	role string,
) ([]*domain.Membership, error) {
	if len(referenceIDs) == 0 {
		return []*domain.Membership{}, nil
	}
	ms, err := s.memberships.FindByReferencesAndRole(ctx, referenceType, referenceIDs, scope, role)
	if err != nil {
		return nil, technical("find memberships by role", err)
	}
	return ms, nil
}
