package service_test

import (
	"context"
	"testing"

	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/mocks"
	"github.com/phrazzld/console-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMembershipService(ms *mocks.MockMembershipStore) *service.MembershipServiceImpl {
	roles := mocks.NewMockRoleStore(
		&domain.Role{Scope: domain.RoleScopeApplication, Name: domain.RolePrimaryOwner},
		&domain.Role{Scope: domain.RoleScopeApplication, Name: "USER"},
		&domain.Role{Scope: domain.RoleScopePortal, Name: "USER", Permissions: map[string][]string{"APPLICATION": {"C", "R"}}},
	)
	log := testLogger()
	return service.NewMembershipService(ms, service.NewRoleService(roles, log), log)
}

func TestMembershipService_AddOrUpdateMember(t *testing.T) {
	store := mocks.NewMockMembershipStore()
	svc := newMembershipService(store)
	ctx := context.Background()

	created, err := svc.AddOrUpdateMember(ctx, domain.ReferenceApplication, "app-1", "jdoe",
		domain.RoleScopeApplication, "USER")
	require.NoError(t, err)
	assert.Equal(t, "USER", created.Roles[domain.RoleScopeApplication])

	updated, err := svc.AddOrUpdateMember(ctx, domain.ReferenceApplication, "app-1", "jdoe",
		domain.RoleScopeApplication, domain.RolePrimaryOwner)
	require.NoError(t, err)
	assert.Equal(t, domain.RolePrimaryOwner, updated.Roles[domain.RoleScopeApplication])
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	require.Len(t, store.Memberships, 1)

	_, err = svc.AddOrUpdateMember(ctx, domain.ReferenceApplication, "app-1", "jdoe",
		domain.RoleScopeApplication, "GOD")
	assert.ErrorIs(t, err, service.ErrRoleNotFound)
	assert.Equal(t, domain.RolePrimaryOwner, store.Memberships[0].Roles[domain.RoleScopeApplication])
}

func TestMembershipService_GetRole(t *testing.T) {
	store := mocks.NewMockMembershipStore(
		&domain.Membership{
			UserID: "jdoe", ReferenceType: domain.ReferencePortal, ReferenceID: domain.DefaultReferenceID,
			Roles: map[domain.RoleScope]string{domain.RoleScopePortal: "USER"},
		},
		&domain.Membership{
			UserID: "stale", ReferenceType: domain.ReferencePortal, ReferenceID: domain.DefaultReferenceID,
			Roles: map[domain.RoleScope]string{domain.RoleScopePortal: "REMOVED"},
		},
	)
	svc := newMembershipService(store)
	ctx := context.Background()

	role, err := svc.GetRole(ctx, domain.ReferencePortal, domain.DefaultReferenceID, "jdoe", domain.RoleScopePortal)
	require.NoError(t, err)
	require.NotNil(t, role)
	assert.Equal(t, []string{"C", "R"}, role.Permissions["APPLICATION"])

	role, err = svc.GetRole(ctx, domain.ReferenceManagement, domain.DefaultReferenceID, "jdoe", domain.RoleScopeManagement)
	assert.NoError(t, err)
	assert.Nil(t, role)

	role, err = svc.GetRole(ctx, domain.ReferencePortal, domain.DefaultReferenceID, "stale", domain.RoleScopePortal)
	assert.NoError(t, err)
	assert.Nil(t, role, "a role deleted since the grant is ignored")
}

func TestMembershipService_FindByReferencesAndRole(t *testing.T) {
	store := mocks.NewMockMembershipStore(
		domain.NewPrimaryOwnerMembership("jdoe", "app-1", fixedTime),
		domain.NewPrimaryOwnerMembership("asmith", "app-2", fixedTime),
	)
	svc := newMembershipService(store)
	ctx := context.Background()

	ms, err := svc.FindByReferencesAndRole(ctx, domain.ReferenceApplication, nil,
		domain.RoleScopeApplication, domain.RolePrimaryOwner)
	require.NoError(t, err)
	assert.Empty(t, ms)

	ms, err = svc.FindByReferencesAndRole(ctx, domain.ReferenceApplication, []string{"app-2", "app-3"},
		domain.RoleScopeApplication, domain.RolePrimaryOwner)
	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, "asmith", ms[0].UserID)
}
