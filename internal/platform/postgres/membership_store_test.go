package postgres_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/platform/postgres"
	"github.com/phrazzld/console-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var membershipCols = []string{"user_id", "reference_id", "reference_type", "roles", "created_at", "updated_at"}

func TestMembershipStore_FindByReferencesAndRole(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresMembershipStore(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("reference_id IN ($2, $3) AND roles ->> $4 = $5")).
		WithArgs("APPLICATION", "a1", "a2", "APPLICATION", "PRIMARY_OWNER").
		WillReturnRows(sqlmock.NewRows(membershipCols).
			AddRow("alice", "a1", "APPLICATION", []byte(`{"APPLICATION":"PRIMARY_OWNER"}`), fixedTime, fixedTime))

	ms, err := s.FindByReferencesAndRole(context.Background(),
		domain.ReferenceApplication, []string{"a1", "a2"}, domain.RoleScopeApplication, domain.RolePrimaryOwner)

	require.NoError(t, err)
	require.Len(t, ms, 1)
	assert.Equal(t, "alice", ms[0].UserID)
	assert.Equal(t, domain.RolePrimaryOwner, ms[0].Roles[domain.RoleScopeApplication])
}

func TestMembershipStore_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresMembershipStore(db, nil)

	mock.ExpectQuery("FROM memberships").WillReturnError(sql.ErrNoRows)

	_, err := s.FindByID(context.Background(), "jdoe", "DEFAULT", domain.ReferencePortal)

	assert.ErrorIs(t, err, store.ErrMembershipNotFound)
}

func TestMembershipStore_CreateEncodesRoles(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresMembershipStore(db, nil)
	m := domain.NewPrimaryOwnerMembership("jdoe", "a1", fixedTime)

	mock.ExpectExec("INSERT INTO memberships").
		WithArgs("jdoe", "a1", "APPLICATION", []byte(`{"APPLICATION":"PRIMARY_OWNER"}`), fixedTime, fixedTime).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err := s.Create(context.Background(), m)

	require.NoError(t, err)
}

func TestMembershipStore_Update_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresMembershipStore(db, nil)

	mock.ExpectExec("UPDATE memberships").WillReturnResult(sqlmock.NewResult(0, 0))

	_, err := s.Update(context.Background(), &domain.Membership{UserID: "jdoe"})

	assert.ErrorIs(t, err, store.ErrMembershipNotFound)
}

func TestRoleStore_FindDefaultByScopes(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresRoleStore(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE default_role AND scope IN ($1, $2)")).
		WithArgs("MANAGEMENT", "PORTAL").
		WillReturnRows(sqlmock.NewRows([]string{"scope", "name", "description", "default_role", "system", "permissions"}).
			AddRow("MANAGEMENT", "USER", "", true, false, []byte(`{"APPLICATION":["R"]}`)).
			AddRow("PORTAL", "USER", "", true, false, []byte(`{}`)))

	roles, err := s.FindDefaultByScopes(context.Background(),
		[]domain.RoleScope{domain.RoleScopeManagement, domain.RoleScopePortal})

	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, domain.RoleScopeManagement, roles[0].Scope)
	assert.True(t, roles[0].Default)
	assert.Equal(t, []string{"R"}, roles[0].Permissions["APPLICATION"])
}

func TestGroupStore_FindByIDs(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresGroupStore(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("FROM user_groups WHERE id IN ($1)")).
		WithArgs("g1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "event_rules", "created_at", "updated_at"}).
			AddRow("g1", "devs", []byte(`["APPLICATION_CREATE"]`), fixedTime, fixedTime))

	groups, err := s.FindByIDs(context.Background(), []string{"g1"})

	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.True(t, groups[0].AppliesOn(domain.GroupEventApplicationCreate))
}
