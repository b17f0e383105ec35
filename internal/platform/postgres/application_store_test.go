package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/console-api/internal/domain"
	"github.com/phrazzld/console-api/internal/platform/postgres"
	"github.com/phrazzld/console-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var appCols = []string{"id", "name", "description", "type", "status", "created_at", "updated_at"}

func TestApplicationStore_FindByID_LoadsGroups(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresApplicationStore(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("FROM applications a WHERE a.id = $1")).
		WithArgs("app-1").
		WillReturnRows(sqlmock.NewRows(appCols).
			AddRow("app-1", "billing", "invoices", "web", "ACTIVE", fixedTime, fixedTime))
	mock.ExpectQuery(regexp.QuoteMeta("FROM application_groups")).
		WithArgs("app-1").
		WillReturnRows(sqlmock.NewRows([]string{"application_id", "group_id"}).
			AddRow("app-1", "g1").
			AddRow("app-1", "g2"))

	app, err := s.FindByID(context.Background(), "app-1")

	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationActive, app.Status)
	assert.Equal(t, []string{"g1", "g2"}, app.Groups)
}

func TestApplicationStore_FindByGroups(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresApplicationStore(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE ag.group_id IN ($1, $2) AND a.status = $3")).
		WithArgs("g1", "g2", "ACTIVE").
		WillReturnRows(sqlmock.NewRows(appCols).
			AddRow("app-1", "billing", "invoices", "", "ACTIVE", fixedTime, fixedTime))
	mock.ExpectQuery("FROM application_groups").
		WillReturnRows(sqlmock.NewRows([]string{"application_id", "group_id"}).AddRow("app-1", "g1"))

	apps, err := s.FindByGroups(context.Background(), []string{"g1", "g2"}, domain.ApplicationActive)

	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, []string{"g1"}, apps[0].Groups)
}

func TestApplicationStore_FindByName_NoRows(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresApplicationStore(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE a.name ILIKE '%' || $1 || '%'")).
		WithArgs("bill").
		WillReturnRows(sqlmock.NewRows(appCols))

	apps, err := s.FindByName(context.Background(), "bill")

	require.NoError(t, err)
	assert.Empty(t, apps)
}

func TestApplicationStore_FindByName_EscapesWildcards(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresApplicationStore(db, nil)

	mock.ExpectQuery(regexp.QuoteMeta(`ILIKE '%' || $1 || '%' ESCAPE '\'`)).
		WithArgs(`a\_b\%c\\`).
		WillReturnRows(sqlmock.NewRows(appCols))

	_, err := s.FindByName(context.Background(), `a_b%c\`)

	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplicationStore_Create_WritesGroupsInTransaction(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresApplicationStore(db, nil)
	app := &domain.Application{
		ID: "app-1", Name: "billing", Description: "invoices",
		Status: domain.ApplicationActive, Groups: []string{"g1", "g2"},
		CreatedAt: fixedTime, UpdatedAt: fixedTime,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO applications").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO application_groups").WithArgs("app-1", "g1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO application_groups").WithArgs("app-1", "g2").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := s.Create(context.Background(), app)

	require.NoError(t, err)
}

func TestApplicationStore_Create_IDCollision(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresApplicationStore(db, nil)
	app := &domain.Application{ID: "app-1", Name: "n", Description: "d", Status: domain.ApplicationActive}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO applications").WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	_, err := s.Create(context.Background(), app)

	assert.ErrorIs(t, err, store.ErrApplicationExists)
}

func TestApplicationStore_Update_NotFoundRollsBack(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresApplicationStore(db, nil)
	app := &domain.Application{ID: "ghost", Name: "n", Description: "d", Status: domain.ApplicationArchived}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE applications").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := s.Update(context.Background(), app)

	assert.ErrorIs(t, err, store.ErrApplicationNotFound)
}

func TestApplicationStore_Update_ReplacesGroups(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresApplicationStore(db, nil)
	app := &domain.Application{ID: "app-1", Name: "n", Description: "d", Status: domain.ApplicationActive, Groups: []string{"g3"}}

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE applications").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM application_groups").WithArgs("app-1").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO application_groups").WithArgs("app-1", "g3").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	_, err := s.Update(context.Background(), app)

	require.NoError(t, err)
}

func TestApplicationStore_QueryError(t *testing.T) {
	db, mock := newMockDB(t)
	s := postgres.NewPostgresApplicationStore(db, nil)

	mock.ExpectQuery("FROM applications").WillReturnError(errors.New("connection reset"))

	_, err := s.FindAll(context.Background(), domain.ApplicationActive)

	assert.EqualError(t, err, "connection reset")
}
