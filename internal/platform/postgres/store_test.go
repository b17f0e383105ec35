package postgres_test

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// newMockDB returns a sqlx handle over go-sqlmock that binds like the pgx driver.
func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return sqlx.NewDb(db, "pgx"), mock
}

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

var userCols = []string{
	"username", "email", "firstname", "lastname", "password", "source", "source_id",
	"picture", "created_at", "updated_at", "last_connection_at",
}

func userRow(rows *sqlmock.Rows, username string) *sqlmock.Rows {
	return rows.AddRow(username, username+"@example.com", "John", "Doe", "", "gravitee", username,
		"", fixedTime, fixedTime, nil)
}
