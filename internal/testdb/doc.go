// Package testdb provides helpers for tests that run against a real
// PostgreSQL database. It is compiled only with the integration build tag.
//
// The database is located through CONSOLE_TEST_DATABASE_URL, falling back to
// DATABASE_URL. Tests are skipped when neither is set, so
//
//	go test -tags=integration ./...
//
// is safe to run without a database. Each test runs in a transaction that is
// rolled back, so tests may share one migrated schema.
package testdb
