// AngelaMos | 2026
// migrate_test.go

package core

import (
	"context"
	"fmt"
	"testing"
	"testing/fstest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = raw.Close() })

	return sqlx.NewDb(raw, "sqlmock"), mock
}

func TestApplyMigrationsRunsPendingOnly(t *testing.T) {
	db, mock := newMockDB(t)

	migrationFS := fstest.MapFS{
		"0001_init.sql": {Data: []byte(
			"-- +migrate Up\nCREATE TABLE widgets (id INT);\n-- +migrate Down\nDROP TABLE widgets;\n",
		)},
		"0002_more.sql": {Data: []byte(
			"-- +migrate Up\nCREATE TABLE gadgets (id INT);\n",
		)},
		"README.md": {Data: []byte("ignored")},
	}

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("0001_init.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery("SELECT EXISTS").
		WithArgs("0002_more.sql").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE gadgets").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO schema_migrations").
		WithArgs("0002_more.sql").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	if err := ApplyMigrations(context.Background(), db, migrationFS); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestExtractUpStopsAtDown(t *testing.T) {
	got := extractUp("-- +migrate Up\nA;\n-- +migrate Down\nB;\n")
	if got != "\nA;\n" {
		t.Fatalf("extractUp = %q", got)
	}

	if got := extractUp("PLAIN;"); got != "PLAIN;" {
		t.Fatalf("extractUp without markers = %q", got)
	}
}

func TestIsUniqueViolationMatchesConstraint(t *testing.T) {
	err := uniqueErr("users_email_key")

	if !IsUniqueViolation(err, "") {
		t.Fatal("expected any-constraint match")
	}
	if !IsUniqueViolation(err, "users_email_key") {
		t.Fatal("expected named match")
	}
	if IsUniqueViolation(err, "users_username_key") {
		t.Fatal("unexpected match on other constraint")
	}
}

func uniqueErr(constraint string) error {
	return fmt.Errorf("insert: %w", &pgconn.PgError{
		Code:           pgUniqueViolation,
		ConstraintName: constraint,
	})
}
