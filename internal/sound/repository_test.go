// AngelaMos | 2026
// repository_test.go

package sound

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/soundvault/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	raw, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { _ = raw.Close() })

	return NewRepository(sqlx.NewDb(raw, "sqlmock")), mock
}

var soundCols = []string{
	"id", "title", "category", "tags", "bitrate", "quality", "duration",
	"locator", "exclusive", "uploader_id", "created_at",
}

func TestRepositorySearchEscapesAndOrders(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta(
		"WHERE title ILIKE $1 OR category ILIKE $1 OR tags ILIKE $1",
	) + `\s+ORDER BY created_at ASC, id ASC`).
		WithArgs(`%100\%\_dry%`).
		WillReturnRows(sqlmock.NewRows(soundCols).
			AddRow("a", "100%_dry", "fx", "", "", "", 1.0, "k", false, nil, now))

	got, err := repo.Search(context.Background(), "100%_dry")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("got %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestRepositorySearchEmptyReturnsAll(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`FROM sounds\s+ORDER BY created_at ASC, id ASC`).
		WillReturnRows(sqlmock.NewRows(soundCols))

	got, err := repo.Search(context.Background(), "")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("got %v, want empty non-nil slice", got)
	}
}

func TestRepositoryGetByIDNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("FROM sounds WHERE id = ").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestRepositoryCreateReturnsTimestamp(t *testing.T) {
	repo, mock := newMockRepo(t)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery("INSERT INTO sounds").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	s := &Sound{ID: "id", Title: "t", Locator: "sounds/k"}
	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("create: %v", err)
	}
	if !s.CreatedAt.Equal(created) {
		t.Fatalf("created_at = %s", s.CreatedAt)
	}
}
