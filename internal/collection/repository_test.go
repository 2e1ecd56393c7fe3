// AngelaMos | 2026
// repository_test.go

package collection

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
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

func TestListByOwnerGroupsJoinRows(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN collection_sounds cs")).
		WithArgs("owner").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "name", "created_at", "sound_id"}).
			AddRow("c1", "owner", "First", now, "s1").
			AddRow("c1", "owner", "First", now, "s2").
			AddRow("c2", "owner", "Empty", now, nil))

	got, err := repo.ListByOwner(context.Background(), "owner")
	if err != nil {
		t.Fatalf("ListByOwner: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if len(got[0].SoundIDs) != 2 || got[0].SoundIDs[1] != "s2" {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].SoundIDs == nil || len(got[1].SoundIDs) != 0 {
		t.Errorf("second = %+v, want empty non-nil ids", got[1])
	}
}

func TestAddSoundReportsConflict(t *testing.T) {
	tests := []struct {
		name      string
		affected  int64
		wantAdded bool
	}{
		{"inserted", 1, true},
		{"already present", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock := newMockRepo(t)
			mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (collection_id, sound_id) DO NOTHING")).
				WithArgs("c1", "s1").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			added, err := repo.AddSound(context.Background(), "c1", "s1")
			if err != nil {
				t.Fatalf("AddSound: %v", err)
			}
			if added != tt.wantAdded {
				t.Errorf("added = %v, want %v", added, tt.wantAdded)
			}
		})
	}
}

func TestAddSoundForeignKeyIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO collection_sounds")).
		WillReturnError(&pgconn.PgError{Code: "23503"})

	_, err := repo.AddSound(context.Background(), "c1", "missing")
	if !errors.Is(err, core.ErrNotFound) || !errors.Is(err, ErrSoundNotFound) {
		t.Fatalf("err = %v, want ErrNotFound and ErrSoundNotFound", err)
	}
}

func TestDeleteMissingCollection(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM collections")).
		WithArgs("c1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "c1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
