// AngelaMos | 2026
// repository.go

package sound

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/soundvault/internal/core"
)

type Repository interface {
	Create(ctx context.Context, s *Sound) error
	GetByID(ctx context.Context, id string) (*Sound, error)
	Search(ctx context.Context, query string) ([]Sound, error)
	Count(ctx context.Context) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const soundColumns = `id, title, category, tags, bitrate, quality, duration,
		       locator, exclusive, uploader_id, created_at`

func (r *repository) Create(ctx context.Context, s *Sound) error {
	query := `
		INSERT INTO sounds (id, title, category, tags, bitrate, quality,
		                    duration, locator, exclusive, uploader_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &s.CreatedAt, query,
		s.ID,
		s.Title,
		s.Category,
		s.Tags,
		s.Bitrate,
		s.Quality,
		s.Duration,
		s.Locator,
		s.Exclusive,
		s.UploaderID,
	)
	if err != nil {
		return fmt.Errorf("create sound: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Sound, error) {
	query := `SELECT ` + soundColumns + ` FROM sounds WHERE id = $1`

	var s Sound
	err := r.db.GetContext(ctx, &s, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get sound: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get sound: %w", err)
	}

	return &s, nil
}

// Search matches query as a case-insensitive substring of title, category
// or tags. An empty query returns the whole catalog. Results are in
// insertion order.
func (r *repository) Search(ctx context.Context, query string) ([]Sound, error) {
	var (
		sounds []Sound
		err    error
	)

	if query == "" {
		err = r.db.SelectContext(ctx, &sounds, `
			SELECT `+soundColumns+`
			FROM sounds
			ORDER BY created_at ASC, id ASC`)
	} else {
		err = r.db.SelectContext(ctx, &sounds, `
			SELECT `+soundColumns+`
			FROM sounds
			WHERE title ILIKE $1 OR category ILIKE $1 OR tags ILIKE $1
			ORDER BY created_at ASC, id ASC`,
			"%"+core.EscapeLike(query)+"%",
		)
	}
	if err != nil {
		return nil, fmt.Errorf("search sounds: %w", err)
	}

	if sounds == nil {
		sounds = []Sound{}
	}
	return sounds, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM sounds`); err != nil {
		return 0, fmt.Errorf("count sounds: %w", err)
	}
	return n, nil
}
