// AngelaMos | 2026
// repository.go

package collection

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/soundvault/internal/core"
	"github.com/carterperez-dev/soundvault/internal/sound"
)

type Repository interface {
	Create(ctx context.Context, c *Collection) error
	GetByID(ctx context.Context, id string) (*Collection, error)
	Delete(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string) ([]WithSounds, error)
	ListSoundIDs(ctx context.Context, collectionID string) ([]string, error)
	ListSounds(ctx context.Context, collectionID string) ([]sound.Sound, error)
	AddSound(ctx context.Context, collectionID, soundID string) (bool, error)
	RemoveSound(ctx context.Context, collectionID, soundID string) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, c *Collection) error {
	query := `
		INSERT INTO collections (id, owner_id, name)
		VALUES ($1, $2, $3)
		RETURNING created_at`

	if err := r.db.GetContext(ctx, &c.CreatedAt, query, c.ID, c.OwnerID, c.Name); err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("create collection: owner: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create collection: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Collection, error) {
	query := `SELECT id, owner_id, name, created_at FROM collections WHERE id = $1`

	var c Collection
	err := r.db.GetContext(ctx, &c, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get collection: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get collection: %w", err)
	}

	return &c, nil
}

// Delete removes the collection; its memberships go with it via ON DELETE
// CASCADE.
func (r *repository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM collections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete collection: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete collection: %w", core.ErrNotFound)
	}

	return nil
}

type collectionSoundRow struct {
	Collection
	SoundID *string `db:"sound_id"`
}

func (r *repository) ListByOwner(
	ctx context.Context,
	ownerID string,
) ([]WithSounds, error) {
	query := `
		SELECT c.id, c.owner_id, c.name, c.created_at, cs.sound_id
		FROM collections c
		LEFT JOIN collection_sounds cs ON cs.collection_id = c.id
		WHERE c.owner_id = $1
		ORDER BY c.created_at ASC, c.id ASC, cs.added_at ASC, cs.sound_id ASC`

	var rows []collectionSoundRow
	if err := r.db.SelectContext(ctx, &rows, query, ownerID); err != nil {
		return nil, fmt.Errorf("list collections: %w", err)
	}

	out := []WithSounds{}
	for _, row := range rows {
		if len(out) == 0 || out[len(out)-1].ID != row.ID {
			out = append(out, WithSounds{Collection: row.Collection, SoundIDs: []string{}})
		}
		if row.SoundID != nil {
			last := &out[len(out)-1]
			last.SoundIDs = append(last.SoundIDs, *row.SoundID)
		}
	}

	return out, nil
}

func (r *repository) ListSoundIDs(
	ctx context.Context,
	collectionID string,
) ([]string, error) {
	query := `
		SELECT sound_id FROM collection_sounds
		WHERE collection_id = $1
		ORDER BY added_at ASC, sound_id ASC`

	ids := []string{}
	if err := r.db.SelectContext(ctx, &ids, query, collectionID); err != nil {
		return nil, fmt.Errorf("list collection sound ids: %w", err)
	}

	return ids, nil
}

func (r *repository) ListSounds(
	ctx context.Context,
	collectionID string,
) ([]sound.Sound, error) {
	query := `
		SELECT s.id, s.title, s.category, s.tags, s.bitrate, s.quality,
		       s.duration, s.locator, s.exclusive, s.uploader_id, s.created_at
		FROM sounds s
		JOIN collection_sounds cs ON cs.sound_id = s.id
		WHERE cs.collection_id = $1
		ORDER BY cs.added_at ASC, s.id ASC`

	sounds := []sound.Sound{}
	if err := r.db.SelectContext(ctx, &sounds, query, collectionID); err != nil {
		return nil, fmt.Errorf("list collection sounds: %w", err)
	}

	return sounds, nil
}

// AddSound reports false when the pair already existed. The composite
// primary key makes concurrent adds of the same pair safe.
func (r *repository) AddSound(
	ctx context.Context,
	collectionID, soundID string,
) (bool, error) {
	query := `
		INSERT INTO collection_sounds (collection_id, sound_id)
		VALUES ($1, $2)
		ON CONFLICT (collection_id, sound_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, collectionID, soundID)
	if err != nil {
		if core.IsForeignKeyViolation(err) {
			return false, fmt.Errorf("add sound: %w: %w", ErrSoundNotFound, core.ErrNotFound)
		}
		return false, fmt.Errorf("add sound: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("add sound: %w", err)
	}

	return rows == 1, nil
}

func (r *repository) RemoveSound(
	ctx context.Context,
	collectionID, soundID string,
) (bool, error) {
	query := `DELETE FROM collection_sounds WHERE collection_id = $1 AND sound_id = $2`

	result, err := r.db.ExecContext(ctx, query, collectionID, soundID)
	if err != nil {
		return false, fmt.Errorf("remove sound: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("remove sound: %w", err)
	}

	return rows == 1, nil
}
