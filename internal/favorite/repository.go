// AngelaMos | 2026
// repository.go

package favorite

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/soundvault/internal/core"
	"github.com/carterperez-dev/soundvault/internal/sound"
)

type Repository interface {
	Insert(ctx context.Context, f *Favorite) (bool, error)
	Delete(ctx context.Context, userID, soundID string) (bool, error)
	ListSounds(ctx context.Context, userID string) ([]sound.Sound, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

// Insert reports whether a row was created. A concurrent insert of the
// same pair loses to the unique key and reports false.
func (r *repository) Insert(ctx context.Context, f *Favorite) (bool, error) {
	query := `
		INSERT INTO favorites (id, user_id, sound_id)
		VALUES ($1, $2, $3)
		ON CONFLICT ON CONSTRAINT favorites_user_sound_key DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, f.ID, f.UserID, f.SoundID)
	if err != nil {
		if core.IsForeignKeyViolation(err) {
			return false, fmt.Errorf("insert favorite: %w", core.ErrNotFound)
		}
		return false, fmt.Errorf("insert favorite: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert favorite: %w", err)
	}

	return rows == 1, nil
}

func (r *repository) Delete(
	ctx context.Context,
	userID, soundID string,
) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = $1 AND sound_id = $2`,
		userID, soundID,
	)
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete favorite: %w", err)
	}

	return rows > 0, nil
}

func (r *repository) ListSounds(
	ctx context.Context,
	userID string,
) ([]sound.Sound, error) {
	query := `
		SELECT s.id, s.title, s.category, s.tags, s.bitrate, s.quality,
		       s.duration, s.locator, s.exclusive, s.uploader_id, s.created_at
		FROM favorites f
		JOIN sounds s ON s.id = f.sound_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC, f.id DESC`

	sounds := []sound.Sound{}
	if err := r.db.SelectContext(ctx, &sounds, query, userID); err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	return sounds, nil
}
