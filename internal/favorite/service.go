// AngelaMos | 2026
// service.go

package favorite

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/soundvault/internal/core"
	"github.com/carterperez-dev/soundvault/internal/notification"
	"github.com/carterperez-dev/soundvault/internal/sound"
)

type Service struct {
	db core.DBTX
	tx core.TxRunner
}

func NewService(db core.DBTX, tx core.TxRunner) *Service {
	return &Service{db: db, tx: tx}
}

// Toggle removes the favorite if present, otherwise adds it and notifies
// the user. The whole toggle is one transaction; a notification is only
// written when this call created the row.
func (s *Service) Toggle(
	ctx context.Context,
	userID, soundID string,
) (Outcome, error) {
	if _, err := uuid.Parse(soundID); err != nil {
		return "", fmt.Errorf("toggle favorite: %w", core.ErrNotFound)
	}

	var outcome Outcome
	err := s.tx(ctx, func(tx *sqlx.Tx) error {
		favorites := NewRepository(tx)

		removed, err := favorites.Delete(ctx, userID, soundID)
		if err != nil {
			return err
		}
		if removed {
			outcome = OutcomeRemoved
			return nil
		}

		snd, err := sound.NewRepository(tx).GetByID(ctx, soundID)
		if err != nil {
			return err
		}

		created, err := favorites.Insert(ctx, &Favorite{
			ID:      uuid.New().String(),
			UserID:  userID,
			SoundID: soundID,
		})
		if err != nil {
			return err
		}
		outcome = OutcomeAdded

		if !created {
			return nil
		}

		note, err := notification.New(userID, fmt.Sprintf("You added %s to your favorites.", snd.Title))
		if err != nil {
			return err
		}
		return notification.NewRepository(tx).Create(ctx, note)
	})
	if err != nil {
		return "", fmt.Errorf("toggle favorite: %w", err)
	}

	slog.Debug("favorite toggled", "user_id", userID, "sound_id", soundID, "outcome", outcome)
	return outcome, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]sound.Sound, error) {
	return NewRepository(s.db).ListSounds(ctx, userID)
}
