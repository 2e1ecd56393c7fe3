// AngelaMos | 2026
// service.go

package collection

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/soundvault/internal/core"
	"github.com/carterperez-dev/soundvault/internal/sound"
)

// SoundLookup is satisfied by sound.Service.
type SoundLookup interface {
	Get(ctx context.Context, id string) (*sound.Sound, error)
}

type Service struct {
	repo   Repository
	sounds SoundLookup
}

func NewService(repo Repository, sounds SoundLookup) *Service {
	return &Service{repo: repo, sounds: sounds}
}

func (s *Service) Create(
	ctx context.Context,
	ownerID, name string,
) (*Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > 128 {
		return nil, fmt.Errorf("create collection: name: %w", core.ErrInvalidInput)
	}

	c := &Collection{
		ID:      uuid.New().String(),
		OwnerID: ownerID,
		Name:    name,
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// owned loads a collection and checks that requesterID owns it.
func (s *Service) owned(
	ctx context.Context,
	collectionID, requesterID string,
) (*Collection, error) {
	if _, err := uuid.Parse(collectionID); err != nil {
		return nil, fmt.Errorf("get collection: %w", core.ErrNotFound)
	}

	c, err := s.repo.GetByID(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	if !c.OwnedBy(requesterID) {
		return nil, fmt.Errorf("collection %s: %w", collectionID, core.ErrForbidden)
	}

	return c, nil
}

func (s *Service) Get(
	ctx context.Context,
	collectionID, requesterID string,
) (*Detail, error) {
	c, err := s.owned(ctx, collectionID, requesterID)
	if err != nil {
		return nil, err
	}

	sounds, err := s.repo.ListSounds(ctx, c.ID)
	if err != nil {
		return nil, err
	}

	return &Detail{Collection: *c, Sounds: sounds}, nil
}

func (s *Service) Delete(
	ctx context.Context,
	collectionID, requesterID string,
) error {
	c, err := s.owned(ctx, collectionID, requesterID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, c.ID); err != nil {
		return err
	}

	slog.Info("collection deleted", "collection_id", c.ID, "owner_id", requesterID)
	return nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]WithSounds, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *Service) SoundIDs(
	ctx context.Context,
	collectionID, requesterID string,
) ([]string, error) {
	c, err := s.owned(ctx, collectionID, requesterID)
	if err != nil {
		return nil, err
	}
	return s.repo.ListSoundIDs(ctx, c.ID)
}

// AddSound looks the sound up first so a missing or malformed id is a 404
// before any write. The insert's foreign key still guards the window
// between that read and the write.
func (s *Service) AddSound(
	ctx context.Context,
	collectionID, soundID, requesterID string,
) (Outcome, error) {
	c, err := s.owned(ctx, collectionID, requesterID)
	if err != nil {
		return "", err
	}

	if _, err := s.sounds.Get(ctx, soundID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return "", fmt.Errorf("add sound: %w: %w", ErrSoundNotFound, err)
		}
		return "", fmt.Errorf("add sound: %w", err)
	}

	added, err := s.repo.AddSound(ctx, c.ID, soundID)
	if err != nil {
		return "", err
	}

	if !added {
		return OutcomeAlreadyPresent, nil
	}
	return OutcomeAdded, nil
}

func (s *Service) RemoveSound(
	ctx context.Context,
	collectionID, soundID, requesterID string,
) (Outcome, error) {
	c, err := s.owned(ctx, collectionID, requesterID)
	if err != nil {
		return "", err
	}

	if _, err := uuid.Parse(soundID); err != nil {
		return OutcomeNotPresent, nil
	}

	removed, err := s.repo.RemoveSound(ctx, c.ID, soundID)
	if err != nil {
		return "", err
	}

	if !removed {
		return OutcomeNotPresent, nil
	}
	return OutcomeRemoved, nil
}
