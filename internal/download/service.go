// AngelaMos | 2026
// service.go

package download

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/soundvault/internal/core"
	"github.com/carterperez-dev/soundvault/internal/entitlement"
	"github.com/carterperez-dev/soundvault/internal/sound"
	"github.com/carterperez-dev/soundvault/internal/storage"
)

// SoundLookup is satisfied by sound.Service.
type SoundLookup interface {
	Get(ctx context.Context, id string) (*sound.Sound, error)
}

// QuotaError is returned when the daily limit is reached. It matches
// core.ErrQuotaExceeded.
type QuotaError struct {
	Quota entitlement.Quota
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf(
		"daily download limit of %d reached, resets at %s",
		e.Quota.Limit,
		e.Quota.ResetsAt.Format(time.RFC3339),
	)
}

func (e *QuotaError) Unwrap() error {
	return core.ErrQuotaExceeded
}

type Result struct {
	Sound *sound.Sound
	URL   string
	Quota entitlement.Quota
}

type Service struct {
	repo   Repository
	sounds SoundLookup
	store  storage.Store
	policy entitlement.Policy
}

func NewService(
	repo Repository,
	sounds SoundLookup,
	store storage.Store,
	policy entitlement.Policy,
) *Service {
	return &Service{repo: repo, sounds: sounds, store: store, policy: policy}
}

// AttemptDownload checks and consumes one download for userID under the
// user's row lock. The locator is resolved before the quota is touched so
// a storage failure never costs the user a download.
func (s *Service) AttemptDownload(
	ctx context.Context,
	userID, soundID string,
	now time.Time,
) (*Result, error) {
	ctx, span := core.StartSpan(ctx, "download.attempt",
		attribute.String("user.id", userID),
		attribute.String("sound.id", soundID),
	)
	defer span.End()

	snd, err := s.sounds.Get(ctx, soundID)
	if err != nil {
		return nil, fmt.Errorf("attempt download: %w", core.FailSpan(ctx, err))
	}

	url, err := s.store.URL(ctx, snd.Locator)
	if err != nil {
		return nil, fmt.Errorf("attempt download: %w", core.FailSpan(ctx, err))
	}

	var (
		allowed bool
		after   entitlement.State
	)
	err = s.repo.WithLockedEntitlement(ctx, userID,
		func(st entitlement.State) (entitlement.State, error) {
			allowed, after = s.policy.CheckAndConsume(st, now)
			return after, nil
		},
	)
	if err != nil {
		return nil, fmt.Errorf("attempt download: %w", core.FailSpan(ctx, err))
	}

	quota := s.policy.Quota(after, now)
	span.SetAttributes(
		attribute.Bool("download.allowed", allowed),
		attribute.Int("download.remaining", quota.Remaining),
	)

	if !allowed {
		slog.Info("download denied",
			"user_id", userID,
			"sound_id", soundID,
			"limit", quota.Limit,
		)
		return nil, &QuotaError{Quota: quota}
	}

	span.AddEvent("download.consumed")

	return &Result{Sound: snd, URL: url, Quota: quota}, nil
}

func (s *Service) GetQuota(
	ctx context.Context,
	userID string,
	now time.Time,
) (entitlement.Quota, error) {
	st, err := s.repo.GetEntitlement(ctx, userID)
	if err != nil {
		return entitlement.Quota{}, fmt.Errorf("get quota: %w", err)
	}
	return s.policy.Quota(st, now), nil
}
