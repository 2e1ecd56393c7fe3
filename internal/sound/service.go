// AngelaMos | 2026
// service.go

package sound

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/carterperez-dev/soundvault/internal/config"
	"github.com/carterperez-dev/soundvault/internal/core"
	"github.com/carterperez-dev/soundvault/internal/storage"
)

type Service struct {
	repo    Repository
	store   storage.Store
	storage config.StorageConfig
}

func NewService(
	repo Repository,
	store storage.Store,
	storageCfg config.StorageConfig,
) *Service {
	return &Service{repo: repo, store: store, storage: storageCfg}
}

func (s *Service) Search(ctx context.Context, query string) ([]Sound, error) {
	if !utf8.ValidString(query) {
		return nil, fmt.Errorf("search: %w", ErrInvalidQuery)
	}
	return s.repo.Search(ctx, normalizeText(query))
}

func (s *Service) Get(ctx context.Context, id string) (*Sound, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("get sound: %w", core.ErrNotFound)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// UploadFile is the file part of an upload.
type UploadFile struct {
	Name string
	Size int64
	Body io.Reader
}

// Upload validates the metadata, writes the file to the blob store and
// only then records the sound. A rejected request writes nothing and a
// store failure leaves no row behind.
func (s *Service) Upload(
	ctx context.Context,
	uploaderID string,
	req UploadSoundRequest,
	file UploadFile,
) (*Sound, error) {
	ext := storage.Ext(file.Name)
	if !s.storage.AllowsExtension(ext) {
		return nil, fmt.Errorf("upload: %q: %w", ext, ErrExtensionNotAllowed)
	}

	snd := &Sound{
		ID:        uuid.New().String(),
		Title:     normalizeText(req.Title),
		Category:  normalizeText(req.Category),
		Tags:      NormalizeTags(req.Tags),
		Bitrate:   strings.TrimSpace(req.Bitrate),
		Quality:   strings.TrimSpace(req.Quality),
		Duration:  req.Duration,
		Exclusive: req.Exclusive,
	}
	if utf8.RuneCountInString(snd.Tags) > MaxTagsLength {
		return nil, fmt.Errorf("upload: %w", ErrTagsTooLong)
	}

	key := storage.SoundKey(file.Name)
	locator, err := s.store.Put(ctx, key, storage.ContentType(ext), file.Body, file.Size)
	if err != nil {
		return nil, fmt.Errorf("upload: %w", err)
	}
	snd.Locator = locator

	if uploaderID != "" {
		snd.UploaderID = &uploaderID
	}

	if err := s.repo.Create(ctx, snd); err != nil {
		slog.Error("sound row not recorded after upload",
			"locator", locator,
			"error", err,
		)
		return nil, err
	}

	slog.Info("sound uploaded",
		"sound_id", snd.ID,
		"locator", locator,
		"uploader_id", uploaderID,
	)

	return snd, nil
}

func normalizeText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// NormalizeTags trims, NFC-normalises and drops case-insensitive
// duplicates, keeping the first spelling seen.
func NormalizeTags(raw string) string {
	fold := cases.Fold()
	seen := make(map[string]struct{})

	var out []string
	for _, part := range strings.Split(raw, ",") {
		tag := normalizeText(part)
		if tag == "" {
			continue
		}
		k := fold.String(tag)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, tag)
	}

	return strings.Join(out, ", ")
}
