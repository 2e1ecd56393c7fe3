// AngelaMos | 2026
// entity.go

package sound

import (
	"fmt"
	"strings"
	"time"

	"github.com/carterperez-dev/soundvault/internal/core"
)

// MaxTagsLength is the width of the tags column, in characters.
const MaxTagsLength = 256

var (
	ErrExtensionNotAllowed = fmt.Errorf("extension not allowed: %w", core.ErrInvalidInput)
	ErrTagsTooLong         = fmt.Errorf("tags exceed %d characters: %w", MaxTagsLength, core.ErrInvalidInput)
	ErrInvalidQuery        = fmt.Errorf("search query is not valid UTF-8: %w", core.ErrInvalidInput)
)

type Sound struct {
	ID         string    `db:"id"`
	Title      string    `db:"title"`
	Category   string    `db:"category"`
	Tags       string    `db:"tags"`
	Bitrate    string    `db:"bitrate"`
	Quality    string    `db:"quality"`
	Duration   float64   `db:"duration"`
	Locator    string    `db:"locator"`
	Exclusive  bool      `db:"exclusive"`
	UploaderID *string   `db:"uploader_id"`
	CreatedAt  time.Time `db:"created_at"`
}

// TagList splits the stored comma-separated tag string.
func (s *Sound) TagList() []string {
	if strings.TrimSpace(s.Tags) == "" {
		return []string{}
	}

	parts := strings.Split(s.Tags, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
