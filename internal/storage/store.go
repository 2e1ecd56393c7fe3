// AngelaMos | 2026
// store.go

package storage

import (
	"context"
	"io"
	"path"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Store persists sound files and resolves locators to fetchable URLs.
// A locator is either an object key returned by Put or an absolute
// http(s) URL recorded for an externally hosted file.
type Store interface {
	Put(
		ctx context.Context,
		key, contentType string,
		body io.Reader,
		size int64,
	) (string, error)
	URL(ctx context.Context, locator string) (string, error)
	Ping(ctx context.Context) error
}

const soundPrefix = "sounds/"

func IsExternal(locator string) bool {
	lower := strings.ToLower(locator)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://")
}

// SoundKey builds the object key for an uploaded sound file.
func SoundKey(filename string) string {
	return soundPrefix + uuid.NewString() + "_" + SanitizeFilename(filename)
}

// SanitizeFilename keeps the base name and replaces anything outside
// [A-Za-z0-9._-] with an underscore.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))

	var b strings.Builder
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}

	cleaned := strings.TrimLeft(b.String(), ".")
	if cleaned == "" {
		return "file"
	}
	return cleaned
}

// Ext returns the lowercased extension of name without the dot.
func Ext(name string) string {
	return strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
}

func ContentType(ext string) string {
	switch strings.ToLower(ext) {
	case "mp3":
		return "audio/mpeg"
	case "wav":
		return "audio/wav"
	case "ogg":
		return "audio/ogg"
	case "flac":
		return "audio/flac"
	default:
		return "application/octet-stream"
	}
}
