// AngelaMos | 2026
// local.go

package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/carterperez-dev/soundvault/internal/core"
)

type LocalStore struct {
	dir        string
	publicBase string
}

func NewLocalStore(dir, publicBase string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}

	return &LocalStore{
		dir:        dir,
		publicBase: strings.TrimRight(publicBase, "/"),
	}, nil
}

func (s *LocalStore) path(key string) (string, error) {
	full := filepath.Join(s.dir, filepath.FromSlash(key))

	rel, err := filepath.Rel(s.dir, full)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("key %q escapes storage dir: %w", key, core.ErrInvalidInput)
	}
	return full, nil
}

func (s *LocalStore) Put(
	ctx context.Context,
	key, _ string,
	body io.Reader,
	_ int64,
) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	full, err := s.path(key)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o750); err != nil {
		return "", fmt.Errorf("put %s: %w: %w", key, core.ErrStorage, err)
	}

	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return "", fmt.Errorf("put %s: %w: %w", key, core.ErrStorage, err)
	}

	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()        //nolint:errcheck // already failing
		_ = os.Remove(full) //nolint:errcheck // best-effort cleanup
		return "", fmt.Errorf("put %s: %w: %w", key, core.ErrStorage, err)
	}

	if err := f.Close(); err != nil {
		_ = os.Remove(full) //nolint:errcheck // best-effort cleanup
		return "", fmt.Errorf("put %s: %w: %w", key, core.ErrStorage, err)
	}

	return key, nil
}

func (s *LocalStore) URL(_ context.Context, locator string) (string, error) {
	if IsExternal(locator) {
		return locator, nil
	}
	if locator == "" {
		return "", fmt.Errorf("resolve url: empty locator: %w", core.ErrStorage)
	}
	return s.publicBase + "/" + strings.TrimLeft(locator, "/"), nil
}

func (s *LocalStore) Ping(_ context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("storage dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("storage dir %s is not a directory", s.dir)
	}
	return nil
}

// FileServer serves stored objects under the public base path. Directory
// listings are disabled.
func (s *LocalStore) FileServer() http.Handler {
	fs := http.FileServer(noListingFS{http.Dir(s.dir)})
	return http.StripPrefix(s.publicBase, fs)
}

func (s *LocalStore) PublicBase() string {
	return s.publicBase
}

type noListingFS struct {
	fs http.FileSystem
}

func (n noListingFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close() //nolint:errcheck // already failing
		return nil, err
	}
	if info.IsDir() {
		_ = f.Close() //nolint:errcheck // listing disabled
		return nil, os.ErrNotExist
	}

	return f, nil
}
