// AngelaMos | 2026
// handler_test.go

package admin

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

type fixedCount struct {
	n   int
	err error
}

func (c fixedCount) Count(context.Context) (int, error) { return c.n, c.err }

func passthrough(next http.Handler) http.Handler { return next }

func forbid(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
}

func TestGetSystemStats(t *testing.T) {
	h := NewHandler(HandlerConfig{
		DBPing:      func(context.Context) error { return nil },
		StoragePing: func(context.Context) error { return errors.New("bucket gone") },
		Users:       fixedCount{n: 12},
		Sounds:      fixedCount{err: errors.New("boom")},
	})

	r := chi.NewRouter()
	h.RegisterRoutes(r, passthrough, passthrough)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/stats/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Data SystemStatsResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}

	got := body.Data
	if !got.Database.Healthy {
		t.Error("database reported unhealthy")
	}
	if !got.Redis.Healthy {
		t.Error("unconfigured redis should report healthy")
	}
	if got.Storage.Healthy {
		t.Error("storage reported healthy after failed ping")
	}
	if got.Catalog.Users != 12 {
		t.Errorf("users = %d, want 12", got.Catalog.Users)
	}
	if got.Catalog.Sounds != -1 {
		t.Errorf("sounds = %d, want -1", got.Catalog.Sounds)
	}
	if got.Runtime.GoVersion == "" {
		t.Error("missing runtime stats")
	}
}

func TestStatsRequireAdmin(t *testing.T) {
	h := NewHandler(HandlerConfig{})

	r := chi.NewRouter()
	h.RegisterRoutes(r, passthrough, forbid)

	for _, path := range []string{"/admin/stats/", "/admin/stats/catalog", "/admin/stats/runtime"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s: status = %d, want 403", path, rec.Code)
		}
	}
}
