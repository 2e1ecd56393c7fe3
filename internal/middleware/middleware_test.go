// AngelaMos | 2026
// middleware_test.go

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/soundvault/internal/config"
	"github.com/carterperez-dev/soundvault/internal/core"
)

type fakeVerifier struct {
	claims map[string]*AccessTokenClaims
	err    error
}

func (f fakeVerifier) VerifyAccessToken(
	_ context.Context,
	token string,
) (*AccessTokenClaims, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.claims[token]
	if !ok {
		return nil, fmt.Errorf("verify: %w", core.ErrTokenInvalid)
	}
	return c, nil
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte(GetUserID(r.Context())))
})

func TestAuthenticator(t *testing.T) {
	verifier := fakeVerifier{claims: map[string]*AccessTokenClaims{
		"good": {UserID: "u1", Role: "user", SessionID: "s1"},
	}}

	tests := []struct {
		name       string
		header     string
		verifier   TokenVerifier
		wantStatus int
		wantBody   string
	}{
		{"missing header", "", verifier, http.StatusUnauthorized, ""},
		{"wrong scheme", "Basic good", verifier, http.StatusUnauthorized, ""},
		{"unknown token", "Bearer bad", verifier, http.StatusUnauthorized, ""},
		{"valid token", "Bearer good", verifier, http.StatusOK, "u1"},
		{
			"revoked session",
			"Bearer good",
			fakeVerifier{err: fmt.Errorf("verify: %w", core.ErrTokenRevoked)},
			http.StatusUnauthorized,
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			Authenticator(tt.verifier)(okHandler).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantBody != "" && rec.Body.String() != tt.wantBody {
				t.Fatalf("body = %q, want %q", rec.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestOptionalAuthLetsAnonymousThrough(t *testing.T) {
	verifier := fakeVerifier{claims: map[string]*AccessTokenClaims{}}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rec := httptest.NewRecorder()

	OptionalAuth(verifier)(okHandler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Body.String() != "" {
		t.Fatalf("got %d %q, want anonymous 200", rec.Code, rec.Body.String())
	}
}

func TestRequireAdmin(t *testing.T) {
	tests := []struct {
		name       string
		claims     *AccessTokenClaims
		wantStatus int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"regular user", &AccessTokenClaims{UserID: "u", Role: "user"}, http.StatusForbidden},
		{"admin", &AccessTokenClaims{UserID: "a", Role: "admin"}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.claims != nil {
				req = req.WithContext(WithClaims(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()

			RequireAdmin(okHandler).ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRequestIDPropagatesOrGenerates(t *testing.T) {
	var seen string
	h := RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if seen != "abc-123" || rec.Header().Get(RequestIDHeader) != "abc-123" {
		t.Fatalf("propagated id = %q / %q", seen, rec.Header().Get(RequestIDHeader))
	}

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(seen) != 36 {
		t.Fatalf("generated id = %q, want uuid", seen)
	}
}

func TestCORSPreflight(t *testing.T) {
	cfg := config.CORSConfig{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	h := CORS(cfg)(okHandler)

	req := httptest.NewRequest(http.MethodOptions, "/v1/sounds", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Fatalf("allow origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Fatal("credentials header missing")
	}

	req = httptest.NewRequest(http.MethodOptions, "/v1/sounds", nil)
	req.Header.Set("Origin", "http://evil.test")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("disallowed origin status = %d", rec.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(true)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("nosniff missing")
	}
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Fatal("HSTS missing in production")
	}
}

func TestRateLimiterRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	rl := NewRateLimiter(rdb, RateLimitConfig{Limit: PerMinute(2, 2)})
	h := rl.Handler(okHandler)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/v1/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)

		if i == 2 && rec.Header().Get("Retry-After") == "" {
			t.Fatal("Retry-After missing on limited response")
		}
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}
}

func TestLocalLimiterFallback(t *testing.T) {
	l := &localLimiter{}
	limit := PerMinute(60, 1)

	first, err := l.allow("k", limit)
	if err != nil || first.Allowed != 1 {
		t.Fatalf("first = %+v, %v", first, err)
	}
	second, err := l.allow("k", limit)
	if err != nil || second.Allowed != 0 {
		t.Fatalf("second = %+v, %v", second, err)
	}
	if second.RetryAfter != time.Second {
		t.Fatalf("retry after = %s, want 1s", second.RetryAfter)
	}
}

func TestKeyByIPAndEndpoint(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost,
		"/v1/collections/3f2b1c9e-1111-2222-3333-444455556666/sounds", nil)
	req.RemoteAddr = "192.0.2.7:5555"

	want := "ratelimit:ip:192.0.2.7:endpoint:/v1/collections/{id}/sounds"
	if got := KeyByIPAndEndpoint(req); got != want {
		t.Fatalf("key = %q, want %q", got, want)
	}
}
