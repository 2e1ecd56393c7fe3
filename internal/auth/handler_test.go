// AngelaMos | 2026
// handler_test.go

package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/soundvault/internal/middleware"
)

func newTestRouter(env *testEnv) http.Handler {
	passthrough := func(next http.Handler) http.Handler { return next }

	r := chi.NewRouter()
	NewHandler(env.svc).RegisterRoutes(
		r,
		middleware.Authenticator(env.svc),
		passthrough,
	)
	return r
}

func do(
	t *testing.T,
	h http.Handler,
	method, path, body, token string,
) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	h := newTestRouter(env)

	const reg = `{"username":"mira","email":"mira@example.com","password":"long enough pw"}`

	tests := []struct {
		name       string
		path       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"register", "/auth/register", reg, http.StatusCreated, ""},
		{"duplicate username", "/auth/register", reg, http.StatusConflict, "DUPLICATE"},
		{
			"duplicate email",
			"/auth/register",
			`{"username":"other","email":"mira@example.com","password":"long enough pw"}`,
			http.StatusConflict, "DUPLICATE",
		},
		{
			"short password",
			"/auth/register",
			`{"username":"newbie","email":"n@example.com","password":"short"}`,
			http.StatusBadRequest, "",
		},
		{"login", "/auth/login", `{"username":"mira","password":"long enough pw"}`, http.StatusOK, ""},
		{
			"wrong password",
			"/auth/login",
			`{"username":"mira","password":"nope nope"}`,
			http.StatusUnauthorized, "UNAUTHORIZED",
		},
		{
			"unknown user",
			"/auth/login",
			`{"username":"ghost","password":"long enough pw"}`,
			http.StatusUnauthorized, "UNAUTHORIZED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, tt.path, tt.body, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body)
			}
			if tt.wantCode == "" {
				return
			}

			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestHandlerLogoutAllRevokesAccessToken(t *testing.T) {
	env := newTestEnv(t)
	h := newTestRouter(env)

	token := env.register(t, "nadia").Tokens.AccessToken

	if rec := do(t, h, http.MethodGet, "/auth/me", "", token); rec.Code != http.StatusOK {
		t.Fatalf("me before logout: status = %d", rec.Code)
	}

	if rec := do(t, h, http.MethodPost, "/auth/logout-all", "", token); rec.Code != http.StatusNoContent {
		t.Fatalf("logout-all: status = %d", rec.Code)
	}

	if rec := do(t, h, http.MethodGet, "/auth/me", "", token); rec.Code != http.StatusUnauthorized {
		t.Errorf("me after logout: status = %d, want 401", rec.Code)
	}
}
