// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/soundvault/internal/config"
	"github.com/carterperez-dev/soundvault/internal/core"
)

type fakeUsers struct {
	mu     sync.Mutex
	byID   map[string]*UserInfo
	byName map[string]*UserInfo
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byID:   map[string]*UserInfo{},
		byName: map[string]*UserInfo{},
	}
}

func (f *fakeUsers) GetByUsername(_ context.Context, username string) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byName[username]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) Create(
	_ context.Context,
	username, email, passwordHash string,
) (*UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byName[username]; ok {
		return nil, fmt.Errorf("create user: %w", ErrUsernameExists)
	}
	for _, u := range f.byID {
		if u.Email == email {
			return nil, fmt.Errorf("create user: %w", ErrEmailExists)
		}
	}
	u := &UserInfo{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         "user",
		CreatedAt:    time.Now(),
	}
	f.byID[u.ID] = u
	f.byName[username] = u
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byID[userID]
	if !ok {
		return core.ErrNotFound
	}
	u.PasswordHash = passwordHash
	return nil
}

type testEnv struct {
	svc   *Service
	users *fakeUsers
	mr    *miniredis.Miniredis
	jwt   *JWTManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dir := t.TempDir()
	priv := filepath.Join(dir, "private.pem")
	pub := filepath.Join(dir, "public.pem")
	if err := GenerateKeyPair(priv, pub); err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	jwtManager, err := NewJWTManager(config.JWTConfig{
		PrivateKeyPath:     priv,
		PublicKeyPath:      pub,
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: time.Hour,
		Issuer:             "soundvault-test",
		Audience:           "soundvault-test",
	})
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	hasher, err := core.NewPasswordHasher(config.SecurityConfig{
		ArgonTime:    1,
		ArgonMemory:  1024,
		ArgonThreads: 1,
	})
	if err != nil {
		t.Fatalf("NewPasswordHasher: %v", err)
	}

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	users := newFakeUsers()
	return &testEnv{
		svc:   NewService(NewRepository(rdb), jwtManager, users, hasher),
		users: users,
		mr:    mr,
		jwt:   jwtManager,
	}
}

func (e *testEnv) register(t *testing.T, username string) *AuthResponse {
	t.Helper()
	resp, err := e.svc.Register(context.Background(), RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "correct horse battery",
	}, "go-test", "127.0.0.1")
	if err != nil {
		t.Fatalf("Register(%s): %v", username, err)
	}
	return resp
}

func TestRegisterIssuesVerifiableTokens(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "alice")

	claims, err := env.svc.VerifyAccessToken(context.Background(), resp.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}
	if claims.UserID != resp.User.ID || claims.Username != "alice" || claims.Role != "user" {
		t.Errorf("claims = %+v, want user %s alice/user", claims, resp.User.ID)
	}
	if claims.SessionID == "" {
		t.Error("claims.SessionID is empty")
	}
	if resp.Tokens.TokenType != "Bearer" || resp.Tokens.ExpiresIn <= 0 {
		t.Errorf("tokens = %+v", resp.Tokens)
	}
}

func TestRegisterDuplicates(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr error
	}{
		{
			"same username",
			RegisterRequest{Username: "alice", Email: "other@example.com", Password: "password123"},
			ErrUsernameExists,
		},
		{
			"same email",
			RegisterRequest{Username: "bob", Email: "alice@example.com", Password: "password123"},
			ErrEmailExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.svc.Register(context.Background(), tt.req, "", "")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
	}{
		{"valid", "alice", "correct horse battery", nil},
		{"wrong password", "alice", "wrong", ErrInvalidCredentials},
		{"unknown user", "nobody", "correct horse battery", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := env.svc.Login(
				context.Background(),
				LoginRequest{Username: tt.username, Password: tt.password},
				"", "",
			)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && resp.User.Username != tt.username {
				t.Errorf("user = %q, want %q", resp.User.Username, tt.username)
			}
		})
	}
}

func TestLoginUpgradesWeakHash(t *testing.T) {
	env := newTestEnv(t)

	weak, err := core.NewPasswordHasher(config.SecurityConfig{
		ArgonTime: 1, ArgonMemory: 512, ArgonThreads: 1,
	})
	if err != nil {
		t.Fatalf("NewPasswordHasher: %v", err)
	}
	hash, err := weak.Hash("hunter22")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	user, err := env.users.Create(context.Background(), "carol", "carol@example.com", hash)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := env.svc.Login(
		context.Background(),
		LoginRequest{Username: "carol", Password: "hunter22"},
		"", "",
	); err != nil {
		t.Fatalf("Login: %v", err)
	}

	stored, _ := env.users.GetByID(context.Background(), user.ID)
	if stored.PasswordHash == hash {
		t.Fatal("hash was not upgraded")
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	env := newTestEnv(t)
	first := env.register(t, "alice")
	ctx := context.Background()

	second, err := env.svc.Refresh(ctx, first.Tokens.RefreshToken, "", "")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if second.Tokens.RefreshToken == first.Tokens.RefreshToken {
		t.Fatal("refresh token was not rotated")
	}

	if _, err := env.svc.Refresh(ctx, first.Tokens.RefreshToken, "", ""); !errors.Is(err, core.ErrTokenInvalid) {
		t.Fatalf("reuse err = %v, want ErrTokenInvalid", err)
	}

	if _, err := env.svc.VerifyAccessToken(ctx, first.Tokens.AccessToken); !errors.Is(err, core.ErrTokenRevoked) {
		t.Fatalf("old access token err = %v, want ErrTokenRevoked", err)
	}
	if _, err := env.svc.VerifyAccessToken(ctx, second.Tokens.AccessToken); err != nil {
		t.Fatalf("new access token: %v", err)
	}
}

func TestRefreshUnknownToken(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.Refresh(context.Background(), "not-a-token", "", "")
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")
	ctx := context.Background()

	err := env.svc.Logout(ctx, alice.Tokens.RefreshToken, bob.User.ID)
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("cross-user logout err = %v, want ErrForbidden", err)
	}

	if err := env.svc.Logout(ctx, alice.Tokens.RefreshToken, alice.User.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := env.svc.VerifyAccessToken(ctx, alice.Tokens.AccessToken); !errors.Is(err, core.ErrTokenRevoked) {
		t.Fatalf("err = %v, want ErrTokenRevoked", err)
	}

	if err := env.svc.Logout(ctx, alice.Tokens.RefreshToken, alice.User.ID); err != nil {
		t.Fatalf("second Logout: %v", err)
	}
}

func TestSessionsListAndRevoke(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first := env.register(t, "alice")
	second, err := env.svc.Login(
		ctx,
		LoginRequest{Username: "alice", Password: "correct horse battery"},
		"phone", "10.0.0.2",
	)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	current, err := env.svc.VerifyAccessToken(ctx, second.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}

	sessions, err := env.svc.GetActiveSessions(ctx, first.User.ID, current.SessionID)
	if err != nil {
		t.Fatalf("GetActiveSessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("len(sessions) = %d, want 2", len(sessions))
	}

	var other string
	for _, s := range sessions {
		if s.Current != (s.ID == current.SessionID) {
			t.Errorf("session %s Current = %v", s.ID, s.Current)
		}
		if !s.Current {
			other = s.ID
		}
	}

	bob := env.register(t, "bob")
	if err := env.svc.RevokeSession(ctx, bob.User.ID, other); !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("cross-user revoke err = %v, want ErrForbidden", err)
	}
	if err := env.svc.RevokeSession(ctx, first.User.ID, other); err != nil {
		t.Fatalf("RevokeSession: %v", err)
	}
	if _, err := env.svc.VerifyAccessToken(ctx, first.Tokens.AccessToken); !errors.Is(err, core.ErrTokenRevoked) {
		t.Fatalf("revoked session err = %v, want ErrTokenRevoked", err)
	}
	if err := env.svc.RevokeSession(ctx, first.User.ID, "missing"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("missing session err = %v, want ErrNotFound", err)
	}
}

func TestChangePasswordEndsAllSessions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	resp := env.register(t, "alice")

	err := env.svc.ChangePassword(ctx, resp.User.ID, "wrong", "new password 1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}

	if err := env.svc.ChangePassword(ctx, resp.User.ID, "correct horse battery", "new password 1"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, err := env.svc.VerifyAccessToken(ctx, resp.Tokens.AccessToken); !errors.Is(err, core.ErrTokenRevoked) {
		t.Fatalf("err = %v, want ErrTokenRevoked", err)
	}
	if _, err := env.svc.Login(ctx, LoginRequest{Username: "alice", Password: "new password 1"}, "", ""); err != nil {
		t.Fatalf("Login with new password: %v", err)
	}
}

func TestSessionKeysExpire(t *testing.T) {
	env := newTestEnv(t)
	resp := env.register(t, "alice")

	env.mr.FastForward(2 * time.Hour)

	if _, err := env.svc.VerifyAccessToken(context.Background(), resp.Tokens.AccessToken); err == nil {
		t.Fatal("expected verification to fail once the session expired")
	}
	if _, err := env.svc.Refresh(context.Background(), resp.Tokens.RefreshToken, "", ""); !errors.Is(err, core.ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestParseAccessTokenRejectsForeignIssuer(t *testing.T) {
	env := newTestEnv(t)

	token, _, err := env.jwt.CreateAccessToken(AccessTokenClaims{
		UserID: "u1", Username: "alice", Role: "user", SessionID: "s1",
	})
	if err != nil {
		t.Fatalf("CreateAccessToken: %v", err)
	}

	other := *env.jwt
	other.config.Issuer = "someone-else"
	if _, err := other.ParseAccessToken(token); !errors.Is(err, core.ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
	if _, err := env.jwt.ParseAccessToken(token + "x"); !errors.Is(err, core.ErrTokenInvalid) {
		t.Fatalf("tampered err = %v, want ErrTokenInvalid", err)
	}
}

func TestParseAccessTokenClassifiesFailures(t *testing.T) {
	env := newTestEnv(t)
	claims := AccessTokenClaims{UserID: "u1", Username: "alice", Role: "user", SessionID: "s1"}

	issue := func(t *testing.T, m *JWTManager) string {
		t.Helper()
		token, _, err := m.CreateAccessToken(claims)
		if err != nil {
			t.Fatalf("CreateAccessToken: %v", err)
		}
		return token
	}

	expired := *env.jwt
	expired.config.AccessTokenExpire = -time.Minute

	foreignIssuer := *env.jwt
	foreignIssuer.config.Issuer = "someone-else"

	foreignAudience := *env.jwt
	foreignAudience.config.Audience = "another-api"

	tests := []struct {
		name    string
		token   string
		want    error
		notWant error
	}{
		{"expired", issue(t, &expired), core.ErrTokenExpired, core.ErrTokenInvalid},
		{"foreign issuer", issue(t, &foreignIssuer), core.ErrTokenInvalid, core.ErrTokenExpired},
		{"foreign audience", issue(t, &foreignAudience), core.ErrTokenInvalid, core.ErrTokenExpired},
		{"garbage", "not.a.jwt", core.ErrTokenInvalid, core.ErrTokenExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.jwt.ParseAccessToken(tt.token)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if errors.Is(err, tt.notWant) {
				t.Errorf("err = %v, must not match %v", err, tt.notWant)
			}
		})
	}
}
