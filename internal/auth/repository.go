// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/carterperez-dev/soundvault/internal/core"
)

// Repository stores sessions in Redis under three keys:
//
//	session:<id>             JSON session record
//	session_token:<sha256>   session id for a refresh token
//	user_sessions:<user id>  set of the user's session ids
//
// All three expire with the session. Every session gets the same TTL, so
// refreshing the set's expiry on create keeps it alive for the newest one.
type Repository interface {
	Create(ctx context.Context, s *Session) error
	FindByID(ctx context.Context, id string) (*Session, error)
	FindByHash(ctx context.Context, tokenHash string) (*Session, error)
	ConsumeByHash(ctx context.Context, tokenHash string) (*Session, error)
	Exists(ctx context.Context, id string) (bool, error)
	Revoke(ctx context.Context, s *Session) error
	RevokeAllForUser(ctx context.Context, userID string) error
	ListForUser(ctx context.Context, userID string) ([]Session, error)
}

type repository struct {
	rdb *redis.Client
}

func NewRepository(rdb *redis.Client) Repository {
	return &repository{rdb: rdb}
}

func sessionKey(id string) string { return "session:" + id }

func tokenKey(hash string) string { return "session_token:" + hash }

func userSessionsKey(userID string) string { return "user_sessions:" + userID }

func (r *repository) Create(ctx context.Context, s *Session) error {
	ttl := s.TTL()
	if ttl <= 0 {
		return fmt.Errorf("create session: already expired: %w", core.ErrInvalidInput)
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(s.ID), data, ttl)
		pipe.Set(ctx, tokenKey(s.TokenHash), s.ID, ttl)
		pipe.SAdd(ctx, userSessionsKey(s.UserID), s.ID)
		pipe.Expire(ctx, userSessionsKey(s.UserID), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	return nil
}

func (r *repository) FindByID(ctx context.Context, id string) (*Session, error) {
	data, err := r.rdb.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("find session: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (r *repository) FindByHash(
	ctx context.Context,
	tokenHash string,
) (*Session, error) {
	id, err := r.rdb.Get(ctx, tokenKey(tokenHash)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("find session by token: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find session by token: %w", err)
	}

	return r.FindByID(ctx, id)
}

// ConsumeByHash atomically detaches a refresh token from its session so
// two concurrent refreshes with the same token cannot both succeed.
func (r *repository) ConsumeByHash(
	ctx context.Context,
	tokenHash string,
) (*Session, error) {
	id, err := r.rdb.GetDel(ctx, tokenKey(tokenHash)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("consume refresh token: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("consume refresh token: %w", err)
	}

	return r.FindByID(ctx, id)
}

func (r *repository) Exists(ctx context.Context, id string) (bool, error) {
	n, err := r.rdb.Exists(ctx, sessionKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("check session: %w", err)
	}
	return n > 0, nil
}

func (r *repository) Revoke(ctx context.Context, s *Session) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(s.ID), tokenKey(s.TokenHash))
		pipe.SRem(ctx, userSessionsKey(s.UserID), s.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (r *repository) RevokeAllForUser(ctx context.Context, userID string) error {
	sessions, err := r.ListForUser(ctx, userID)
	if err != nil {
		return err
	}

	keys := make([]string, 0, 2*len(sessions)+1)
	for _, s := range sessions {
		keys = append(keys, sessionKey(s.ID), tokenKey(s.TokenHash))
	}
	keys = append(keys, userSessionsKey(userID))

	if err := r.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("revoke all sessions: %w", err)
	}
	return nil
}

// ListForUser returns live sessions and prunes ids whose records have
// already expired.
func (r *repository) ListForUser(
	ctx context.Context,
	userID string,
) ([]Session, error) {
	ids, err := r.rdb.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	if len(ids) == 0 {
		return []Session{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = sessionKey(id)
	}

	values, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}

	sessions := make([]Session, 0, len(values))
	var stale []any
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		var s Session
		if err := json.Unmarshal([]byte(raw), &s); err != nil {
			stale = append(stale, ids[i])
			continue
		}
		sessions = append(sessions, s)
	}

	if len(stale) > 0 {
		//nolint:errcheck // best-effort index cleanup
		_ = r.rdb.SRem(ctx, userSessionsKey(userID), stale...).Err()
	}

	return sessions, nil
}
