// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

// Session is one refresh-token login. Only the SHA-256 of the refresh
// token is stored; the access token carries the session id as "sid".
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TokenHash string    `json:"token_hash"`
	UserAgent string    `json:"user_agent"`
	IPAddress string    `json:"ip_address"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

func (s *Session) TTL() time.Duration {
	return time.Until(s.ExpiresAt)
}
