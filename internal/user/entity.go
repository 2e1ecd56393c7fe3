// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/soundvault/internal/auth"
	"github.com/carterperez-dev/soundvault/internal/entitlement"
)

// The duplicate sentinels live in auth so the register handler can match
// them without importing this package.
var (
	ErrDuplicateUsername = auth.ErrUsernameExists
	ErrDuplicateEmail    = auth.ErrEmailExists
)

type User struct {
	ID               string     `db:"id"`
	Username         string     `db:"username"`
	Email            string     `db:"email"`
	PasswordHash     string     `db:"password_hash"`
	Role             string     `db:"role"`
	SoundsDownloaded int        `db:"sounds_downloaded"`
	Subscribed       bool       `db:"subscribed"`
	DailyDownloads   int        `db:"daily_downloads"`
	LastDownloadAt   *time.Time `db:"last_download_at"`
	CreatedAt        time.Time  `db:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Entitlement returns the quota state as stored. Staleness of
// DailyDownloads is resolved by the policy, not here.
func (u *User) Entitlement() entitlement.State {
	return entitlement.State{
		DailyDownloads: u.DailyDownloads,
		TotalDownloads: u.SoundsDownloaded,
		LastDownload:   u.LastDownloadAt,
		Subscribed:     u.Subscribed,
	}
}

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)
