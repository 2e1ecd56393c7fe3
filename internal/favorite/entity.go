// AngelaMos | 2026
// entity.go

package favorite

import (
	"time"
)

type Favorite struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	SoundID   string    `db:"sound_id"`
	CreatedAt time.Time `db:"created_at"`
}

type Outcome string

const (
	OutcomeAdded   Outcome = "added"
	OutcomeRemoved Outcome = "removed"
)
