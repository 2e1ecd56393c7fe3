// AngelaMos | 2026
// entity.go

package collection

import (
	"errors"
	"time"
)

// ErrSoundNotFound distinguishes a missing sound from a missing collection.
// It always travels together with core.ErrNotFound.
var ErrSoundNotFound = errors.New("sound not found")

type Collection struct {
	ID        string    `db:"id"`
	OwnerID   string    `db:"owner_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

func (c *Collection) OwnedBy(userID string) bool {
	return c.OwnerID == userID
}

// Outcome reports what a membership change actually did.
type Outcome string

const (
	OutcomeAdded          Outcome = "added"
	OutcomeAlreadyPresent Outcome = "already_present"
	OutcomeRemoved        Outcome = "removed"
	OutcomeNotPresent     Outcome = "not_present"
)
