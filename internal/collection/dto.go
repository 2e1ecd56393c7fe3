// AngelaMos | 2026
// dto.go

package collection

import (
	"time"

	"github.com/carterperez-dev/soundvault/internal/sound"
)

type CreateCollectionRequest struct {
	Name string `json:"name" validate:"required,min=1,max=128"`
}

type CollectionResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	SoundIDs  []string  `json:"sound_ids"`
}

type CollectionDetailResponse struct {
	ID        string                `json:"id"`
	Name      string                `json:"name"`
	CreatedAt time.Time             `json:"created_at"`
	Sounds    []sound.SoundResponse `json:"sounds"`
}

type MembershipResponse struct {
	CollectionID string  `json:"collection_id"`
	SoundID      string  `json:"sound_id"`
	Outcome      Outcome `json:"outcome"`
}

// WithSounds pairs a collection with the ids of its sounds.
type WithSounds struct {
	Collection
	SoundIDs []string
}

// Detail is a collection with its sounds loaded.
type Detail struct {
	Collection
	Sounds []sound.Sound
}

func ToCollectionResponse(c WithSounds) CollectionResponse {
	ids := c.SoundIDs
	if ids == nil {
		ids = []string{}
	}
	return CollectionResponse{
		ID:        c.ID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
		SoundIDs:  ids,
	}
}

func ToCollectionResponseList(cs []WithSounds) []CollectionResponse {
	out := make([]CollectionResponse, 0, len(cs))
	for _, c := range cs {
		out = append(out, ToCollectionResponse(c))
	}
	return out
}

func ToDetailResponse(d *Detail) CollectionDetailResponse {
	return CollectionDetailResponse{
		ID:        d.ID,
		Name:      d.Name,
		CreatedAt: d.CreatedAt,
		Sounds:    sound.ToSoundResponseList(d.Sounds),
	}
}
