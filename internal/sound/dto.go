// AngelaMos | 2026
// dto.go

package sound

import (
	"time"
)

// UploadSoundRequest carries the multipart form fields of an upload; the
// file part is read separately.
type UploadSoundRequest struct {
	Title     string  `validate:"required,min=1,max=128"`
	Category  string  `validate:"max=64"`
	Tags      string  `validate:"max=256"`
	Bitrate   string  `validate:"max=64"`
	Quality   string  `validate:"max=64"`
	Duration  float64 `validate:"gte=0"`
	Exclusive bool
}

type SoundResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Category     string    `json:"category"`
	Tags         []string  `json:"tags"`
	Bitrate      string    `json:"bitrate"`
	Quality      string    `json:"quality"`
	Duration     float64   `json:"duration"`
	Exclusive    bool      `json:"exclusive"`
	DownloadPath string    `json:"download_path"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToSoundResponse(s *Sound) SoundResponse {
	return SoundResponse{
		ID:           s.ID,
		Title:        s.Title,
		Category:     s.Category,
		Tags:         s.TagList(),
		Bitrate:      s.Bitrate,
		Quality:      s.Quality,
		Duration:     s.Duration,
		Exclusive:    s.Exclusive,
		DownloadPath: "/v1/sounds/" + s.ID + "/download",
		CreatedAt:    s.CreatedAt,
	}
}

func ToSoundResponseList(sounds []Sound) []SoundResponse {
	responses := make([]SoundResponse, 0, len(sounds))
	for i := range sounds {
		responses = append(responses, ToSoundResponse(&sounds[i]))
	}
	return responses
}
