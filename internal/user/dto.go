// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/carterperez-dev/soundvault/internal/entitlement"
)

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=user admin"`
}

type UpdateSubscriptionRequest struct {
	Subscribed *bool `json:"subscribed" validate:"required"`
}

type UserResponse struct {
	ID               string     `json:"id"`
	Username         string     `json:"username"`
	Email            string     `json:"email"`
	Role             string     `json:"role"`
	Subscribed       bool       `json:"subscribed"`
	SoundsDownloaded int        `json:"sounds_downloaded"`
	LastDownloadAt   *time.Time `json:"last_download_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ProfileResponse is the caller's own view, including today's quota.
type ProfileResponse struct {
	UserResponse
	Quota entitlement.Quota `json:"quota"`
}

type ListUsersParams struct {
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
	Search   string `json:"search"`
	Role     string `json:"role"`
}

func (p *ListUsersParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 20
	}
	if p.PageSize > 100 {
		p.PageSize = 100
	}
}

func (p *ListUsersParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:               u.ID,
		Username:         u.Username,
		Email:            u.Email,
		Role:             u.Role,
		Subscribed:       u.Subscribed,
		SoundsDownloaded: u.SoundsDownloaded,
		LastDownloadAt:   u.LastDownloadAt,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(&u))
	}
	return responses
}
