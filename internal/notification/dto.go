// AngelaMos | 2026
// dto.go

package notification

import (
	"time"
)

type CreateNotificationRequest struct {
	UserID  string `json:"user_id" validate:"required,uuid"`
	Message string `json:"message" validate:"required,min=1,max=256"`
}

type NotificationResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type FeedResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Unread        int                    `json:"unread"`
}

func ToNotificationResponse(n *Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Message:   n.Message,
		IsRead:    n.IsRead,
		CreatedAt: n.CreatedAt,
	}
}

func ToNotificationResponseList(ns []Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(ns))
	for i := range ns {
		out = append(out, ToNotificationResponse(&ns[i]))
	}
	return out
}
