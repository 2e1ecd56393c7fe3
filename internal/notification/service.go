// AngelaMos | 2026
// service.go

package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/carterperez-dev/soundvault/internal/core"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// New builds an unread notification ready to insert.
func New(userID, message string) (*Notification, error) {
	message = strings.TrimSpace(message)
	if message == "" || utf8.RuneCountInString(message) > MaxMessageLength {
		return nil, fmt.Errorf("notification message: %w", core.ErrInvalidInput)
	}

	return &Notification{
		ID:      uuid.New().String(),
		UserID:  userID,
		Message: message,
	}, nil
}

func (s *Service) Create(
	ctx context.Context,
	recipientID, message string,
) (*Notification, error) {
	if _, err := uuid.Parse(recipientID); err != nil {
		return nil, fmt.Errorf("create notification: recipient: %w", core.ErrNotFound)
	}

	n, err := New(recipientID, message)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	slog.Info("notification created", "notification_id", n.ID, "user_id", recipientID)
	return n, nil
}

func (s *Service) List(ctx context.Context, userID string) ([]Notification, error) {
	return s.repo.ListForUser(ctx, userID)
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkRead flips the read flag. Marking an already read notification is
// not an error.
func (s *Service) MarkRead(ctx context.Context, id, requesterID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("mark read: %w", core.ErrNotFound)
	}

	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if n.UserID != requesterID {
		return fmt.Errorf("mark read: %w", core.ErrForbidden)
	}

	if n.IsRead {
		return nil
	}

	return s.repo.MarkRead(ctx, id)
}
