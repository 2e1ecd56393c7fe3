// AngelaMos | 2026
// repository.go

package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/soundvault/internal/core"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id string) (*Notification, error)
	ListForUser(ctx context.Context, userID string) ([]Notification, error)
	MarkRead(ctx context.Context, id string) error
	CountUnread(ctx context.Context, userID string) (int, error)
}

type repository struct {
	db core.DBTX
}

// NewRepository accepts a pool or a transaction, so other packages can
// create notifications inside their own transaction.
func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, n *Notification) error {
	query := `
		INSERT INTO notifications (id, user_id, message)
		VALUES ($1, $2, $3)
		RETURNING is_read, created_at`

	if err := r.db.GetContext(ctx, n, query, n.ID, n.UserID, n.Message); err != nil {
		if core.IsForeignKeyViolation(err) {
			return fmt.Errorf("create notification: recipient: %w", core.ErrNotFound)
		}
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Notification, error) {
	query := `
		SELECT id, user_id, message, is_read, created_at
		FROM notifications
		WHERE id = $1`

	var n Notification
	err := r.db.GetContext(ctx, &n, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get notification: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get notification: %w", err)
	}

	return &n, nil
}

func (r *repository) ListForUser(
	ctx context.Context,
	userID string,
) ([]Notification, error) {
	query := `
		SELECT id, user_id, message, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC`

	ns := []Notification{}
	if err := r.db.SelectContext(ctx, &ns, query, userID); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return ns, nil
}

func (r *repository) MarkRead(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("mark read: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) CountUnread(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND NOT is_read`, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return n, nil
}
