// AngelaMos | 2026
// repository.go

package download

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/soundvault/internal/core"
	"github.com/carterperez-dev/soundvault/internal/entitlement"
)

// Repository reads and writes the entitlement columns of a user row.
type Repository interface {
	// WithLockedEntitlement loads the user's state under a row lock,
	// passes it to fn and persists whatever fn returns before the lock is
	// released. An error from fn aborts without writing.
	WithLockedEntitlement(
		ctx context.Context,
		userID string,
		fn func(entitlement.State) (entitlement.State, error),
	) error
	GetEntitlement(ctx context.Context, userID string) (entitlement.State, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

type entitlementRow struct {
	DailyDownloads   int        `db:"daily_downloads"`
	SoundsDownloaded int        `db:"sounds_downloaded"`
	LastDownloadAt   *time.Time `db:"last_download_at"`
	Subscribed       bool       `db:"subscribed"`
}

func (r entitlementRow) state() entitlement.State {
	return entitlement.State{
		DailyDownloads: r.DailyDownloads,
		TotalDownloads: r.SoundsDownloaded,
		LastDownload:   r.LastDownloadAt,
		Subscribed:     r.Subscribed,
	}
}

const entitlementColumns = `daily_downloads, sounds_downloaded, last_download_at, subscribed`

func (r *repository) WithLockedEntitlement(
	ctx context.Context,
	userID string,
	fn func(entitlement.State) (entitlement.State, error),
) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var row entitlementRow
		err := tx.GetContext(ctx, &row,
			`SELECT `+entitlementColumns+` FROM users WHERE id = $1 FOR UPDATE`,
			userID,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("lock entitlement: %w", core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("lock entitlement: %w", err)
		}

		next, err := fn(row.state())
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE users
			SET daily_downloads = $2,
			    sounds_downloaded = $3,
			    last_download_at = $4,
			    updated_at = NOW()
			WHERE id = $1`,
			userID,
			next.DailyDownloads,
			next.TotalDownloads,
			next.LastDownload,
		)
		if err != nil {
			return fmt.Errorf("save entitlement: %w", err)
		}

		return nil
	})
}

func (r *repository) GetEntitlement(
	ctx context.Context,
	userID string,
) (entitlement.State, error) {
	var row entitlementRow
	err := r.db.GetContext(ctx, &row,
		`SELECT `+entitlementColumns+` FROM users WHERE id = $1`,
		userID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return entitlement.State{}, fmt.Errorf("get entitlement: %w", core.ErrNotFound)
	}
	if err != nil {
		return entitlement.State{}, fmt.Errorf("get entitlement: %w", err)
	}

	return row.state(), nil
}
