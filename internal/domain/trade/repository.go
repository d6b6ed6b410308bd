package trade

import (
	"context"
	"errors"
	"time"
)

// ErrOwnershipChanged aborts a settlement because a traded contestant is
// no longer on the giving user's roster. The trade stays proposed.
var ErrOwnershipChanged = errors.New("contestant ownership changed since proposal")

// Repository describes trade persistence needs from use cases.
type Repository interface {
	Create(ctx context.Context, t Trade) (Trade, error)
	GetByID(ctx context.Context, tradeID int64) (Trade, bool, error)
	ListByLeagueForUser(ctx context.Context, leagueID, userID int64) ([]Trade, error)
	UpdateStatus(ctx context.Context, tradeID int64, status Status, updatedAt time.Time) error

	// Settle executes an accepted trade atomically: every contestant
	// item moves rosters after re-validating current ownership, every
	// points item appends a balanced ledger pair, and the status flips
	// to accepted. Any failure rolls the whole settlement back;
	// ownership mismatches surface as ErrOwnershipChanged.
	Settle(ctx context.Context, t Trade, settledAt time.Time) error
}
