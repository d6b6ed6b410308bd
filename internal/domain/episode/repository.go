package episode

import (
	"context"
	"time"
)

// Repository describes episode persistence needs from use cases.
type Repository interface {
	ListByLeague(ctx context.Context, leagueID int64) ([]Episode, error)
	GetByID(ctx context.Context, episodeID int64) (Episode, bool, error)
	Create(ctx context.Context, e Episode) (Episode, error)

	// LatestByAirDate returns the league's most recently created airing
	// by air date, future episodes included.
	LatestByAirDate(ctx context.Context, leagueID int64) (Episode, bool, error)
	// NextLockAfter returns the episode with the smallest LockAt
	// strictly after now.
	NextLockAfter(ctx context.Context, leagueID int64, now time.Time) (Episode, bool, error)
}
