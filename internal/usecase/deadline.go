package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/episode"
	"github.com/tribalcouncil/fantasy-survivor/internal/platform/lockclock"
)

// DeadlinePolicy selects which episode's lock governs a write.
type DeadlinePolicy int

const (
	// DeadlineMostRecent gates on the latest episode by air date.
	// Roster moves use it; vote allocations are gated per episode
	// instead, on the target episode's own lock.
	DeadlineMostRecent DeadlinePolicy = iota
	// DeadlineNearestFuture gates on the next unexpired lock. Winner
	// picks and the whole trade lifecycle use it.
	DeadlineNearestFuture
)

// deadlineGate resolves and enforces the governing lock for every
// deadline-gated write. All call sites go through it; none re-derive
// lock times on their own.
type deadlineGate struct {
	episodeRepo episode.Repository
}

// governingLock returns the lock instant for the policy, or ok=false
// when no episode governs (a league with no episodes is unlocked).
func (g deadlineGate) governingLock(ctx context.Context, leagueID int64, policy DeadlinePolicy, now time.Time) (time.Time, bool, error) {
	switch policy {
	case DeadlineMostRecent:
		ep, ok, err := g.episodeRepo.LatestByAirDate(ctx, leagueID)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("latest episode: %w", err)
		}
		if !ok {
			return time.Time{}, false, nil
		}
		return ep.LockAt, true, nil
	case DeadlineNearestFuture:
		ep, ok, err := g.episodeRepo.NextLockAfter(ctx, leagueID, now)
		if err != nil {
			return time.Time{}, false, fmt.Errorf("next lock: %w", err)
		}
		if !ok {
			return time.Time{}, false, nil
		}
		return ep.LockAt, true, nil
	default:
		return time.Time{}, false, fmt.Errorf("%w: unknown deadline policy %d", ErrInvalidInput, policy)
	}
}

// require returns ErrLocked when the governing deadline has passed.
func (g deadlineGate) require(ctx context.Context, leagueID int64, policy DeadlinePolicy, now time.Time) error {
	lockAt, ok, err := g.governingLock(ctx, leagueID, policy, now)
	if err != nil {
		return err
	}
	if ok && lockclock.IsLocked(lockAt, now) {
		return fmt.Errorf("%w: locked since %s", ErrLocked, lockAt.Format(time.RFC3339))
	}

	return nil
}
