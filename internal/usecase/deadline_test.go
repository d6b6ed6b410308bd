package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/trade"
)

// Roster moves gate on the most recent episode's lock, the trade
// lifecycle on the nearest future lock. Once the only scheduled lock
// has passed the two policies disagree: rosters are frozen while trades
// stay open because no future lock governs them.
func TestDeadlinePolicies_DivergeAfterLastLock(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	ctx := context.Background()

	_, err := f.rosterService(thursdayAfter).AddContestant(ctx, f.alice, f.league.ID, f.alice.UserID, f.contestants[4].ID)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("roster add after lock: expected ErrLocked, got %v", err)
	}

	proposed, err := f.tradeService(thursdayAfter).Propose(ctx, f.alice, ProposeTradeInput{
		LeagueID:   f.league.ID,
		AcceptorID: f.bob.UserID,
		Items:      []trade.Item{contestantItem(trade.SideFromProposer, f.contestants[0].ID)},
	})
	if err != nil {
		t.Fatalf("trade propose after lock: %v", err)
	}
	if _, err := f.tradeService(thursdayAfter).Accept(ctx, f.bob, proposed.ID); err != nil {
		t.Fatalf("trade accept after lock: %v", err)
	}
}

func TestDeadlineGate_NoEpisodesMeansUnlocked(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	gate := deadlineGate{episodeRepo: f.episodeRepo}
	ctx := context.Background()

	// A second league with no episodes yet.
	emptyLeagueID := f.league.ID + 1

	for _, policy := range []DeadlinePolicy{DeadlineMostRecent, DeadlineNearestFuture} {
		if err := gate.require(ctx, emptyLeagueID, policy, thursdayAfter); err != nil {
			t.Fatalf("policy %d on empty league: %v", policy, err)
		}
	}
}

func TestDeadlineGate_MostRecentLocksAtTheBoundary(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	gate := deadlineGate{episodeRepo: f.episodeRepo}
	ctx := context.Background()

	if err := gate.require(ctx, f.league.ID, DeadlineMostRecent, f.episode.LockAt.Add(-1)); err != nil {
		t.Fatalf("one nanosecond before lock: %v", err)
	}
	if err := gate.require(ctx, f.league.ID, DeadlineMostRecent, f.episode.LockAt); !errors.Is(err, ErrLocked) {
		t.Fatalf("at the lock instant: expected ErrLocked, got %v", err)
	}
}

func TestDeadlineGate_UnknownPolicyRejected(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	gate := deadlineGate{episodeRepo: f.episodeRepo}

	err := gate.require(context.Background(), f.league.ID, DeadlinePolicy(99), mondayBefore)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
