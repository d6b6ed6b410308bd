package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/contestant"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/episode"
	"github.com/tribalcouncil/fantasy-survivor/internal/platform/lockclock"
)

func TestPredictionService_PutVotes_SpendsWholeBudget(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.predictionService(mondayBefore)
	ctx := context.Background()

	_, err := svc.PutVotes(ctx, f.alice, f.league.ID, f.alice.UserID, f.episode.ID, []VoteInput{
		{ContestantID: f.contestants[0].ID, Votes: 6},
		{ContestantID: f.contestants[1].ID, Votes: 3},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("nine votes: expected ErrInvalidInput, got %v", err)
	}

	_, err = svc.PutVotes(ctx, f.alice, f.league.ID, f.alice.UserID, f.episode.ID, []VoteInput{
		{ContestantID: f.contestants[0].ID, Votes: 6},
		{ContestantID: f.contestants[1].ID, Votes: 5},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("eleven votes: expected ErrInvalidInput, got %v", err)
	}
}

func TestPredictionService_PutVotes_DropsZeroRows(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.predictionService(mondayBefore)
	ctx := context.Background()

	saved, err := svc.PutVotes(ctx, f.alice, f.league.ID, f.alice.UserID, f.episode.ID, []VoteInput{
		{ContestantID: f.contestants[0].ID, Votes: 10},
		{ContestantID: f.contestants[1].ID, Votes: 0},
	})
	if err != nil {
		t.Fatalf("put votes: %v", err)
	}
	if len(saved) != 1 {
		t.Fatalf("expected the zero row to be elided, got %d rows", len(saved))
	}
	if saved[0].ContestantID != f.contestants[0].ID || saved[0].Votes != 10 {
		t.Fatalf("unexpected allocation: %+v", saved[0])
	}
}

func TestPredictionService_PutVotes_ReplacesPreviousAllocation(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.predictionService(mondayBefore)
	ctx := context.Background()

	_, err := svc.PutVotes(ctx, f.alice, f.league.ID, f.alice.UserID, f.episode.ID, []VoteInput{
		{ContestantID: f.contestants[0].ID, Votes: 7},
		{ContestantID: f.contestants[1].ID, Votes: 3},
	})
	if err != nil {
		t.Fatalf("first put: %v", err)
	}

	_, err = svc.PutVotes(ctx, f.alice, f.league.ID, f.alice.UserID, f.episode.ID, []VoteInput{
		{ContestantID: f.contestants[2].ID, Votes: 10},
	})
	if err != nil {
		t.Fatalf("second put: %v", err)
	}

	view, err := svc.GetVotes(ctx, f.league.ID, f.alice.UserID, f.episode.ID)
	if err != nil {
		t.Fatalf("get votes: %v", err)
	}
	if len(view.Allocations) != 1 || view.Allocations[0].ContestantID != f.contestants[2].ID {
		t.Fatalf("expected a full replacement, got %+v", view.Allocations)
	}
}

func TestPredictionService_PutVotes_LockedAfterDeadline(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	ctx := context.Background()

	_, err := f.predictionService(thursdayAfter).PutVotes(ctx, f.alice, f.league.ID, f.alice.UserID, f.episode.ID, []VoteInput{
		{ContestantID: f.contestants[0].ID, Votes: 10},
	})
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestPredictionService_PutVotes_GatedByTargetEpisodeLock(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	ctx := context.Background()

	// Episode 2 airs the following Wednesday, so between the two locks
	// episode 1 is frozen while episode 2 is still open.
	nextAir := episodeAir.AddDate(0, 0, 7)
	ep2, err := f.episodeRepo.Create(ctx, episode.Episode{
		LeagueID:  f.league.ID,
		Number:    2,
		Title:     "Blindside",
		AirDate:   nextAir,
		LockAt:    lockclock.LockTimeForWeek(nextAir),
		CreatedAt: mondayBefore,
	})
	if err != nil {
		t.Fatalf("create episode 2: %v", err)
	}

	svc := f.predictionService(thursdayAfter)

	_, err = svc.PutVotes(ctx, f.alice, f.league.ID, f.alice.UserID, f.episode.ID, []VoteInput{
		{ContestantID: f.contestants[0].ID, Votes: 10},
	})
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("aired episode: expected ErrLocked, got %v", err)
	}

	saved, err := svc.PutVotes(ctx, f.alice, f.league.ID, f.alice.UserID, ep2.ID, []VoteInput{
		{ContestantID: f.contestants[0].ID, Votes: 10},
	})
	if err != nil {
		t.Fatalf("open episode: %v", err)
	}
	if len(saved) != 1 || saved[0].EpisodeID != ep2.ID {
		t.Fatalf("unexpected allocation: %+v", saved)
	}
}

func TestPredictionService_GetVotes_ReportsLockState(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	ctx := context.Background()

	open, err := f.predictionService(mondayBefore).GetVotes(ctx, f.league.ID, f.alice.UserID, f.episode.ID)
	if err != nil {
		t.Fatalf("get votes before lock: %v", err)
	}
	if open.Locked || !open.LockAt.Equal(f.episode.LockAt) {
		t.Fatalf("expected open episode with its lock time, got %+v", open)
	}

	closed, err := f.predictionService(thursdayAfter).GetVotes(ctx, f.league.ID, f.alice.UserID, f.episode.ID)
	if err != nil {
		t.Fatalf("get votes after lock: %v", err)
	}
	if !closed.Locked {
		t.Fatal("expected the aired episode to report locked")
	}

	_, err = f.predictionService(mondayBefore).GetVotes(ctx, f.league.ID, f.alice.UserID, f.episode.ID+50)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown episode: expected ErrNotFound, got %v", err)
	}
}

func TestPredictionService_PutVotes_UnknownEpisode(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.predictionService(mondayBefore)

	_, err := svc.PutVotes(context.Background(), f.alice, f.league.ID, f.alice.UserID, f.episode.ID+50, []VoteInput{
		{ContestantID: f.contestants[0].ID, Votes: 10},
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPredictionService_SetWinnerPick_Upserts(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.predictionService(mondayBefore)
	ctx := context.Background()

	if _, err := svc.SetWinnerPick(ctx, f.alice, f.league.ID, f.alice.UserID, f.contestants[0].ID); err != nil {
		t.Fatalf("first pick: %v", err)
	}
	if _, err := svc.SetWinnerPick(ctx, f.alice, f.league.ID, f.alice.UserID, f.contestants[1].ID); err != nil {
		t.Fatalf("second pick: %v", err)
	}

	pick, found, err := svc.GetWinnerPick(ctx, f.league.ID, f.alice.UserID)
	if err != nil {
		t.Fatalf("get pick: %v", err)
	}
	if !found {
		t.Fatal("expected a stored pick")
	}
	if pick.ContestantID != f.contestants[1].ID {
		t.Fatalf("expected the pick to be replaced, got contestant %d", pick.ContestantID)
	}
}

func TestPredictionService_SetWinnerPick_RejectsEliminated(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.predictionService(mondayBefore)
	ctx := context.Background()

	gone := f.contestants[0]
	gone.Status = contestant.StatusEliminated
	gone.EliminatedEpisodeID = &f.episode.ID
	if err := f.contestantRepo.Update(ctx, gone); err != nil {
		t.Fatalf("update contestant: %v", err)
	}

	_, err := svc.SetWinnerPick(ctx, f.alice, f.league.ID, f.alice.UserID, gone.ID)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPredictionService_WriteAuthorization(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.predictionService(mondayBefore)
	ctx := context.Background()

	_, err := svc.SetWinnerPick(ctx, f.alice, f.league.ID, f.bob.UserID, f.contestants[0].ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("peer pick: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.SetWinnerPick(ctx, f.admin, f.league.ID, f.bob.UserID, f.contestants[0].ID); err != nil {
		t.Fatalf("admin pick for member: %v", err)
	}
}
