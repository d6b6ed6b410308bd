package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/ledger"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/scoring"
)

func TestScoringService_UpdateRule_AdminOnly(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.scoringService(mondayBefore)
	ctx := context.Background()

	_, err := svc.UpdateRule(ctx, f.alice, f.league.ID, scoring.ActionIdolFound, 5)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("player update: expected ErrForbidden, got %v", err)
	}

	rule, err := svc.UpdateRule(ctx, f.admin, f.league.ID, scoring.ActionIdolFound, 5)
	if err != nil {
		t.Fatalf("admin update: %v", err)
	}
	if rule.Points != 5 {
		t.Fatalf("unexpected points: %v", rule.Points)
	}

	// Upsert, not insert: a second write replaces the value.
	updated, err := svc.UpdateRule(ctx, f.admin, f.league.ID, scoring.ActionIdolFound, 7)
	if err != nil {
		t.Fatalf("second update: %v", err)
	}
	if updated.Points != 7 {
		t.Fatalf("unexpected points after upsert: %v", updated.Points)
	}
}

func TestScoringService_CreateEvent_CreditsCurrentOwner(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.scoringService(mondayBefore)
	ctx := context.Background()

	_, err := svc.UpdateRule(ctx, f.admin, f.league.ID, scoring.ActionIdolFound, 5)
	require.NoError(t, err)

	rob := f.contestants[0].ID
	ev, err := svc.CreateEvent(ctx, f.admin, CreateScoringEventInput{
		LeagueID:     f.league.ID,
		EpisodeID:    f.episode.ID,
		ActionType:   scoring.ActionIdolFound,
		ContestantID: &rob,
	})
	require.NoError(t, err)
	require.NotZero(t, ev.ID)

	txs, err := f.ledgerRepo.ListByUser(ctx, f.league.ID, f.alice.UserID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, float64(5), txs[0].Amount)
	require.Equal(t, ledger.ReasonScoringEvent, txs[0].Reason)
	require.NotNil(t, txs[0].ReferenceID)
	require.Equal(t, ev.ID, *txs[0].ReferenceID)
}

func TestScoringService_CreateEvent_UnownedContestantScoresNobody(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.scoringService(mondayBefore)
	ctx := context.Background()

	if _, err := svc.UpdateRule(ctx, f.admin, f.league.ID, scoring.ActionIdolFound, 5); err != nil {
		t.Fatalf("update rule: %v", err)
	}

	freeAgent := f.contestants[4].ID
	if _, err := svc.CreateEvent(ctx, f.admin, CreateScoringEventInput{
		LeagueID:     f.league.ID,
		EpisodeID:    f.episode.ID,
		ActionType:   scoring.ActionIdolFound,
		ContestantID: &freeAgent,
	}); err != nil {
		t.Fatalf("create event: %v", err)
	}

	txs, err := f.ledgerRepo.ListByLeague(ctx, f.league.ID)
	if err != nil {
		t.Fatalf("list ledger: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("expected no ledger rows, got %d", len(txs))
	}
}

func TestScoringService_CreateEvent_AdminOnlyAndEpisodeScoped(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.scoringService(mondayBefore)
	ctx := context.Background()

	input := CreateScoringEventInput{
		LeagueID:   f.league.ID,
		EpisodeID:  f.episode.ID,
		ActionType: scoring.ActionSurvivedTribal,
	}

	if _, err := svc.CreateEvent(ctx, f.alice, input); !errors.Is(err, ErrForbidden) {
		t.Fatalf("player event: expected ErrForbidden, got %v", err)
	}

	input.EpisodeID = f.episode.ID + 50
	if _, err := svc.CreateEvent(ctx, f.admin, input); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown episode: expected ErrNotFound, got %v", err)
	}
}

func TestScoringService_ApplyVotePoints(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	ctx := context.Background()
	scoringSvc := f.scoringService(mondayBefore)
	predictionSvc := f.predictionService(mondayBefore)

	_, err := scoringSvc.UpdateRule(ctx, f.admin, f.league.ID, scoring.ActionVoteCorrect, 3)
	require.NoError(t, err)

	rob := f.contestants[0].ID
	_, err = predictionSvc.PutVotes(ctx, f.alice, f.league.ID, f.alice.UserID, f.episode.ID, []VoteInput{
		{ContestantID: rob, Votes: 6},
		{ContestantID: f.contestants[1].ID, Votes: 4},
	})
	require.NoError(t, err)
	_, err = predictionSvc.PutVotes(ctx, f.bob, f.league.ID, f.bob.UserID, f.episode.ID, []VoteInput{
		{ContestantID: f.contestants[1].ID, Votes: 10},
	})
	require.NoError(t, err)

	paid, err := scoringSvc.ApplyVotePoints(ctx, f.admin, f.league.ID, f.episode.ID, rob)
	require.NoError(t, err)
	require.Equal(t, 1, paid, "only alice put votes on rob")

	txs, err := f.ledgerRepo.ListByUser(ctx, f.league.ID, f.alice.UserID)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	require.Equal(t, float64(18), txs[0].Amount, "6 correct votes at 3 points each")
	require.Equal(t, ledger.ReasonVotePrediction, txs[0].Reason)

	bobTxs, err := f.ledgerRepo.ListByUser(ctx, f.league.ID, f.bob.UserID)
	require.NoError(t, err)
	require.Empty(t, bobTxs)
}

func TestScoringService_ApplyVotePoints_Preconditions(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.scoringService(mondayBefore)
	ctx := context.Background()

	if _, err := svc.ApplyVotePoints(ctx, f.alice, f.league.ID, f.episode.ID, f.contestants[0].ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("player apply: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.ApplyVotePoints(ctx, f.admin, f.league.ID, f.episode.ID, f.contestants[0].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing rule: expected ErrNotFound, got %v", err)
	}
}
