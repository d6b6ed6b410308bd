package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/ledger"
)

func TestLeaderboardService_Standings_RecomputedFromLedger(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := NewLeaderboardService(f.ledgerRepo, discardLogger())
	ctx := context.Background()

	seed := []ledger.Transaction{
		{LeagueID: f.league.ID, UserID: f.alice.UserID, Amount: 5, Reason: ledger.ReasonTrade, CreatedAt: mondayBefore},
		{LeagueID: f.league.ID, UserID: f.alice.UserID, Amount: 18, Reason: ledger.ReasonVotePrediction, CreatedAt: mondayBefore},
		{LeagueID: f.league.ID, UserID: f.bob.UserID, Amount: -5, Reason: ledger.ReasonTrade, CreatedAt: mondayBefore},
	}
	for _, tx := range seed {
		if _, err := f.ledgerRepo.Append(ctx, tx); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	rows, err := svc.Standings(ctx, f.league.ID)
	if err != nil {
		t.Fatalf("standings: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("unexpected row count: %d", len(rows))
	}
	if rows[0].UserID != f.alice.UserID || rows[0].Total != 23 {
		t.Fatalf("unexpected leader: %+v", rows[0])
	}
	if rows[0].Breakdown[ledger.ReasonTrade] != 5 || rows[0].Breakdown[ledger.ReasonVotePrediction] != 18 {
		t.Fatalf("unexpected breakdown: %+v", rows[0].Breakdown)
	}
	if rows[1].UserID != f.bob.UserID || rows[1].Total != -5 {
		t.Fatalf("unexpected runner-up: %+v", rows[1])
	}
}

func TestLeaderboardService_History(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := NewLeaderboardService(f.ledgerRepo, discardLogger())
	ctx := context.Background()

	if _, err := f.ledgerRepo.Append(ctx, ledger.Transaction{
		LeagueID: f.league.ID, UserID: f.alice.UserID, Amount: 5, Reason: ledger.ReasonTrade, CreatedAt: mondayBefore,
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	txs, err := svc.History(ctx, f.league.ID, f.alice.UserID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(txs) != 1 || txs[0].Amount != 5 {
		t.Fatalf("unexpected history: %+v", txs)
	}

	if _, err := svc.History(ctx, 0, f.alice.UserID); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
