package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/ledger"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/trade"
)

func TestTradeService_Propose_CreatesProposedSnapshot(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.tradeService(mondayBefore)

	created, err := svc.Propose(context.Background(), f.alice, ProposeTradeInput{
		LeagueID:   f.league.ID,
		AcceptorID: f.bob.UserID,
		Note:       "Rob for Tony",
		Items: []trade.Item{
			contestantItem(trade.SideFromProposer, f.contestants[0].ID),
			contestantItem(trade.SideFromAcceptor, f.contestants[2].ID),
		},
	})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if created.ID == 0 {
		t.Fatal("expected an assigned trade id")
	}
	if created.Status != trade.StatusProposed {
		t.Fatalf("unexpected status: %s", created.Status)
	}
	for _, item := range created.Items {
		if item.TradeID != created.ID {
			t.Fatalf("item %d not bound to trade %d", item.ID, created.ID)
		}
	}
}

func TestTradeService_Propose_RejectsNonMembers(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.tradeService(mondayBefore)

	_, err := svc.Propose(context.Background(), f.alice, ProposeTradeInput{
		LeagueID:   f.league.ID,
		AcceptorID: 999,
		Items:      []trade.Item{contestantItem(trade.SideFromProposer, f.contestants[0].ID)},
	})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestTradeService_Propose_RejectsSelfTrade(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.tradeService(mondayBefore)

	_, err := svc.Propose(context.Background(), f.alice, ProposeTradeInput{
		LeagueID:   f.league.ID,
		AcceptorID: f.alice.UserID,
		Items:      []trade.Item{contestantItem(trade.SideFromProposer, f.contestants[0].ID)},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestTradeService_Propose_RejectsNonPositiveContestantID(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.tradeService(mondayBefore)

	for _, id := range []int64{0, -7} {
		_, err := svc.Propose(context.Background(), f.alice, ProposeTradeInput{
			LeagueID:   f.league.ID,
			AcceptorID: f.bob.UserID,
			Items:      []trade.Item{contestantItem(trade.SideFromProposer, id)},
		})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("contestant id %d: expected ErrInvalidInput, got %v", id, err)
		}
	}
}

func TestTradeService_Propose_SkipsOwnershipCheck(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.tradeService(mondayBefore)

	// Alice offers Tony, whom she does not own. The proposal stands;
	// ownership is only re-validated at acceptance.
	created, err := svc.Propose(context.Background(), f.alice, ProposeTradeInput{
		LeagueID:   f.league.ID,
		AcceptorID: f.bob.UserID,
		Items:      []trade.Item{contestantItem(trade.SideFromProposer, f.contestants[2].ID)},
	})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if created.Status != trade.StatusProposed {
		t.Fatalf("unexpected status: %s", created.Status)
	}
}

func TestTradeService_Accept_SettlesSwapAndLedgerAtomically(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.tradeService(mondayBefore)
	ctx := context.Background()

	created, err := svc.Propose(ctx, f.alice, ProposeTradeInput{
		LeagueID:   f.league.ID,
		AcceptorID: f.bob.UserID,
		Items: []trade.Item{
			contestantItem(trade.SideFromProposer, f.contestants[0].ID),
			contestantItem(trade.SideFromAcceptor, f.contestants[2].ID),
			pointsItem(trade.SideFromAcceptor, 5),
		},
	})
	require.NoError(t, err)

	settled, err := svc.Accept(ctx, f.bob, created.ID)
	require.NoError(t, err)
	require.Equal(t, trade.StatusAccepted, settled.Status)

	aliceRoster := f.rosterOf(t, f.alice.UserID)
	bobRoster := f.rosterOf(t, f.bob.UserID)
	require.Equal(t, map[int64]bool{f.contestants[1].ID: true, f.contestants[2].ID: true}, aliceRoster)
	require.Equal(t, map[int64]bool{f.contestants[0].ID: true, f.contestants[3].ID: true}, bobRoster)

	txs, err := f.ledgerRepo.ListByLeague(ctx, f.league.ID)
	require.NoError(t, err)
	require.Len(t, txs, 2)

	var sum float64
	byUser := make(map[int64]float64)
	for _, tx := range txs {
		require.Equal(t, ledger.ReasonTrade, tx.Reason)
		require.NotNil(t, tx.ReferenceID)
		require.Equal(t, created.ID, *tx.ReferenceID)
		sum += tx.Amount
		byUser[tx.UserID] += tx.Amount
	}
	require.Zero(t, sum, "trade ledger legs must balance")
	require.Equal(t, float64(-5), byUser[f.bob.UserID])
	require.Equal(t, float64(5), byUser[f.alice.UserID])
}

func TestTradeService_Accept_OnlyAcceptorMayAccept(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.tradeService(mondayBefore)
	ctx := context.Background()

	created, err := svc.Propose(ctx, f.alice, ProposeTradeInput{
		LeagueID:   f.league.ID,
		AcceptorID: f.bob.UserID,
		Items:      []trade.Item{contestantItem(trade.SideFromProposer, f.contestants[0].ID)},
	})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	if _, err := svc.Accept(ctx, f.alice, created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for proposer, got %v", err)
	}
	if _, err := svc.Accept(ctx, f.admin, created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for admin, got %v", err)
	}
}

func TestTradeService_TerminalStatesRefuseTransitions(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.tradeService(mondayBefore)
	ctx := context.Background()

	created, err := svc.Propose(ctx, f.alice, ProposeTradeInput{
		LeagueID:   f.league.ID,
		AcceptorID: f.bob.UserID,
		Items:      []trade.Item{contestantItem(trade.SideFromProposer, f.contestants[0].ID)},
	})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if _, err := svc.Reject(ctx, f.bob, created.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}

	if _, err := svc.Accept(ctx, f.bob, created.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("accept after reject: expected ErrInvalidState, got %v", err)
	}
	if _, err := svc.Reject(ctx, f.bob, created.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("double reject: expected ErrInvalidState, got %v", err)
	}
	if _, err := svc.Cancel(ctx, f.alice, created.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("cancel after reject: expected ErrInvalidState, got %v", err)
	}
}

func TestTradeService_Accept_OwnershipRaceLeavesTradeProposed(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.tradeService(mondayBefore)
	ctx := context.Background()

	created, err := svc.Propose(ctx, f.alice, ProposeTradeInput{
		LeagueID:   f.league.ID,
		AcceptorID: f.bob.UserID,
		Items: []trade.Item{
			contestantItem(trade.SideFromProposer, f.contestants[0].ID),
			contestantItem(trade.SideFromAcceptor, f.contestants[2].ID),
		},
	})
	require.NoError(t, err)

	// Alice loses Rob between proposal and acceptance.
	removed, err := f.rosterRepo.Remove(ctx, f.league.ID, f.alice.UserID, f.contestants[0].ID)
	require.NoError(t, err)
	require.True(t, removed)

	_, err = svc.Accept(ctx, f.bob, created.ID)
	require.ErrorIs(t, err, ErrConflict)

	stored, found, err := f.tradeRepo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, trade.StatusProposed, stored.Status, "failed settlement must leave the trade retryable")

	require.Equal(t, map[int64]bool{f.contestants[2].ID: true, f.contestants[3].ID: true}, f.rosterOf(t, f.bob.UserID))
	txs, err := f.ledgerRepo.ListByLeague(ctx, f.league.ID)
	require.NoError(t, err)
	require.Empty(t, txs, "aborted settlement must write no ledger rows")
}

func TestTradeService_Accept_ConcurrentAcceptsSettleExactlyOnce(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.tradeService(mondayBefore)
	ctx := context.Background()

	created, err := svc.Propose(ctx, f.alice, ProposeTradeInput{
		LeagueID:   f.league.ID,
		AcceptorID: f.bob.UserID,
		Items: []trade.Item{
			contestantItem(trade.SideFromProposer, f.contestants[0].ID),
			pointsItem(trade.SideFromProposer, 3),
		},
	})
	require.NoError(t, err)

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Accept(ctx, f.bob, created.ID)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, ErrInvalidState), errors.Is(err, ErrConflict):
		default:
			t.Fatalf("unexpected accept error: %v", err)
		}
	}
	require.Equal(t, 1, succeeded, "exactly one accept must win")

	txs, err := f.ledgerRepo.ListByLeague(ctx, f.league.ID)
	require.NoError(t, err)
	require.Len(t, txs, 2, "the point transfer must be applied once")
}

func TestTradeService_Reject_AllowedAfterDeadline(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	ctx := context.Background()

	created, err := f.tradeService(mondayBefore).Propose(ctx, f.alice, ProposeTradeInput{
		LeagueID:   f.league.ID,
		AcceptorID: f.bob.UserID,
		Items:      []trade.Item{contestantItem(trade.SideFromProposer, f.contestants[0].ID)},
	})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	rejected, err := f.tradeService(thursdayAfter).Reject(ctx, f.bob, created.ID)
	if err != nil {
		t.Fatalf("reject after lock: %v", err)
	}
	if rejected.Status != trade.StatusRejected {
		t.Fatalf("unexpected status: %s", rejected.Status)
	}
}

func TestTradeService_Cancel_ProposerAndAdminOnly(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.tradeService(mondayBefore)
	ctx := context.Background()

	input := ProposeTradeInput{
		LeagueID:   f.league.ID,
		AcceptorID: f.bob.UserID,
		Items:      []trade.Item{contestantItem(trade.SideFromProposer, f.contestants[0].ID)},
	}

	first, err := svc.Propose(ctx, f.alice, input)
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if _, err := svc.Cancel(ctx, f.bob, first.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("acceptor cancel: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Cancel(ctx, f.alice, first.ID); err != nil {
		t.Fatalf("proposer cancel: %v", err)
	}

	second, err := svc.Propose(ctx, f.alice, input)
	if err != nil {
		t.Fatalf("propose again: %v", err)
	}
	canceled, err := svc.Cancel(ctx, f.admin, second.ID)
	if err != nil {
		t.Fatalf("admin cancel: %v", err)
	}
	if canceled.Status != trade.StatusCanceled {
		t.Fatalf("unexpected status: %s", canceled.Status)
	}
}

func TestTradeService_Get_VisibleToPartiesAndAdmins(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.tradeService(mondayBefore)
	ctx := context.Background()
	outsider := f.createUser(t, "russell", "player", true)

	created, err := svc.Propose(ctx, f.alice, ProposeTradeInput{
		LeagueID:   f.league.ID,
		AcceptorID: f.bob.UserID,
		Items:      []trade.Item{contestantItem(trade.SideFromProposer, f.contestants[0].ID)},
	})
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	if _, err := svc.Get(ctx, f.alice, created.ID); err != nil {
		t.Fatalf("proposer get: %v", err)
	}
	if _, err := svc.Get(ctx, f.bob, created.ID); err != nil {
		t.Fatalf("acceptor get: %v", err)
	}
	if _, err := svc.Get(ctx, f.admin, created.ID); err != nil {
		t.Fatalf("admin get: %v", err)
	}
	if _, err := svc.Get(ctx, outsider, created.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("outsider get: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.Get(ctx, f.alice, created.ID+100); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing trade: expected ErrNotFound, got %v", err)
	}
}
