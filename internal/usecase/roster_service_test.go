package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/contestant"
)

func TestRosterService_AddContestant(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.rosterService(mondayBefore)
	ctx := context.Background()

	entry, err := svc.AddContestant(ctx, f.alice, f.league.ID, f.alice.UserID, f.contestants[4].ID)
	if err != nil {
		t.Fatalf("add contestant: %v", err)
	}
	if entry.ID == 0 {
		t.Fatal("expected an assigned entry id")
	}
	if !f.rosterOf(t, f.alice.UserID)[f.contestants[4].ID] {
		t.Fatal("contestant missing from roster after add")
	}
}

func TestRosterService_AddContestant_ExclusivePerLeague(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.rosterService(mondayBefore)
	ctx := context.Background()

	// Tony already sits on Bob's roster.
	_, err := svc.AddContestant(ctx, f.alice, f.league.ID, f.alice.UserID, f.contestants[2].ID)
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestRosterService_AddContestant_MaxSize(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.rosterService(mondayBefore)
	ctx := context.Background()

	if _, err := svc.AddContestant(ctx, f.alice, f.league.ID, f.alice.UserID, f.contestants[4].ID); err != nil {
		t.Fatalf("third contestant: %v", err)
	}
	_, err := svc.AddContestant(ctx, f.alice, f.league.ID, f.alice.UserID, f.contestants[5].ID)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("fourth contestant: expected ErrInvalidInput, got %v", err)
	}
}

func TestRosterService_AddContestant_RejectsEliminated(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.rosterService(mondayBefore)
	ctx := context.Background()

	gone := f.contestants[4]
	gone.Status = contestant.StatusEliminated
	gone.EliminatedEpisodeID = &f.episode.ID
	if err := f.contestantRepo.Update(ctx, gone); err != nil {
		t.Fatalf("update contestant: %v", err)
	}

	_, err := svc.AddContestant(ctx, f.alice, f.league.ID, f.alice.UserID, gone.ID)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRosterService_RemoveContestant_MinSize(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.rosterService(mondayBefore)
	ctx := context.Background()

	err := svc.RemoveContestant(ctx, f.alice, f.league.ID, f.alice.UserID, f.contestants[0].ID)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("remove at floor: expected ErrInvalidInput, got %v", err)
	}

	if _, err := svc.AddContestant(ctx, f.alice, f.league.ID, f.alice.UserID, f.contestants[4].ID); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.RemoveContestant(ctx, f.alice, f.league.ID, f.alice.UserID, f.contestants[0].ID); err != nil {
		t.Fatalf("remove above floor: %v", err)
	}
	if f.rosterOf(t, f.alice.UserID)[f.contestants[0].ID] {
		t.Fatal("contestant still on roster after remove")
	}
}

func TestRosterService_WriteAuthorization(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.rosterService(mondayBefore)
	ctx := context.Background()

	_, err := svc.AddContestant(ctx, f.alice, f.league.ID, f.bob.UserID, f.contestants[4].ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("peer write: expected ErrForbidden, got %v", err)
	}

	if _, err := svc.AddContestant(ctx, f.admin, f.league.ID, f.bob.UserID, f.contestants[4].ID); err != nil {
		t.Fatalf("admin write for member: %v", err)
	}

	// Admins still cannot build rosters for non-members.
	_, err = svc.AddContestant(ctx, f.admin, f.league.ID, f.admin.UserID, f.contestants[5].ID)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-member target: expected ErrForbidden, got %v", err)
	}
}

func TestRosterService_AddContestant_LockedAfterDeadline(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	ctx := context.Background()

	_, err := f.rosterService(thursdayAfter).AddContestant(ctx, f.alice, f.league.ID, f.alice.UserID, f.contestants[4].ID)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if err := f.rosterService(thursdayAfter).RemoveContestant(ctx, f.alice, f.league.ID, f.alice.UserID, f.contestants[0].ID); !errors.Is(err, ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
}

func TestRosterService_GetRoster_ReportsLockState(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	ctx := context.Background()

	open, err := f.rosterService(mondayBefore).GetRoster(ctx, f.league.ID, f.alice.UserID)
	if err != nil {
		t.Fatalf("get roster: %v", err)
	}
	if open.Locked {
		t.Fatal("expected unlocked view before the deadline")
	}
	if open.LockAt == nil || !open.LockAt.Equal(f.episode.LockAt) {
		t.Fatalf("unexpected lockAt: %v", open.LockAt)
	}
	if len(open.Entries) != 2 {
		t.Fatalf("unexpected entry count: %d", len(open.Entries))
	}

	closed, err := f.rosterService(thursdayAfter).GetRoster(ctx, f.league.ID, f.alice.UserID)
	if err != nil {
		t.Fatalf("get roster: %v", err)
	}
	if !closed.Locked {
		t.Fatal("expected locked view after the deadline")
	}
}
