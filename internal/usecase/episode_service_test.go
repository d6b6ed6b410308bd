package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tribalcouncil/fantasy-survivor/internal/platform/lockclock"
)

func (f *leagueFixture) episodeService(now time.Time) *EpisodeService {
	s := NewEpisodeService(f.leagueRepo, f.episodeRepo, discardLogger())
	s.now = func() time.Time { return now }
	return s
}

func TestEpisodeService_Create_DerivesLockFromAirDate(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.episodeService(mondayBefore)
	ctx := context.Background()

	if _, err := svc.Create(ctx, f.alice, CreateEpisodeInput{LeagueID: f.league.ID, Number: 2, AirDate: episodeAir}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("player create: expected ErrForbidden, got %v", err)
	}

	// Episode 2 airs the Thursday evening after the Wednesday lock.
	thursdayAir := time.Date(2026, time.March, 13, 1, 0, 0, 0, time.UTC) // Thu 2026-03-12 21:00 EDT
	created, err := svc.Create(ctx, f.admin, CreateEpisodeInput{
		LeagueID: f.league.ID,
		Number:   2,
		Title:    "Blindside",
		AirDate:  thursdayAir,
	})
	if err != nil {
		t.Fatalf("create episode: %v", err)
	}

	wantLock := lockclock.LockTimeForWeek(thursdayAir)
	if !created.LockAt.Equal(wantLock) {
		t.Fatalf("unexpected lock: got %v want %v", created.LockAt, wantLock)
	}
	if !created.LockAt.Before(thursdayAir) {
		t.Fatal("a Thursday airing must lock the Wednesday before it")
	}
}

func TestEpisodeService_Create_UnknownLeague(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.episodeService(mondayBefore)

	_, err := svc.Create(context.Background(), f.admin, CreateEpisodeInput{
		LeagueID: f.league.ID + 50,
		Number:   1,
		AirDate:  episodeAir,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestEpisodeService_Status(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	ctx := context.Background()

	open, err := f.episodeService(mondayBefore).Status(ctx, f.league.ID)
	if err != nil {
		t.Fatalf("status before lock: %v", err)
	}
	if open.Locked {
		t.Fatal("expected unlocked before the deadline")
	}
	if open.CurrentLockAt == nil || !open.CurrentLockAt.Equal(f.episode.LockAt) {
		t.Fatalf("unexpected current lock: %v", open.CurrentLockAt)
	}
	if !open.NextLockAt.Equal(f.episode.LockAt) {
		t.Fatalf("next lock should come from the schedule, got %v", open.NextLockAt)
	}

	closed, err := f.episodeService(thursdayAfter).Status(ctx, f.league.ID)
	if err != nil {
		t.Fatalf("status after lock: %v", err)
	}
	if !closed.Locked {
		t.Fatal("expected locked after the deadline")
	}
	// No future episode scheduled: the next deadline falls back to the
	// weekly rule.
	if !closed.NextLockAt.Equal(lockclock.NextLockTime(thursdayAfter)) {
		t.Fatalf("unexpected fallback next lock: %v", closed.NextLockAt)
	}
}
