package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/scoring"
	"github.com/tribalcouncil/fantasy-survivor/internal/platform/invite"
)

func (f *leagueFixture) leagueService(now time.Time) *LeagueService {
	s := NewLeagueService(f.leagueRepo, f.scoringRepo, f.userRepo, invite.NewGenerator(), discardLogger())
	s.now = func() time.Time { return now }
	return s
}

func TestLeagueService_Create_SeedsRulesAndMembership(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.leagueService(mondayBefore)
	ctx := context.Background()

	if _, err := svc.Create(ctx, f.alice, CreateLeagueInput{Name: "Second Chance"}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("player create: expected ErrForbidden, got %v", err)
	}

	created, err := svc.Create(ctx, f.admin, CreateLeagueInput{Name: "Second Chance", SeasonName: "S47"})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	if created.InviteCode == "" {
		t.Fatal("expected a generated invite code")
	}

	rules, err := f.scoringRepo.ListRules(ctx, created.ID)
	if err != nil {
		t.Fatalf("list rules: %v", err)
	}
	if len(rules) != len(scoring.DefaultRules(created.ID)) {
		t.Fatalf("expected the default rule set, got %d rules", len(rules))
	}

	member, err := f.leagueRepo.IsMember(ctx, created.ID, f.admin.UserID)
	if err != nil {
		t.Fatalf("is member: %v", err)
	}
	if !member {
		t.Fatal("creator must be enrolled on create")
	}
}

func TestLeagueService_Join_ByInviteCode(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.leagueService(mondayBefore)
	ctx := context.Background()
	outsider := f.createUser(t, "coach", "player", false)

	joined, err := svc.Join(ctx, outsider, "  tribal1 ")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if joined.ID != f.league.ID {
		t.Fatalf("joined the wrong league: %d", joined.ID)
	}

	// Joining again is a no-op, not an error.
	if _, err := svc.Join(ctx, outsider, "TRIBAL1"); err != nil {
		t.Fatalf("rejoin: %v", err)
	}

	if _, err := svc.Join(ctx, outsider, "NOTACODE"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("bad code: expected ErrNotFound, got %v", err)
	}
}

func TestLeagueService_AddMember_AdminOnly(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.leagueService(mondayBefore)
	ctx := context.Background()
	outsider := f.createUser(t, "coach", "player", false)

	if err := svc.AddMember(ctx, f.alice, f.league.ID, outsider.UserID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("player add: expected ErrForbidden, got %v", err)
	}
	if err := svc.AddMember(ctx, f.admin, f.league.ID, outsider.UserID); err != nil {
		t.Fatalf("admin add: %v", err)
	}
	if err := svc.AddMember(ctx, f.admin, f.league.ID, 999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown user: expected ErrNotFound, got %v", err)
	}
}

func TestLeagueService_ListUsers_AdminOnly(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := f.leagueService(mondayBefore)
	ctx := context.Background()

	if _, err := svc.ListUsers(ctx, f.alice); !errors.Is(err, ErrForbidden) {
		t.Fatalf("player list: expected ErrForbidden, got %v", err)
	}
	users, err := svc.ListUsers(ctx, f.admin)
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if len(users) != 3 {
		t.Fatalf("unexpected user count: %d", len(users))
	}
}
