package usecase

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/contestant"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/episode"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/league"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/roster"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/trade"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/user"
	"github.com/tribalcouncil/fantasy-survivor/internal/infrastructure/repository/memory"
	"github.com/tribalcouncil/fantasy-survivor/internal/platform/lockclock"
)

// The fixture season has one episode airing Wednesday 2026-03-04 21:00
// Eastern, so its lock is the same evening at 20:00. mondayBefore sits
// inside the open window, thursdayAfter past it.
var (
	episodeAir    = time.Date(2026, time.March, 5, 2, 0, 0, 0, time.UTC) // Wed 21:00 EST
	mondayBefore  = time.Date(2026, time.March, 2, 17, 0, 0, 0, time.UTC)
	thursdayAfter = time.Date(2026, time.March, 5, 17, 0, 0, 0, time.UTC)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// leagueFixture is a seeded in-memory league: alice owns the first two
// contestants, bob the next two, and the last two are free agents.
type leagueFixture struct {
	store          *memory.Store
	leagueRepo     *memory.LeagueRepository
	userRepo       *memory.UserRepository
	contestantRepo *memory.ContestantRepository
	episodeRepo    *memory.EpisodeRepository
	rosterRepo     *memory.RosterRepository
	tradeRepo      *memory.TradeRepository
	ledgerRepo     *memory.LedgerRepository
	predictionRepo *memory.PredictionRepository
	scoringRepo    *memory.ScoringRepository

	league      league.League
	episode     episode.Episode
	alice       user.Principal
	bob         user.Principal
	admin       user.Principal
	contestants []contestant.Contestant
}

func newLeagueFixture(t *testing.T) *leagueFixture {
	t.Helper()
	ctx := context.Background()

	store := memory.NewStore()
	f := &leagueFixture{
		store:          store,
		leagueRepo:     memory.NewLeagueRepository(store),
		userRepo:       memory.NewUserRepository(store),
		contestantRepo: memory.NewContestantRepository(store),
		episodeRepo:    memory.NewEpisodeRepository(store),
		rosterRepo:     memory.NewRosterRepository(store),
		tradeRepo:      memory.NewTradeRepository(store),
		ledgerRepo:     memory.NewLedgerRepository(store),
		predictionRepo: memory.NewPredictionRepository(store),
		scoringRepo:    memory.NewScoringRepository(store),
	}

	l, err := f.leagueRepo.Create(ctx, league.League{Name: "Tribal Council", InviteCode: "TRIBAL1", CreatedAt: mondayBefore})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	f.league = l

	f.alice = f.createUser(t, "alice", user.RolePlayer, true)
	f.bob = f.createUser(t, "bob", user.RolePlayer, true)
	f.admin = f.createUser(t, "probst", user.RoleAdmin, false)

	names := []string{"Rob", "Sandra", "Tony", "Parvati", "Cirie", "Ozzy"}
	for _, name := range names {
		c, err := f.contestantRepo.Create(ctx, contestant.Contestant{
			LeagueID:  l.ID,
			Name:      name,
			Status:    contestant.StatusActive,
			CreatedAt: mondayBefore,
		})
		if err != nil {
			t.Fatalf("create contestant %s: %v", name, err)
		}
		f.contestants = append(f.contestants, c)
	}

	ep, err := f.episodeRepo.Create(ctx, episode.Episode{
		LeagueID:  l.ID,
		Number:    1,
		Title:     "The Merge",
		AirDate:   episodeAir,
		LockAt:    lockclock.LockTimeForWeek(episodeAir),
		CreatedAt: mondayBefore,
	})
	if err != nil {
		t.Fatalf("create episode: %v", err)
	}
	f.episode = ep

	f.addToRoster(t, f.alice.UserID, f.contestants[0].ID)
	f.addToRoster(t, f.alice.UserID, f.contestants[1].ID)
	f.addToRoster(t, f.bob.UserID, f.contestants[2].ID)
	f.addToRoster(t, f.bob.UserID, f.contestants[3].ID)

	return f
}

func (f *leagueFixture) createUser(t *testing.T, username string, role user.Role, member bool) user.Principal {
	t.Helper()
	ctx := context.Background()

	u, err := f.userRepo.Create(ctx, user.User{Username: username, Role: role, CreatedAt: mondayBefore, UpdatedAt: mondayBefore})
	if err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}
	if member {
		if err := f.leagueRepo.AddMember(ctx, league.Member{LeagueID: f.league.ID, UserID: u.ID, JoinedAt: mondayBefore}); err != nil {
			t.Fatalf("add member %s: %v", username, err)
		}
	}

	return user.Principal{UserID: u.ID, Username: u.Username, Role: u.Role}
}

func (f *leagueFixture) addToRoster(t *testing.T, userID, contestantID int64) {
	t.Helper()

	_, err := f.rosterRepo.Add(context.Background(), roster.Entry{
		LeagueID:     f.league.ID,
		UserID:       userID,
		ContestantID: contestantID,
		AddedAt:      mondayBefore,
	})
	if err != nil {
		t.Fatalf("seed roster entry: %v", err)
	}
}

func (f *leagueFixture) tradeService(now time.Time) *TradeService {
	s := NewTradeService(f.leagueRepo, f.episodeRepo, f.tradeRepo, nil, discardLogger())
	s.now = func() time.Time { return now }
	return s
}

func (f *leagueFixture) rosterService(now time.Time) *RosterService {
	s := NewRosterService(f.leagueRepo, f.contestantRepo, f.episodeRepo, f.rosterRepo, nil, discardLogger())
	s.now = func() time.Time { return now }
	return s
}

func (f *leagueFixture) predictionService(now time.Time) *PredictionService {
	s := NewPredictionService(f.leagueRepo, f.contestantRepo, f.episodeRepo, f.predictionRepo, nil, discardLogger())
	s.now = func() time.Time { return now }
	return s
}

func (f *leagueFixture) scoringService(now time.Time) *ScoringService {
	s := NewScoringService(f.episodeRepo, f.rosterRepo, f.scoringRepo, f.ledgerRepo, f.predictionRepo, nil, discardLogger())
	s.now = func() time.Time { return now }
	return s
}

// rosterOf folds a user's entries down to the contestant id set.
func (f *leagueFixture) rosterOf(t *testing.T, userID int64) map[int64]bool {
	t.Helper()

	entries, err := f.rosterRepo.ListByUser(context.Background(), f.league.ID, userID)
	if err != nil {
		t.Fatalf("list roster: %v", err)
	}
	ids := make(map[int64]bool, len(entries))
	for _, e := range entries {
		ids[e.ContestantID] = true
	}

	return ids
}

func contestantItem(side trade.Side, contestantID int64) trade.Item {
	id := contestantID
	return trade.Item{Side: side, Type: trade.ItemContestant, ContestantID: &id}
}

func pointsItem(side trade.Side, points int64) trade.Item {
	p := points
	return trade.Item{Side: side, Type: trade.ItemPoints, Points: &p}
}
