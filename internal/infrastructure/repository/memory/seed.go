package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/contestant"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/episode"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/league"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/scoring"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/user"
	"github.com/tribalcouncil/fantasy-survivor/internal/platform/lockclock"
)

// Seed loads a small demo season so the API is usable without postgres:
// one league, an admin and two players, six contestants and the first
// two episodes with stored lock times.
func Seed(ctx context.Context, store *Store) error {
	users := NewUserRepository(store)
	leagues := NewLeagueRepository(store)
	contestants := NewContestantRepository(store)
	episodes := NewEpisodeRepository(store)
	rules := NewScoringRepository(store)

	now := time.Now().UTC()

	admin, err := users.Create(ctx, user.User{Username: "probst", Role: user.RoleAdmin, CreatedAt: now, UpdatedAt: now})
	if err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	playerNames := []string{"jeff", "sandra"}
	playerIDs := make([]int64, 0, len(playerNames))
	for _, name := range playerNames {
		u, err := users.Create(ctx, user.User{Username: name, Role: user.RolePlayer, CreatedAt: now, UpdatedAt: now})
		if err != nil {
			return fmt.Errorf("seed user %s: %w", name, err)
		}
		playerIDs = append(playerIDs, u.ID)
	}

	l, err := leagues.Create(ctx, league.League{
		Name:       "Tribal Council",
		SeasonName: "Season 50",
		InviteCode: "TRIBAL50",
		CreatedAt:  now,
	})
	if err != nil {
		return fmt.Errorf("seed league: %w", err)
	}
	for _, userID := range append([]int64{admin.ID}, playerIDs...) {
		if err := leagues.AddMember(ctx, league.Member{LeagueID: l.ID, UserID: userID, JoinedAt: now}); err != nil {
			return fmt.Errorf("seed membership: %w", err)
		}
	}

	for _, name := range []string{"Rob", "Parvati", "Tony", "Cirie", "Yul", "Michele"} {
		if _, err := contestants.Create(ctx, contestant.Contestant{
			LeagueID:  l.ID,
			Name:      name,
			Status:    contestant.StatusActive,
			CreatedAt: now,
		}); err != nil {
			return fmt.Errorf("seed contestant %s: %w", name, err)
		}
	}

	firstAir := lockclock.NextLockTime(now).Add(time.Hour)
	for i := 0; i < 2; i++ {
		airDate := firstAir.AddDate(0, 0, 7*i)
		if _, err := episodes.Create(ctx, episode.Episode{
			LeagueID:  l.ID,
			Number:    i + 1,
			Title:     fmt.Sprintf("Episode %d", i+1),
			AirDate:   airDate,
			LockAt:    lockclock.LockTimeForWeek(airDate),
			CreatedAt: now,
		}); err != nil {
			return fmt.Errorf("seed episode %d: %w", i+1, err)
		}
	}

	for _, rule := range scoring.DefaultRules(l.ID) {
		if _, err := rules.UpsertRule(ctx, rule); err != nil {
			return fmt.Errorf("seed scoring rule %s: %w", rule.ActionType, err)
		}
	}

	return nil
}
