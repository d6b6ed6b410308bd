package scoring

import (
	"fmt"
	"time"
)

// Action types the default rule set knows about. Leagues may add more.
const (
	ActionTribeRewardWin    = "tribe_reward_win"
	ActionTribeImmunityWin  = "tribe_immunity_win"
	ActionIndividualImmunty = "individual_immunity"
	ActionIdolFound         = "idol_found"
	ActionIdolPlayed        = "idol_played"
	ActionSurvivedTribal    = "survived_tribal"
	ActionEliminated        = "eliminated"
	ActionVoteCorrect       = "vote_correct"
	ActionWinnerPlacement1  = "winner_placement_1"
	ActionWinnerPlacement2  = "winner_placement_2"
	ActionWinnerPlacement3  = "winner_placement_3"
)

// Rule maps an in-show action to a point value for one league.
type Rule struct {
	ID         int64
	LeagueID   int64
	ActionType string
	Points     float64
	CreatedAt  time.Time
}

func (r Rule) Validate() error {
	if r.LeagueID == 0 {
		return fmt.Errorf("league id is required")
	}
	if r.ActionType == "" {
		return fmt.Errorf("action type is required")
	}

	return nil
}

// DefaultRules returns the rule set a new league starts with.
func DefaultRules(leagueID int64) []Rule {
	defaults := []struct {
		action string
		points float64
	}{
		{ActionTribeRewardWin, 5},
		{ActionTribeImmunityWin, 5},
		{ActionIndividualImmunty, 10},
		{ActionIdolFound, 5},
		{ActionIdolPlayed, 10},
		{ActionSurvivedTribal, 2},
		{ActionEliminated, -5},
		{ActionVoteCorrect, 3},
		{ActionWinnerPlacement1, 50},
		{ActionWinnerPlacement2, 25},
		{ActionWinnerPlacement3, 15},
	}

	rules := make([]Rule, 0, len(defaults))
	for _, d := range defaults {
		rules = append(rules, Rule{
			LeagueID:   leagueID,
			ActionType: d.action,
			Points:     d.points,
		})
	}
	return rules
}

// Event records that an action happened on an episode, optionally tied
// to a contestant whose current owner gets credited.
type Event struct {
	ID              int64
	LeagueID        int64
	EpisodeID       int64
	ActionType      string
	ContestantID    *int64
	Metadata        map[string]any
	CreatedAt       time.Time
	CreatedByUserID *int64
}

func (e Event) Validate() error {
	if e.LeagueID == 0 {
		return fmt.Errorf("league id is required")
	}
	if e.EpisodeID == 0 {
		return fmt.Errorf("episode id is required")
	}
	if e.ActionType == "" {
		return fmt.Errorf("action type is required")
	}

	return nil
}
