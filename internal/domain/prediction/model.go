package prediction

import (
	"fmt"
	"time"
)

// VoteBudget is the exact number of votes a user distributes per episode.
const VoteBudget = 10

// WinnerPick is a user's standing sole-survivor pick for a league.
type WinnerPick struct {
	ID           int64
	LeagueID     int64
	UserID       int64
	ContestantID int64
	PickedAt     time.Time
}

// VoteAllocation is one user's votes on one contestant for one episode.
// Zero-vote rows are never stored.
type VoteAllocation struct {
	ID           int64
	LeagueID     int64
	UserID       int64
	EpisodeID    int64
	ContestantID int64
	Votes        int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidateVotes checks an allocation set sums to the budget with no
// negative or duplicate contestant rows.
func ValidateVotes(allocations []VoteAllocation) error {
	total := 0
	seen := make(map[int64]struct{}, len(allocations))
	for _, a := range allocations {
		if a.Votes < 0 {
			return fmt.Errorf("votes must not be negative")
		}
		if _, dup := seen[a.ContestantID]; dup {
			return fmt.Errorf("contestant %d allocated twice", a.ContestantID)
		}
		seen[a.ContestantID] = struct{}{}
		total += a.Votes
	}
	if total != VoteBudget {
		return fmt.Errorf("votes must total exactly %d, got %d", VoteBudget, total)
	}

	return nil
}
