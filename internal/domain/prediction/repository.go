package prediction

import "context"

// Repository describes prediction persistence needs from use cases.
type Repository interface {
	GetWinnerPick(ctx context.Context, leagueID, userID int64) (WinnerPick, bool, error)
	// SetWinnerPick upserts the single pick per (league, user).
	SetWinnerPick(ctx context.Context, p WinnerPick) (WinnerPick, error)

	ListVotes(ctx context.Context, leagueID, userID, episodeID int64) ([]VoteAllocation, error)
	ListVotesByEpisode(ctx context.Context, leagueID, episodeID int64) ([]VoteAllocation, error)
	// ReplaceVotes swaps the full allocation set for (league, user,
	// episode) in one shot; zero-vote rows are elided by the caller.
	ReplaceVotes(ctx context.Context, leagueID, userID, episodeID int64, allocations []VoteAllocation) ([]VoteAllocation, error)
}
