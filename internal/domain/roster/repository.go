package roster

import (
	"context"
	"errors"
)

// ErrContestantTaken means the contestant already sits on a roster in
// the league. Backed by the unique (league, contestant) index.
var ErrContestantTaken = errors.New("contestant already on a roster in this league")

// Repository describes roster persistence needs from use cases.
type Repository interface {
	ListByUser(ctx context.Context, leagueID, userID int64) ([]Entry, error)
	ListByLeague(ctx context.Context, leagueID int64) ([]Entry, error)
	CountByUser(ctx context.Context, leagueID, userID int64) (int, error)
	// OwnerOf reports which user currently holds the contestant in the
	// league, if anyone does.
	OwnerOf(ctx context.Context, leagueID, contestantID int64) (int64, bool, error)
	Add(ctx context.Context, e Entry) (Entry, error)
	Remove(ctx context.Context, leagueID, userID, contestantID int64) (bool, error)
}
