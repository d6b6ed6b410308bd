package roster

import "time"

// Roster size bounds per user per league.
const (
	MinSize = 2
	MaxSize = 3
)

// Entry is one contestant slot on a user's roster. A contestant appears
// on at most one roster per league.
type Entry struct {
	ID           int64
	LeagueID     int64
	UserID       int64
	ContestantID int64
	AddedAt      time.Time
}
