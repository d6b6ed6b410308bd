package league

import (
	"fmt"
	"time"
)

// League is one season-long game a group of players competes in.
type League struct {
	ID         int64
	Name       string
	SeasonName string
	InviteCode string
	CreatedAt  time.Time
}

func (l League) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}

	return nil
}

// Member ties a user to a league.
type Member struct {
	LeagueID int64
	UserID   int64
	JoinedAt time.Time
}
