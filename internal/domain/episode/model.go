package episode

import (
	"fmt"
	"time"
)

// Episode is one weekly airing. LockAt is derived from AirDate exactly
// once at creation and stored; reads never recompute it.
type Episode struct {
	ID        int64
	LeagueID  int64
	Number    int
	Title     string
	AirDate   time.Time
	LockAt    time.Time
	CreatedAt time.Time
}

func (e Episode) Validate() error {
	if e.LeagueID == 0 {
		return fmt.Errorf("league id is required")
	}
	if e.Number <= 0 {
		return fmt.Errorf("episode number must be positive")
	}
	if e.AirDate.IsZero() {
		return fmt.Errorf("air date is required")
	}

	return nil
}
