package contestant

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusActive     Status = "active"
	StatusEliminated Status = "eliminated"
	StatusInjured    Status = "injured"
)

// Contestant is a cast member of the show within one league.
type Contestant struct {
	ID                  int64
	LeagueID            int64
	Name                string
	Status              Status
	EliminatedEpisodeID *int64
	CreatedAt           time.Time
}

func (c Contestant) Validate() error {
	if c.LeagueID == 0 {
		return fmt.Errorf("league id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("contestant name is required")
	}
	switch c.Status {
	case StatusActive, StatusEliminated, StatusInjured:
	default:
		return fmt.Errorf("status %q is not supported", c.Status)
	}
	if c.Status != StatusEliminated && c.EliminatedEpisodeID != nil {
		return fmt.Errorf("eliminated episode only applies to eliminated contestants")
	}

	return nil
}
