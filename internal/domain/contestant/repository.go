package contestant

import "context"

// Repository describes contestant persistence needs from use cases.
type Repository interface {
	ListByLeague(ctx context.Context, leagueID int64) ([]Contestant, error)
	GetByID(ctx context.Context, contestantID int64) (Contestant, bool, error)
	Create(ctx context.Context, c Contestant) (Contestant, error)
	Update(ctx context.Context, c Contestant) error
}
