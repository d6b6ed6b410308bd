package ledger

import "context"

// Repository describes ledger persistence needs from use cases.
type Repository interface {
	Append(ctx context.Context, tx Transaction) (Transaction, error)
	ListByLeague(ctx context.Context, leagueID int64) ([]Transaction, error)
	ListByUser(ctx context.Context, leagueID, userID int64) ([]Transaction, error)
	TotalsByLeague(ctx context.Context, leagueID int64) ([]UserTotal, error)
	BreakdownByLeague(ctx context.Context, leagueID int64) ([]ReasonTotal, error)
}
