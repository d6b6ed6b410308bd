package ledger

import "time"

// Transaction reasons written by this service.
const (
	ReasonTrade          = "trade"
	ReasonScoringEvent   = "scoring_event"
	ReasonVotePrediction = "vote_prediction"
	ReasonWinnerPick     = "winner_pick"
	ReasonAdjustment     = "adjustment"
)

// Reference types for transactions that point at another entity.
const (
	ReferenceTrade        = "trade"
	ReferenceScoringEvent = "scoring_event"
	ReferenceEpisode      = "episode"
)

// Transaction is one append-only points movement. Balances are never
// stored; every read folds over transactions.
type Transaction struct {
	ID            int64
	LeagueID      int64
	UserID        int64
	Amount        float64
	Reason        string
	ReferenceType *string
	ReferenceID   *int64
	CreatedAt     time.Time
}

// UserTotal is a folded balance for one user.
type UserTotal struct {
	UserID int64
	Total  float64
}

// ReasonTotal is a folded balance for one user split by reason.
type ReasonTotal struct {
	UserID int64
	Reason string
	Total  float64
}
