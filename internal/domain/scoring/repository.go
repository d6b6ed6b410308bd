package scoring

import "context"

// Repository describes scoring persistence needs from use cases.
type Repository interface {
	ListRules(ctx context.Context, leagueID int64) ([]Rule, error)
	GetRule(ctx context.Context, leagueID int64, actionType string) (Rule, bool, error)
	// UpsertRule creates or overwrites the (league, action) rule.
	UpsertRule(ctx context.Context, r Rule) (Rule, error)

	CreateEvent(ctx context.Context, e Event) (Event, error)
	ListEventsByEpisode(ctx context.Context, leagueID, episodeID int64) ([]Event, error)
}
