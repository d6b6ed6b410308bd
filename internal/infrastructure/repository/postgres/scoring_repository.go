package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/scoring"
)

type ScoringRepository struct {
	db *sqlx.DB
}

func NewScoringRepository(db *sqlx.DB) *ScoringRepository {
	return &ScoringRepository{db: db}
}

func (r *ScoringRepository) ListRules(ctx context.Context, leagueID int64) ([]scoring.Rule, error) {
	const query = `
SELECT id, league_id, action_type, points, created_at
FROM scoring_rules
WHERE league_id = $1
ORDER BY action_type`

	var rows []scoringRuleTableModel
	if err := r.db.SelectContext(ctx, &rows, query, leagueID); err != nil {
		return nil, fmt.Errorf("list scoring rules: %w", err)
	}

	rules := make([]scoring.Rule, 0, len(rows))
	for _, row := range rows {
		rules = append(rules, row.toDomain())
	}

	return rules, nil
}

func (r *ScoringRepository) GetRule(ctx context.Context, leagueID int64, actionType string) (scoring.Rule, bool, error) {
	const query = `
SELECT id, league_id, action_type, points, created_at
FROM scoring_rules
WHERE league_id = $1
  AND action_type = $2`

	var row scoringRuleTableModel
	if err := r.db.GetContext(ctx, &row, query, leagueID, actionType); err != nil {
		if isNotFound(err) {
			return scoring.Rule{}, false, nil
		}
		return scoring.Rule{}, false, fmt.Errorf("get scoring rule: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *ScoringRepository) UpsertRule(ctx context.Context, rule scoring.Rule) (scoring.Rule, error) {
	const query = `
INSERT INTO scoring_rules (league_id, action_type, points)
VALUES (:league_id, :action_type, :points)
ON CONFLICT (league_id, action_type)
DO UPDATE SET points = EXCLUDED.points
RETURNING id, league_id, action_type, points, created_at`

	upsertSQL, args, err := sqlx.Named(query, map[string]any{
		"league_id":   rule.LeagueID,
		"action_type": rule.ActionType,
		"points":      rule.Points,
	})
	if err != nil {
		return scoring.Rule{}, fmt.Errorf("bind upsert scoring rule query: %w", err)
	}
	upsertSQL = r.db.Rebind(upsertSQL)

	var row scoringRuleTableModel
	if err := r.db.GetContext(ctx, &row, upsertSQL, args...); err != nil {
		return scoring.Rule{}, fmt.Errorf("upsert scoring rule: %w", err)
	}

	return row.toDomain(), nil
}

func (r *ScoringRepository) CreateEvent(ctx context.Context, e scoring.Event) (scoring.Event, error) {
	const query = `
INSERT INTO scoring_events (league_id, episode_id, action_type, contestant_id, metadata, created_by_user_id)
VALUES (:league_id, :episode_id, :action_type, :contestant_id, :metadata, :created_by_user_id)
RETURNING id, league_id, episode_id, action_type, contestant_id, metadata, created_at, created_by_user_id`

	metadata, err := encodeMetadata(e.Metadata)
	if err != nil {
		return scoring.Event{}, err
	}
	insertSQL, args, err := sqlx.Named(query, map[string]any{
		"league_id":          e.LeagueID,
		"episode_id":         e.EpisodeID,
		"action_type":        e.ActionType,
		"contestant_id":      e.ContestantID,
		"metadata":           metadata,
		"created_by_user_id": e.CreatedByUserID,
	})
	if err != nil {
		return scoring.Event{}, fmt.Errorf("bind insert scoring event query: %w", err)
	}
	insertSQL = r.db.Rebind(insertSQL)

	var row scoringEventTableModel
	if err := r.db.GetContext(ctx, &row, insertSQL, args...); err != nil {
		return scoring.Event{}, fmt.Errorf("insert scoring event: %w", err)
	}

	return row.toDomain()
}

func (r *ScoringRepository) ListEventsByEpisode(ctx context.Context, leagueID, episodeID int64) ([]scoring.Event, error) {
	const query = `
SELECT id, league_id, episode_id, action_type, contestant_id, metadata, created_at, created_by_user_id
FROM scoring_events
WHERE league_id = $1
  AND episode_id = $2
ORDER BY id`

	var rows []scoringEventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, leagueID, episodeID); err != nil {
		return nil, fmt.Errorf("list scoring events: %w", err)
	}

	events := make([]scoring.Event, 0, len(rows))
	for _, row := range rows {
		e, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}

	return events, nil
}
