package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/contestant"
)

type ContestantRepository struct {
	db *sqlx.DB
}

func NewContestantRepository(db *sqlx.DB) *ContestantRepository {
	return &ContestantRepository{db: db}
}

func (r *ContestantRepository) ListByLeague(ctx context.Context, leagueID int64) ([]contestant.Contestant, error) {
	const query = `
SELECT id, league_id, name, status, eliminated_episode_id, created_at
FROM contestants
WHERE league_id = $1
ORDER BY id`

	var rows []contestantTableModel
	if err := r.db.SelectContext(ctx, &rows, query, leagueID); err != nil {
		return nil, fmt.Errorf("list contestants: %w", err)
	}

	contestants := make([]contestant.Contestant, 0, len(rows))
	for _, row := range rows {
		contestants = append(contestants, row.toDomain())
	}

	return contestants, nil
}

func (r *ContestantRepository) GetByID(ctx context.Context, contestantID int64) (contestant.Contestant, bool, error) {
	const query = `
SELECT id, league_id, name, status, eliminated_episode_id, created_at
FROM contestants
WHERE id = $1`

	var row contestantTableModel
	if err := r.db.GetContext(ctx, &row, query, contestantID); err != nil {
		if isNotFound(err) {
			return contestant.Contestant{}, false, nil
		}
		return contestant.Contestant{}, false, fmt.Errorf("get contestant: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *ContestantRepository) Create(ctx context.Context, c contestant.Contestant) (contestant.Contestant, error) {
	const query = `
INSERT INTO contestants (league_id, name, status)
VALUES (:league_id, :name, :status)
RETURNING id, league_id, name, status, eliminated_episode_id, created_at`

	insertSQL, args, err := sqlx.Named(query, map[string]any{
		"league_id": c.LeagueID,
		"name":      c.Name,
		"status":    string(c.Status),
	})
	if err != nil {
		return contestant.Contestant{}, fmt.Errorf("bind insert contestant query: %w", err)
	}
	insertSQL = r.db.Rebind(insertSQL)

	var row contestantTableModel
	if err := r.db.GetContext(ctx, &row, insertSQL, args...); err != nil {
		return contestant.Contestant{}, fmt.Errorf("insert contestant: %w", err)
	}

	return row.toDomain(), nil
}

func (r *ContestantRepository) Update(ctx context.Context, c contestant.Contestant) error {
	const query = `
UPDATE contestants
SET name = :name,
    status = :status,
    eliminated_episode_id = :eliminated_episode_id
WHERE id = :id`

	updateSQL, args, err := sqlx.Named(query, map[string]any{
		"id":                    c.ID,
		"name":                  c.Name,
		"status":                string(c.Status),
		"eliminated_episode_id": c.EliminatedEpisodeID,
	})
	if err != nil {
		return fmt.Errorf("bind update contestant query: %w", err)
	}
	updateSQL = r.db.Rebind(updateSQL)

	if _, err := r.db.ExecContext(ctx, updateSQL, args...); err != nil {
		return fmt.Errorf("update contestant: %w", err)
	}

	return nil
}
