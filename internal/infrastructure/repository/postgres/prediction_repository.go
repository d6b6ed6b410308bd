package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/prediction"
)

type PredictionRepository struct {
	db *sqlx.DB
}

func NewPredictionRepository(db *sqlx.DB) *PredictionRepository {
	return &PredictionRepository{db: db}
}

func (r *PredictionRepository) GetWinnerPick(ctx context.Context, leagueID, userID int64) (prediction.WinnerPick, bool, error) {
	const query = `
SELECT id, league_id, user_id, contestant_id, picked_at
FROM winner_picks
WHERE league_id = $1
  AND user_id = $2`

	var row winnerPickTableModel
	if err := r.db.GetContext(ctx, &row, query, leagueID, userID); err != nil {
		if isNotFound(err) {
			return prediction.WinnerPick{}, false, nil
		}
		return prediction.WinnerPick{}, false, fmt.Errorf("get winner pick: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *PredictionRepository) SetWinnerPick(ctx context.Context, p prediction.WinnerPick) (prediction.WinnerPick, error) {
	const query = `
INSERT INTO winner_picks (league_id, user_id, contestant_id, picked_at)
VALUES (:league_id, :user_id, :contestant_id, :picked_at)
ON CONFLICT (league_id, user_id)
DO UPDATE SET
    contestant_id = EXCLUDED.contestant_id,
    picked_at = EXCLUDED.picked_at
RETURNING id, league_id, user_id, contestant_id, picked_at`

	upsertSQL, args, err := sqlx.Named(query, map[string]any{
		"league_id":     p.LeagueID,
		"user_id":       p.UserID,
		"contestant_id": p.ContestantID,
		"picked_at":     p.PickedAt,
	})
	if err != nil {
		return prediction.WinnerPick{}, fmt.Errorf("bind upsert winner pick query: %w", err)
	}
	upsertSQL = r.db.Rebind(upsertSQL)

	var row winnerPickTableModel
	if err := r.db.GetContext(ctx, &row, upsertSQL, args...); err != nil {
		return prediction.WinnerPick{}, fmt.Errorf("upsert winner pick: %w", err)
	}

	return row.toDomain(), nil
}

func (r *PredictionRepository) ListVotes(ctx context.Context, leagueID, userID, episodeID int64) ([]prediction.VoteAllocation, error) {
	const query = `
SELECT id, league_id, user_id, episode_id, contestant_id, votes, created_at, updated_at
FROM vote_predictions
WHERE league_id = $1
  AND user_id = $2
  AND episode_id = $3
ORDER BY contestant_id`

	return r.list(ctx, query, leagueID, userID, episodeID)
}

func (r *PredictionRepository) ListVotesByEpisode(ctx context.Context, leagueID, episodeID int64) ([]prediction.VoteAllocation, error) {
	const query = `
SELECT id, league_id, user_id, episode_id, contestant_id, votes, created_at, updated_at
FROM vote_predictions
WHERE league_id = $1
  AND episode_id = $2
ORDER BY id`

	return r.list(ctx, query, leagueID, episodeID)
}

// ReplaceVotes swaps the whole allocation set in one transaction so a
// reader never sees a partially updated week.
func (r *PredictionRepository) ReplaceVotes(ctx context.Context, leagueID, userID, episodeID int64, allocations []prediction.VoteAllocation) ([]prediction.VoteAllocation, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx for vote replace: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const deleteQuery = `
DELETE FROM vote_predictions
WHERE league_id = $1
  AND user_id = $2
  AND episode_id = $3`

	if _, err := tx.ExecContext(ctx, deleteQuery, leagueID, userID, episodeID); err != nil {
		return nil, fmt.Errorf("clear votes: %w", err)
	}

	const insertQuery = `
INSERT INTO vote_predictions (league_id, user_id, episode_id, contestant_id, votes)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, league_id, user_id, episode_id, contestant_id, votes, created_at, updated_at`

	saved := make([]prediction.VoteAllocation, 0, len(allocations))
	for _, a := range allocations {
		var row votePredictionTableModel
		if err := tx.GetContext(ctx, &row, insertQuery, leagueID, userID, episodeID, a.ContestantID, a.Votes); err != nil {
			return nil, fmt.Errorf("insert vote allocation: %w", err)
		}
		saved = append(saved, row.toDomain())
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit vote replace: %w", err)
	}

	return saved, nil
}

func (r *PredictionRepository) list(ctx context.Context, query string, args ...any) ([]prediction.VoteAllocation, error) {
	var rows []votePredictionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list vote allocations: %w", err)
	}

	votes := make([]prediction.VoteAllocation, 0, len(rows))
	for _, row := range rows {
		votes = append(votes, row.toDomain())
	}

	return votes, nil
}
