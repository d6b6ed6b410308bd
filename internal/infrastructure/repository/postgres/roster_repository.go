package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/roster"
)

type RosterRepository struct {
	db *sqlx.DB
}

func NewRosterRepository(db *sqlx.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (r *RosterRepository) ListByUser(ctx context.Context, leagueID, userID int64) ([]roster.Entry, error) {
	const query = `
SELECT id, league_id, user_id, contestant_id, added_at
FROM teams
WHERE league_id = $1
  AND user_id = $2
ORDER BY id`

	var rows []rosterTableModel
	if err := r.db.SelectContext(ctx, &rows, query, leagueID, userID); err != nil {
		return nil, fmt.Errorf("list roster: %w", err)
	}

	return rosterRowsToDomain(rows), nil
}

func (r *RosterRepository) ListByLeague(ctx context.Context, leagueID int64) ([]roster.Entry, error) {
	const query = `
SELECT id, league_id, user_id, contestant_id, added_at
FROM teams
WHERE league_id = $1
ORDER BY user_id, id`

	var rows []rosterTableModel
	if err := r.db.SelectContext(ctx, &rows, query, leagueID); err != nil {
		return nil, fmt.Errorf("list league rosters: %w", err)
	}

	return rosterRowsToDomain(rows), nil
}

func (r *RosterRepository) CountByUser(ctx context.Context, leagueID, userID int64) (int, error) {
	const query = `
SELECT COUNT(*)
FROM teams
WHERE league_id = $1
  AND user_id = $2`

	var count int
	if err := r.db.GetContext(ctx, &count, query, leagueID, userID); err != nil {
		return 0, fmt.Errorf("count roster: %w", err)
	}

	return count, nil
}

func (r *RosterRepository) OwnerOf(ctx context.Context, leagueID, contestantID int64) (int64, bool, error) {
	const query = `
SELECT user_id
FROM teams
WHERE league_id = $1
  AND contestant_id = $2`

	var ownerID int64
	if err := r.db.GetContext(ctx, &ownerID, query, leagueID, contestantID); err != nil {
		if isNotFound(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("resolve owner: %w", err)
	}

	return ownerID, true, nil
}

func (r *RosterRepository) Add(ctx context.Context, e roster.Entry) (roster.Entry, error) {
	const query = `
INSERT INTO teams (league_id, user_id, contestant_id)
VALUES (:league_id, :user_id, :contestant_id)
RETURNING id, league_id, user_id, contestant_id, added_at`

	insertSQL, args, err := sqlx.Named(query, map[string]any{
		"league_id":     e.LeagueID,
		"user_id":       e.UserID,
		"contestant_id": e.ContestantID,
	})
	if err != nil {
		return roster.Entry{}, fmt.Errorf("bind insert roster query: %w", err)
	}
	insertSQL = r.db.Rebind(insertSQL)

	var row rosterTableModel
	if err := r.db.GetContext(ctx, &row, insertSQL, args...); err != nil {
		if isUniqueViolation(err) {
			return roster.Entry{}, roster.ErrContestantTaken
		}
		return roster.Entry{}, fmt.Errorf("insert roster entry: %w", err)
	}

	return row.toDomain(), nil
}

func (r *RosterRepository) Remove(ctx context.Context, leagueID, userID, contestantID int64) (bool, error) {
	const query = `
DELETE FROM teams
WHERE league_id = $1
  AND user_id = $2
  AND contestant_id = $3`

	result, err := r.db.ExecContext(ctx, query, leagueID, userID, contestantID)
	if err != nil {
		return false, fmt.Errorf("remove roster entry: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("roster rows affected: %w", err)
	}

	return affected > 0, nil
}

func rosterRowsToDomain(rows []rosterTableModel) []roster.Entry {
	entries := make([]roster.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.toDomain())
	}
	return entries
}
