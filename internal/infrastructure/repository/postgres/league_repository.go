package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/league"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	const query = `
SELECT id, name, season_name, invite_code, created_at
FROM leagues
ORDER BY id`

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	leagues := make([]league.League, 0, len(rows))
	for _, row := range rows {
		leagues = append(leagues, row.toDomain())
	}

	return leagues, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID int64) (league.League, bool, error) {
	const query = `
SELECT id, name, season_name, invite_code, created_at
FROM leagues
WHERE id = $1`

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, leagueID); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *LeagueRepository) GetByInviteCode(ctx context.Context, code string) (league.League, bool, error) {
	const query = `
SELECT id, name, season_name, invite_code, created_at
FROM leagues
WHERE invite_code = $1`

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, code); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by invite code: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League) (league.League, error) {
	const query = `
INSERT INTO leagues (name, season_name, invite_code)
VALUES (:name, :season_name, :invite_code)
RETURNING id, name, season_name, invite_code, created_at`

	insertSQL, args, err := sqlx.Named(query, map[string]any{
		"name":        l.Name,
		"season_name": nullableString(l.SeasonName),
		"invite_code": l.InviteCode,
	})
	if err != nil {
		return league.League{}, fmt.Errorf("bind insert league query: %w", err)
	}
	insertSQL = r.db.Rebind(insertSQL)

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, insertSQL, args...); err != nil {
		return league.League{}, fmt.Errorf("insert league: %w", err)
	}

	return row.toDomain(), nil
}

func (r *LeagueRepository) Update(ctx context.Context, l league.League) error {
	const query = `
UPDATE leagues
SET name = :name,
    season_name = :season_name
WHERE id = :id`

	updateSQL, args, err := sqlx.Named(query, map[string]any{
		"id":          l.ID,
		"name":        l.Name,
		"season_name": nullableString(l.SeasonName),
	})
	if err != nil {
		return fmt.Errorf("bind update league query: %w", err)
	}
	updateSQL = r.db.Rebind(updateSQL)

	if _, err := r.db.ExecContext(ctx, updateSQL, args...); err != nil {
		return fmt.Errorf("update league: %w", err)
	}

	return nil
}

func (r *LeagueRepository) ListMembers(ctx context.Context, leagueID int64) ([]league.Member, error) {
	const query = `
SELECT league_id, user_id, joined_at
FROM league_members
WHERE league_id = $1
ORDER BY user_id`

	var rows []struct {
		LeagueID int64     `db:"league_id"`
		UserID   int64     `db:"user_id"`
		JoinedAt time.Time `db:"joined_at"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, leagueID); err != nil {
		return nil, fmt.Errorf("list league members: %w", err)
	}

	members := make([]league.Member, 0, len(rows))
	for _, row := range rows {
		members = append(members, league.Member{
			LeagueID: row.LeagueID,
			UserID:   row.UserID,
			JoinedAt: row.JoinedAt,
		})
	}

	return members, nil
}

func (r *LeagueRepository) IsMember(ctx context.Context, leagueID, userID int64) (bool, error) {
	const query = `
SELECT EXISTS (
    SELECT 1 FROM league_members WHERE league_id = $1 AND user_id = $2
)`

	var member bool
	if err := r.db.GetContext(ctx, &member, query, leagueID, userID); err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}

	return member, nil
}

func (r *LeagueRepository) AddMember(ctx context.Context, m league.Member) error {
	const query = `
INSERT INTO league_members (league_id, user_id)
VALUES ($1, $2)
ON CONFLICT (league_id, user_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, m.LeagueID, m.UserID); err != nil {
		return fmt.Errorf("add league member: %w", err)
	}

	return nil
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
