package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/episode"
)

type EpisodeRepository struct {
	db *sqlx.DB
}

func NewEpisodeRepository(db *sqlx.DB) *EpisodeRepository {
	return &EpisodeRepository{db: db}
}

func (r *EpisodeRepository) ListByLeague(ctx context.Context, leagueID int64) ([]episode.Episode, error) {
	const query = `
SELECT id, league_id, episode_number, title, air_date, lock_at, created_at
FROM episodes
WHERE league_id = $1
ORDER BY episode_number`

	var rows []episodeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, leagueID); err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}

	episodes := make([]episode.Episode, 0, len(rows))
	for _, row := range rows {
		episodes = append(episodes, row.toDomain())
	}

	return episodes, nil
}

func (r *EpisodeRepository) GetByID(ctx context.Context, episodeID int64) (episode.Episode, bool, error) {
	const query = `
SELECT id, league_id, episode_number, title, air_date, lock_at, created_at
FROM episodes
WHERE id = $1`

	var row episodeTableModel
	if err := r.db.GetContext(ctx, &row, query, episodeID); err != nil {
		if isNotFound(err) {
			return episode.Episode{}, false, nil
		}
		return episode.Episode{}, false, fmt.Errorf("get episode: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *EpisodeRepository) Create(ctx context.Context, e episode.Episode) (episode.Episode, error) {
	const query = `
INSERT INTO episodes (league_id, episode_number, title, air_date, lock_at)
VALUES (:league_id, :episode_number, :title, :air_date, :lock_at)
RETURNING id, league_id, episode_number, title, air_date, lock_at, created_at`

	var title *string
	if e.Title != "" {
		title = &e.Title
	}
	insertSQL, args, err := sqlx.Named(query, map[string]any{
		"league_id":      e.LeagueID,
		"episode_number": e.Number,
		"title":          title,
		"air_date":       e.AirDate,
		"lock_at":        e.LockAt,
	})
	if err != nil {
		return episode.Episode{}, fmt.Errorf("bind insert episode query: %w", err)
	}
	insertSQL = r.db.Rebind(insertSQL)

	var row episodeTableModel
	if err := r.db.GetContext(ctx, &row, insertSQL, args...); err != nil {
		return episode.Episode{}, fmt.Errorf("insert episode: %w", err)
	}

	return row.toDomain(), nil
}

func (r *EpisodeRepository) LatestByAirDate(ctx context.Context, leagueID int64) (episode.Episode, bool, error) {
	const query = `
SELECT id, league_id, episode_number, title, air_date, lock_at, created_at
FROM episodes
WHERE league_id = $1
ORDER BY air_date DESC
LIMIT 1`

	var row episodeTableModel
	if err := r.db.GetContext(ctx, &row, query, leagueID); err != nil {
		if isNotFound(err) {
			return episode.Episode{}, false, nil
		}
		return episode.Episode{}, false, fmt.Errorf("latest episode: %w", err)
	}

	return row.toDomain(), true, nil
}

func (r *EpisodeRepository) NextLockAfter(ctx context.Context, leagueID int64, now time.Time) (episode.Episode, bool, error) {
	const query = `
SELECT id, league_id, episode_number, title, air_date, lock_at, created_at
FROM episodes
WHERE league_id = $1
  AND lock_at > $2
ORDER BY lock_at
LIMIT 1`

	var row episodeTableModel
	if err := r.db.GetContext(ctx, &row, query, leagueID, now); err != nil {
		if isNotFound(err) {
			return episode.Episode{}, false, nil
		}
		return episode.Episode{}, false, fmt.Errorf("next lock: %w", err)
	}

	return row.toDomain(), true, nil
}
