package memory

import (
	"context"
	"sort"
	"time"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/episode"
)

type EpisodeRepository struct {
	store *Store
}

func NewEpisodeRepository(store *Store) *EpisodeRepository {
	return &EpisodeRepository{store: store}
}

func (r *EpisodeRepository) ListByLeague(_ context.Context, leagueID int64) ([]episode.Episode, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	episodes := make([]episode.Episode, 0)
	for _, e := range r.store.episodes {
		if e.LeagueID == leagueID {
			episodes = append(episodes, e)
		}
	}
	sort.Slice(episodes, func(i, j int) bool { return episodes[i].Number < episodes[j].Number })

	return episodes, nil
}

func (r *EpisodeRepository) GetByID(_ context.Context, episodeID int64) (episode.Episode, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	e, ok := r.store.episodes[episodeID]
	return e, ok, nil
}

func (r *EpisodeRepository) Create(_ context.Context, e episode.Episode) (episode.Episode, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e.ID = r.store.nextID("episodes")
	r.store.episodes[e.ID] = e

	return e, nil
}

func (r *EpisodeRepository) LatestByAirDate(_ context.Context, leagueID int64) (episode.Episode, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var latest episode.Episode
	found := false
	for _, e := range r.store.episodes {
		if e.LeagueID != leagueID {
			continue
		}
		if !found || e.AirDate.After(latest.AirDate) {
			latest = e
			found = true
		}
	}

	return latest, found, nil
}

func (r *EpisodeRepository) NextLockAfter(_ context.Context, leagueID int64, now time.Time) (episode.Episode, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var next episode.Episode
	found := false
	for _, e := range r.store.episodes {
		if e.LeagueID != leagueID || !e.LockAt.After(now) {
			continue
		}
		if !found || e.LockAt.Before(next.LockAt) {
			next = e
			found = true
		}
	}

	return next, found, nil
}
