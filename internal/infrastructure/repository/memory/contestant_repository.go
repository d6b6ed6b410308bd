package memory

import (
	"context"
	"sort"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/contestant"
)

type ContestantRepository struct {
	store *Store
}

func NewContestantRepository(store *Store) *ContestantRepository {
	return &ContestantRepository{store: store}
}

func (r *ContestantRepository) ListByLeague(_ context.Context, leagueID int64) ([]contestant.Contestant, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	contestants := make([]contestant.Contestant, 0)
	for _, c := range r.store.contestants {
		if c.LeagueID == leagueID {
			contestants = append(contestants, c)
		}
	}
	sort.Slice(contestants, func(i, j int) bool { return contestants[i].ID < contestants[j].ID })

	return contestants, nil
}

func (r *ContestantRepository) GetByID(_ context.Context, contestantID int64) (contestant.Contestant, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	c, ok := r.store.contestants[contestantID]
	return c, ok, nil
}

func (r *ContestantRepository) Create(_ context.Context, c contestant.Contestant) (contestant.Contestant, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c.ID = r.store.nextID("contestants")
	r.store.contestants[c.ID] = c

	return c, nil
}

func (r *ContestantRepository) Update(_ context.Context, c contestant.Contestant) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.contestants[c.ID]; !ok {
		return nil
	}
	r.store.contestants[c.ID] = c

	return nil
}
