package memory

import (
	"context"
	"sort"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/league"
)

type LeagueRepository struct {
	store *Store
}

func NewLeagueRepository(store *Store) *LeagueRepository {
	return &LeagueRepository{store: store}
}

func (r *LeagueRepository) List(_ context.Context) ([]league.League, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	leagues := make([]league.League, 0, len(r.store.leagues))
	for _, l := range r.store.leagues {
		leagues = append(leagues, l)
	}
	sort.Slice(leagues, func(i, j int) bool { return leagues[i].ID < leagues[j].ID })

	return leagues, nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID int64) (league.League, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	l, ok := r.store.leagues[leagueID]
	return l, ok, nil
}

func (r *LeagueRepository) GetByInviteCode(_ context.Context, code string) (league.League, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, l := range r.store.leagues {
		if l.InviteCode == code {
			return l, true, nil
		}
	}

	return league.League{}, false, nil
}

func (r *LeagueRepository) Create(_ context.Context, l league.League) (league.League, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	l.ID = r.store.nextID("leagues")
	r.store.leagues[l.ID] = l

	return l, nil
}

func (r *LeagueRepository) Update(_ context.Context, l league.League) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.leagues[l.ID]; !ok {
		return nil
	}
	r.store.leagues[l.ID] = l

	return nil
}

func (r *LeagueRepository) ListMembers(_ context.Context, leagueID int64) ([]league.Member, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	members := make([]league.Member, 0)
	for _, m := range r.store.members {
		if m.LeagueID == leagueID {
			members = append(members, m)
		}
	}
	sort.Slice(members, func(i, j int) bool { return members[i].UserID < members[j].UserID })

	return members, nil
}

func (r *LeagueRepository) IsMember(_ context.Context, leagueID, userID int64) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.members[pairKey(leagueID, userID)]
	return ok, nil
}

func (r *LeagueRepository) AddMember(_ context.Context, m league.Member) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.members[pairKey(m.LeagueID, m.UserID)] = m
	return nil
}
