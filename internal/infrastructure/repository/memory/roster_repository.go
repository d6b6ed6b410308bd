package memory

import (
	"context"
	"sort"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/roster"
)

type RosterRepository struct {
	store *Store
}

func NewRosterRepository(store *Store) *RosterRepository {
	return &RosterRepository{store: store}
}

func (r *RosterRepository) ListByUser(_ context.Context, leagueID, userID int64) ([]roster.Entry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entries := make([]roster.Entry, 0, roster.MaxSize)
	for _, e := range r.store.rosters {
		if e.LeagueID == leagueID && e.UserID == userID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	return entries, nil
}

func (r *RosterRepository) ListByLeague(_ context.Context, leagueID int64) ([]roster.Entry, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	entries := make([]roster.Entry, 0)
	for _, e := range r.store.rosters {
		if e.LeagueID == leagueID {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	return entries, nil
}

func (r *RosterRepository) CountByUser(_ context.Context, leagueID, userID int64) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, e := range r.store.rosters {
		if e.LeagueID == leagueID && e.UserID == userID {
			count++
		}
	}

	return count, nil
}

func (r *RosterRepository) OwnerOf(_ context.Context, leagueID, contestantID int64) (int64, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	ownerID, ok := ownerOfLocked(r.store, leagueID, contestantID)
	return ownerID, ok, nil
}

func (r *RosterRepository) Add(_ context.Context, e roster.Entry) (roster.Entry, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, taken := ownerOfLocked(r.store, e.LeagueID, e.ContestantID); taken {
		return roster.Entry{}, roster.ErrContestantTaken
	}

	e.ID = r.store.nextID("rosters")
	r.store.rosters[e.ID] = e

	return e, nil
}

func (r *RosterRepository) Remove(_ context.Context, leagueID, userID, contestantID int64) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, e := range r.store.rosters {
		if e.LeagueID == leagueID && e.UserID == userID && e.ContestantID == contestantID {
			delete(r.store.rosters, id)
			return true, nil
		}
	}

	return false, nil
}

// ownerOfLocked requires the store mutex, read or write.
func ownerOfLocked(s *Store, leagueID, contestantID int64) (int64, bool) {
	for _, e := range s.rosters {
		if e.LeagueID == leagueID && e.ContestantID == contestantID {
			return e.UserID, true
		}
	}
	return 0, false
}
