package memory

import (
	"context"
	"sort"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/prediction"
)

type PredictionRepository struct {
	store *Store
}

func NewPredictionRepository(store *Store) *PredictionRepository {
	return &PredictionRepository{store: store}
}

func (r *PredictionRepository) GetWinnerPick(_ context.Context, leagueID, userID int64) (prediction.WinnerPick, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	p, ok := r.store.winnerPicks[pairKey(leagueID, userID)]
	return p, ok, nil
}

func (r *PredictionRepository) SetWinnerPick(_ context.Context, p prediction.WinnerPick) (prediction.WinnerPick, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := pairKey(p.LeagueID, p.UserID)
	if existing, ok := r.store.winnerPicks[key]; ok {
		p.ID = existing.ID
	} else {
		p.ID = r.store.nextID("winner_picks")
	}
	r.store.winnerPicks[key] = p

	return p, nil
}

func (r *PredictionRepository) ListVotes(_ context.Context, leagueID, userID, episodeID int64) ([]prediction.VoteAllocation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	votes := make([]prediction.VoteAllocation, 0)
	for _, v := range r.store.votes {
		if v.LeagueID == leagueID && v.UserID == userID && v.EpisodeID == episodeID {
			votes = append(votes, v)
		}
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i].ContestantID < votes[j].ContestantID })

	return votes, nil
}

func (r *PredictionRepository) ListVotesByEpisode(_ context.Context, leagueID, episodeID int64) ([]prediction.VoteAllocation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	votes := make([]prediction.VoteAllocation, 0)
	for _, v := range r.store.votes {
		if v.LeagueID == leagueID && v.EpisodeID == episodeID {
			votes = append(votes, v)
		}
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i].ID < votes[j].ID })

	return votes, nil
}

func (r *PredictionRepository) ReplaceVotes(_ context.Context, leagueID, userID, episodeID int64, allocations []prediction.VoteAllocation) ([]prediction.VoteAllocation, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, v := range r.store.votes {
		if v.LeagueID == leagueID && v.UserID == userID && v.EpisodeID == episodeID {
			delete(r.store.votes, id)
		}
	}

	saved := make([]prediction.VoteAllocation, 0, len(allocations))
	for _, a := range allocations {
		a.ID = r.store.nextID("vote_predictions")
		r.store.votes[a.ID] = a
		saved = append(saved, a)
	}

	return saved, nil
}
