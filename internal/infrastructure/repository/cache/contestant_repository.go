package cache

import (
	"context"
	"fmt"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/contestant"
	"github.com/tribalcouncil/fantasy-survivor/internal/platform/cache"
)

const contestantKeyPrefix = "contestant:"

type ContestantRepository struct {
	inner contestant.Repository
	store *cache.Store
}

func NewContestantRepository(inner contestant.Repository, store *cache.Store) *ContestantRepository {
	return &ContestantRepository{inner: inner, store: store}
}

func (r *ContestantRepository) ListByLeague(ctx context.Context, leagueID int64) ([]contestant.Contestant, error) {
	key := fmt.Sprintf("%sleague:%d", contestantKeyPrefix, leagueID)
	value, err := r.store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return r.inner.ListByLeague(ctx, leagueID)
	})
	if err != nil {
		return nil, err
	}

	contestants, ok := value.([]contestant.Contestant)
	if !ok {
		return r.inner.ListByLeague(ctx, leagueID)
	}
	return contestants, nil
}

func (r *ContestantRepository) GetByID(ctx context.Context, contestantID int64) (contestant.Contestant, bool, error) {
	key := fmt.Sprintf("%sid:%d", contestantKeyPrefix, contestantID)
	if value, ok := r.store.Get(ctx, key); ok {
		if cached, valid := value.(contestant.Contestant); valid {
			return cached, true, nil
		}
	}

	found, ok, err := r.inner.GetByID(ctx, contestantID)
	if err != nil || !ok {
		return found, ok, err
	}

	r.store.Set(ctx, key, found)
	return found, true, nil
}

func (r *ContestantRepository) Create(ctx context.Context, c contestant.Contestant) (contestant.Contestant, error) {
	created, err := r.inner.Create(ctx, c)
	if err != nil {
		return contestant.Contestant{}, err
	}

	r.store.DeletePrefix(ctx, contestantKeyPrefix)
	return created, nil
}

func (r *ContestantRepository) Update(ctx context.Context, c contestant.Contestant) error {
	if err := r.inner.Update(ctx, c); err != nil {
		return err
	}

	r.store.DeletePrefix(ctx, contestantKeyPrefix)
	return nil
}
