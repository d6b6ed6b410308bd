// Package cache wraps read-heavy repositories with a TTL cache. Lock
// state, rosters, trades, and the ledger are never cached: any stale
// read there could leak a mutation past a deadline.
package cache

import (
	"context"
	"fmt"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/league"
	"github.com/tribalcouncil/fantasy-survivor/internal/platform/cache"
)

const leagueKeyPrefix = "league:"

type LeagueRepository struct {
	inner league.Repository
	store *cache.Store
}

func NewLeagueRepository(inner league.Repository, store *cache.Store) *LeagueRepository {
	return &LeagueRepository{inner: inner, store: store}
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	value, err := r.store.GetOrLoad(ctx, leagueKeyPrefix+"all", func(ctx context.Context) (any, error) {
		return r.inner.List(ctx)
	})
	if err != nil {
		return nil, err
	}

	leagues, ok := value.([]league.League)
	if !ok {
		return r.inner.List(ctx)
	}
	return leagues, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID int64) (league.League, bool, error) {
	key := fmt.Sprintf("%sid:%d", leagueKeyPrefix, leagueID)
	if value, ok := r.store.Get(ctx, key); ok {
		if cached, valid := value.(league.League); valid {
			return cached, true, nil
		}
	}

	found, ok, err := r.inner.GetByID(ctx, leagueID)
	if err != nil || !ok {
		return found, ok, err
	}

	r.store.Set(ctx, key, found)
	return found, true, nil
}

func (r *LeagueRepository) GetByInviteCode(ctx context.Context, code string) (league.League, bool, error) {
	return r.inner.GetByInviteCode(ctx, code)
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League) (league.League, error) {
	created, err := r.inner.Create(ctx, l)
	if err != nil {
		return league.League{}, err
	}

	r.store.DeletePrefix(ctx, leagueKeyPrefix)
	return created, nil
}

func (r *LeagueRepository) Update(ctx context.Context, l league.League) error {
	if err := r.inner.Update(ctx, l); err != nil {
		return err
	}

	r.store.DeletePrefix(ctx, leagueKeyPrefix)
	return nil
}

// Membership answers gate authorization checks, so it always reads
// through to the inner repository.
func (r *LeagueRepository) ListMembers(ctx context.Context, leagueID int64) ([]league.Member, error) {
	return r.inner.ListMembers(ctx, leagueID)
}

func (r *LeagueRepository) IsMember(ctx context.Context, leagueID, userID int64) (bool, error) {
	return r.inner.IsMember(ctx, leagueID, userID)
}

func (r *LeagueRepository) AddMember(ctx context.Context, m league.Member) error {
	return r.inner.AddMember(ctx, m)
}
