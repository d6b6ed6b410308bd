package memory

import (
	"context"
	"sort"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/scoring"
)

type ScoringRepository struct {
	store *Store
}

func NewScoringRepository(store *Store) *ScoringRepository {
	return &ScoringRepository{store: store}
}

func (r *ScoringRepository) ListRules(_ context.Context, leagueID int64) ([]scoring.Rule, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rules := make([]scoring.Rule, 0)
	for _, rule := range r.store.rules {
		if rule.LeagueID == leagueID {
			rules = append(rules, rule)
		}
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ActionType < rules[j].ActionType })

	return rules, nil
}

func (r *ScoringRepository) GetRule(_ context.Context, leagueID int64, actionType string) (scoring.Rule, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rule, ok := r.store.rules[ruleKey(leagueID, actionType)]
	return rule, ok, nil
}

func (r *ScoringRepository) UpsertRule(_ context.Context, rule scoring.Rule) (scoring.Rule, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	key := ruleKey(rule.LeagueID, rule.ActionType)
	if existing, ok := r.store.rules[key]; ok {
		rule.ID = existing.ID
		rule.CreatedAt = existing.CreatedAt
	} else {
		rule.ID = r.store.nextID("scoring_rules")
	}
	r.store.rules[key] = rule

	return rule, nil
}

func (r *ScoringRepository) CreateEvent(_ context.Context, e scoring.Event) (scoring.Event, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	e.ID = r.store.nextID("scoring_events")
	r.store.events[e.ID] = e

	return e, nil
}

func (r *ScoringRepository) ListEventsByEpisode(_ context.Context, leagueID, episodeID int64) ([]scoring.Event, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	events := make([]scoring.Event, 0)
	for _, e := range r.store.events {
		if e.LeagueID == leagueID && e.EpisodeID == episodeID {
			events = append(events, e)
		}
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })

	return events, nil
}
