package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/audit"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/episode"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/ledger"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/prediction"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/roster"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/scoring"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/user"
)

// CreateScoringEventInput is the incoming payload for an admin scoring
// event.
type CreateScoringEventInput struct {
	LeagueID     int64
	EpisodeID    int64
	ActionType   string
	ContestantID *int64
	Metadata     map[string]any
}

type ScoringService struct {
	episodeRepo    episode.Repository
	rosterRepo     roster.Repository
	scoringRepo    scoring.Repository
	ledgerRepo     ledger.Repository
	predictionRepo prediction.Repository
	recorder       audit.Recorder
	logger         *slog.Logger
	now            func() time.Time
}

func NewScoringService(
	episodeRepo episode.Repository,
	rosterRepo roster.Repository,
	scoringRepo scoring.Repository,
	ledgerRepo ledger.Repository,
	predictionRepo prediction.Repository,
	recorder audit.Recorder,
	logger *slog.Logger,
) *ScoringService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ScoringService{
		episodeRepo:    episodeRepo,
		rosterRepo:     rosterRepo,
		scoringRepo:    scoringRepo,
		ledgerRepo:     ledgerRepo,
		predictionRepo: predictionRepo,
		recorder:       recorder,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *ScoringService) ListRules(ctx context.Context, leagueID int64) ([]scoring.Rule, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoringService.ListRules")
	defer span.End()

	if leagueID <= 0 {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	rules, err := s.scoringRepo.ListRules(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list scoring rules: %w", err)
	}

	return rules, nil
}

func (s *ScoringService) UpdateRule(ctx context.Context, actor user.Principal, leagueID int64, actionType string, points float64) (scoring.Rule, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoringService.UpdateRule")
	defer span.End()

	if !actor.IsAdmin() {
		return scoring.Rule{}, fmt.Errorf("%w: only admins can update scoring rules", ErrForbidden)
	}

	rule := scoring.Rule{
		LeagueID:   leagueID,
		ActionType: actionType,
		Points:     points,
		CreatedAt:  s.now().UTC(),
	}
	if err := rule.Validate(); err != nil {
		return scoring.Rule{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	saved, err := s.scoringRepo.UpsertRule(ctx, rule)
	if err != nil {
		return scoring.Rule{}, fmt.Errorf("upsert scoring rule: %w", err)
	}

	recordAudit(ctx, s.recorder, actor.UserID, audit.ActionScoringRuleUpdated, "scoring_rule", &saved.ID, map[string]any{
		"leagueId":   leagueID,
		"actionType": actionType,
		"points":     points,
	})

	return saved, nil
}

// CreateEvent records an in-show action. When the event names a
// contestant and the league has a rule for the action, the contestant's
// current owner is credited through the ledger. Unowned contestants
// score nobody.
func (s *ScoringService) CreateEvent(ctx context.Context, actor user.Principal, input CreateScoringEventInput) (scoring.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoringService.CreateEvent")
	defer span.End()

	if !actor.IsAdmin() {
		return scoring.Event{}, fmt.Errorf("%w: only admins can record scoring events", ErrForbidden)
	}

	ev := scoring.Event{
		LeagueID:     input.LeagueID,
		EpisodeID:    input.EpisodeID,
		ActionType:   input.ActionType,
		ContestantID: input.ContestantID,
		Metadata:     input.Metadata,
		CreatedAt:    s.now().UTC(),
	}
	actorID := actor.UserID
	ev.CreatedByUserID = &actorID
	if err := ev.Validate(); err != nil {
		return scoring.Event{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ep, found, err := s.episodeRepo.GetByID(ctx, input.EpisodeID)
	if err != nil {
		return scoring.Event{}, fmt.Errorf("get episode: %w", err)
	}
	if !found || ep.LeagueID != input.LeagueID {
		return scoring.Event{}, fmt.Errorf("%w: episode %d not in league %d", ErrNotFound, input.EpisodeID, input.LeagueID)
	}

	created, err := s.scoringRepo.CreateEvent(ctx, ev)
	if err != nil {
		return scoring.Event{}, fmt.Errorf("create scoring event: %w", err)
	}

	if created.ContestantID != nil {
		if err := s.creditOwner(ctx, created); err != nil {
			return scoring.Event{}, err
		}
	}

	recordAudit(ctx, s.recorder, actor.UserID, audit.ActionScoringEventCreated, "scoring_event", &created.ID, map[string]any{
		"leagueId":   created.LeagueID,
		"episodeId":  created.EpisodeID,
		"actionType": created.ActionType,
	})

	return created, nil
}

func (s *ScoringService) creditOwner(ctx context.Context, ev scoring.Event) error {
	rule, found, err := s.scoringRepo.GetRule(ctx, ev.LeagueID, ev.ActionType)
	if err != nil {
		return fmt.Errorf("get scoring rule: %w", err)
	}
	if !found || rule.Points == 0 {
		return nil
	}

	ownerID, owned, err := s.rosterRepo.OwnerOf(ctx, ev.LeagueID, *ev.ContestantID)
	if err != nil {
		return fmt.Errorf("resolve owner: %w", err)
	}
	if !owned {
		return nil
	}

	refType := ledger.ReferenceScoringEvent
	if _, err := s.ledgerRepo.Append(ctx, ledger.Transaction{
		LeagueID:      ev.LeagueID,
		UserID:        ownerID,
		Amount:        rule.Points,
		Reason:        ledger.ReasonScoringEvent,
		ReferenceType: &refType,
		ReferenceID:   &ev.ID,
		CreatedAt:     s.now().UTC(),
	}); err != nil {
		return fmt.Errorf("credit owner: %w", err)
	}

	return nil
}

func (s *ScoringService) ListEvents(ctx context.Context, leagueID, episodeID int64) ([]scoring.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoringService.ListEvents")
	defer span.End()

	if leagueID <= 0 || episodeID <= 0 {
		return nil, fmt.Errorf("%w: league id and episode id are required", ErrInvalidInput)
	}

	events, err := s.scoringRepo.ListEventsByEpisode(ctx, leagueID, episodeID)
	if err != nil {
		return nil, fmt.Errorf("list scoring events: %w", err)
	}

	return events, nil
}

// ApplyVotePoints pays out an episode's vote predictions: every vote a
// user put on the contestant who went home earns the vote_correct rule
// value. Runs once per (episode, contestant); calling it twice would
// double-pay, so admins confirm before invoking.
func (s *ScoringService) ApplyVotePoints(ctx context.Context, actor user.Principal, leagueID, episodeID, votedOutContestantID int64) (int, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoringService.ApplyVotePoints")
	defer span.End()

	if !actor.IsAdmin() {
		return 0, fmt.Errorf("%w: only admins can apply vote points", ErrForbidden)
	}
	if leagueID <= 0 || episodeID <= 0 || votedOutContestantID <= 0 {
		return 0, fmt.Errorf("%w: league, episode and contestant ids are required", ErrInvalidInput)
	}

	rule, found, err := s.scoringRepo.GetRule(ctx, leagueID, scoring.ActionVoteCorrect)
	if err != nil {
		return 0, fmt.Errorf("get vote_correct rule: %w", err)
	}
	if !found {
		return 0, fmt.Errorf("%w: league %d has no vote_correct rule", ErrNotFound, leagueID)
	}

	votes, err := s.predictionRepo.ListVotesByEpisode(ctx, leagueID, episodeID)
	if err != nil {
		return 0, fmt.Errorf("list episode votes: %w", err)
	}

	paid := 0
	refType := ledger.ReferenceEpisode
	for _, v := range votes {
		if v.ContestantID != votedOutContestantID || v.Votes <= 0 {
			continue
		}
		if _, err := s.ledgerRepo.Append(ctx, ledger.Transaction{
			LeagueID:      leagueID,
			UserID:        v.UserID,
			Amount:        float64(v.Votes) * rule.Points,
			Reason:        ledger.ReasonVotePrediction,
			ReferenceType: &refType,
			ReferenceID:   &episodeID,
			CreatedAt:     s.now().UTC(),
		}); err != nil {
			return paid, fmt.Errorf("pay vote points to user %d: %w", v.UserID, err)
		}
		paid++
	}

	recordAudit(ctx, s.recorder, actor.UserID, audit.ActionVotePointsApplied, "episode", &episodeID, map[string]any{
		"leagueId":     leagueID,
		"contestantId": votedOutContestantID,
		"payouts":      paid,
	})

	return paid, nil
}
