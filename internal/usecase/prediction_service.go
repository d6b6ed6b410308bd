package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/audit"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/contestant"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/episode"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/league"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/prediction"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/user"
	"github.com/tribalcouncil/fantasy-survivor/internal/platform/lockclock"
)

// VoteInput is one contestant's share of a user's weekly vote budget.
type VoteInput struct {
	ContestantID int64
	Votes        int
}

type PredictionService struct {
	leagueRepo     league.Repository
	contestantRepo contestant.Repository
	predictionRepo prediction.Repository
	gate           deadlineGate
	recorder       audit.Recorder
	logger         *slog.Logger
	now            func() time.Time
}

func NewPredictionService(
	leagueRepo league.Repository,
	contestantRepo contestant.Repository,
	episodeRepo episode.Repository,
	predictionRepo prediction.Repository,
	recorder audit.Recorder,
	logger *slog.Logger,
) *PredictionService {
	if logger == nil {
		logger = slog.Default()
	}

	return &PredictionService{
		leagueRepo:     leagueRepo,
		contestantRepo: contestantRepo,
		predictionRepo: predictionRepo,
		gate:           deadlineGate{episodeRepo: episodeRepo},
		recorder:       recorder,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *PredictionService) GetWinnerPick(ctx context.Context, leagueID, userID int64) (prediction.WinnerPick, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.GetWinnerPick")
	defer span.End()

	if leagueID <= 0 || userID <= 0 {
		return prediction.WinnerPick{}, false, fmt.Errorf("%w: league id and user id are required", ErrInvalidInput)
	}

	pick, found, err := s.predictionRepo.GetWinnerPick(ctx, leagueID, userID)
	if err != nil {
		return prediction.WinnerPick{}, false, fmt.Errorf("get winner pick: %w", err)
	}

	return pick, found, nil
}

// SetWinnerPick upserts the season-winner pick. Gated by the nearest
// future lock: once a week closes the pick stands until the next week
// opens.
func (s *PredictionService) SetWinnerPick(ctx context.Context, actor user.Principal, leagueID, targetUserID, contestantID int64) (prediction.WinnerPick, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.SetWinnerPick")
	defer span.End()

	if leagueID <= 0 || targetUserID <= 0 || contestantID <= 0 {
		return prediction.WinnerPick{}, fmt.Errorf("%w: league, user and contestant ids are required", ErrInvalidInput)
	}
	if err := s.authorizePredictionWrite(ctx, actor, leagueID, targetUserID); err != nil {
		return prediction.WinnerPick{}, err
	}

	now := s.now()
	if err := s.gate.require(ctx, leagueID, DeadlineNearestFuture, now); err != nil {
		s.auditLockRefusal(ctx, actor, leagueID, "winner_pick", err)
		return prediction.WinnerPick{}, err
	}

	c, found, err := s.contestantRepo.GetByID(ctx, contestantID)
	if err != nil {
		return prediction.WinnerPick{}, fmt.Errorf("get contestant: %w", err)
	}
	if !found || c.LeagueID != leagueID {
		return prediction.WinnerPick{}, fmt.Errorf("%w: contestant %d not in league %d", ErrNotFound, contestantID, leagueID)
	}
	if c.Status == contestant.StatusEliminated {
		return prediction.WinnerPick{}, fmt.Errorf("%w: contestant %d is eliminated", ErrInvalidInput, contestantID)
	}

	pick, err := s.predictionRepo.SetWinnerPick(ctx, prediction.WinnerPick{
		LeagueID:     leagueID,
		UserID:       targetUserID,
		ContestantID: contestantID,
		PickedAt:     now.UTC(),
	})
	if err != nil {
		return prediction.WinnerPick{}, fmt.Errorf("set winner pick: %w", err)
	}

	recordAudit(ctx, s.recorder, actor.UserID, audit.ActionWinnerPickSet, "winner_pick", &pick.ID, map[string]any{
		"leagueId":     leagueID,
		"userId":       targetUserID,
		"contestantId": contestantID,
	})

	return pick, nil
}

// VotesView is a user's allocation for one episode plus that episode's
// lock status.
type VotesView struct {
	Allocations []prediction.VoteAllocation
	Locked      bool
	LockAt      time.Time
}

func (s *PredictionService) GetVotes(ctx context.Context, leagueID, userID, episodeID int64) (VotesView, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.GetVotes")
	defer span.End()

	if leagueID <= 0 || userID <= 0 || episodeID <= 0 {
		return VotesView{}, fmt.Errorf("%w: league, user and episode ids are required", ErrInvalidInput)
	}

	ep, found, err := s.episodeByID(ctx, episodeID)
	if err != nil {
		return VotesView{}, err
	}
	if !found || ep.LeagueID != leagueID {
		return VotesView{}, fmt.Errorf("%w: episode %d not in league %d", ErrNotFound, episodeID, leagueID)
	}

	votes, err := s.predictionRepo.ListVotes(ctx, leagueID, userID, episodeID)
	if err != nil {
		return VotesView{}, fmt.Errorf("list votes: %w", err)
	}

	return VotesView{
		Allocations: votes,
		Locked:      lockclock.IsLocked(ep.LockAt, s.now()),
		LockAt:      ep.LockAt,
	}, nil
}

// PutVotes replaces the user's vote allocation for an episode. The set
// must spend the whole budget; zero-vote rows are dropped before
// storage. Gated by the target episode's own lock, so allocations for
// an aired episode stay frozen even while a later week is open.
func (s *PredictionService) PutVotes(ctx context.Context, actor user.Principal, leagueID, targetUserID, episodeID int64, votes []VoteInput) ([]prediction.VoteAllocation, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.PutVotes")
	defer span.End()

	if leagueID <= 0 || targetUserID <= 0 || episodeID <= 0 {
		return nil, fmt.Errorf("%w: league, user and episode ids are required", ErrInvalidInput)
	}
	if err := s.authorizePredictionWrite(ctx, actor, leagueID, targetUserID); err != nil {
		return nil, err
	}

	ep, found, err := s.episodeByID(ctx, episodeID)
	if err != nil {
		return nil, err
	}
	if !found || ep.LeagueID != leagueID {
		return nil, fmt.Errorf("%w: episode %d not in league %d", ErrNotFound, episodeID, leagueID)
	}

	now := s.now()
	if lockclock.IsLocked(ep.LockAt, now) {
		err := fmt.Errorf("%w: episode %d locked since %s", ErrLocked, episodeID, ep.LockAt.Format(time.RFC3339))
		s.auditLockRefusal(ctx, actor, leagueID, "vote_prediction", err)
		return nil, err
	}

	allocations := make([]prediction.VoteAllocation, 0, len(votes))
	for _, v := range votes {
		c, found, err := s.contestantRepo.GetByID(ctx, v.ContestantID)
		if err != nil {
			return nil, fmt.Errorf("get contestant: %w", err)
		}
		if !found || c.LeagueID != leagueID {
			return nil, fmt.Errorf("%w: contestant %d not in league %d", ErrNotFound, v.ContestantID, leagueID)
		}
		allocations = append(allocations, prediction.VoteAllocation{
			LeagueID:     leagueID,
			UserID:       targetUserID,
			EpisodeID:    episodeID,
			ContestantID: v.ContestantID,
			Votes:        v.Votes,
		})
	}
	if err := prediction.ValidateVotes(allocations); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	stored := allocations[:0]
	for _, a := range allocations {
		if a.Votes > 0 {
			stored = append(stored, a)
		}
	}

	saved, err := s.predictionRepo.ReplaceVotes(ctx, leagueID, targetUserID, episodeID, stored)
	if err != nil {
		return nil, fmt.Errorf("replace votes: %w", err)
	}

	recordAudit(ctx, s.recorder, actor.UserID, audit.ActionVotesUpdated, "vote_prediction", &episodeID, map[string]any{
		"leagueId":  leagueID,
		"userId":    targetUserID,
		"episodeId": episodeID,
	})

	return saved, nil
}

func (s *PredictionService) episodeByID(ctx context.Context, episodeID int64) (episode.Episode, bool, error) {
	ep, found, err := s.gate.episodeRepo.GetByID(ctx, episodeID)
	if err != nil {
		return episode.Episode{}, false, fmt.Errorf("get episode: %w", err)
	}
	return ep, found, nil
}

func (s *PredictionService) authorizePredictionWrite(ctx context.Context, actor user.Principal, leagueID, targetUserID int64) error {
	if actor.UserID != targetUserID && !actor.IsAdmin() {
		return fmt.Errorf("%w: cannot modify another user's predictions", ErrForbidden)
	}

	member, err := s.leagueRepo.IsMember(ctx, leagueID, targetUserID)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if !member {
		return fmt.Errorf("%w: user %d is not a member of league %d", ErrForbidden, targetUserID, leagueID)
	}

	return nil
}

func (s *PredictionService) auditLockRefusal(ctx context.Context, actor user.Principal, leagueID int64, entityType string, cause error) {
	if !errors.Is(cause, ErrLocked) {
		return
	}

	recordAudit(ctx, s.recorder, actor.UserID, audit.ActionAttemptModifyLocked, entityType, nil, map[string]any{
		"leagueId": leagueID,
	})
}
