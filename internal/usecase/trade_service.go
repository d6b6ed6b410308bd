package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/audit"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/episode"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/league"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/trade"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/user"
)

// ProposeTradeInput is the incoming payload for a trade proposal. Items
// become an immutable snapshot; ownership is re-validated at acceptance,
// not here.
type ProposeTradeInput struct {
	LeagueID   int64
	AcceptorID int64
	Note       string
	Items      []trade.Item
}

type TradeService struct {
	leagueRepo league.Repository
	tradeRepo  trade.Repository
	gate       deadlineGate
	recorder   audit.Recorder
	logger     *slog.Logger
	now        func() time.Time
}

func NewTradeService(
	leagueRepo league.Repository,
	episodeRepo episode.Repository,
	tradeRepo trade.Repository,
	recorder audit.Recorder,
	logger *slog.Logger,
) *TradeService {
	if logger == nil {
		logger = slog.Default()
	}

	return &TradeService{
		leagueRepo: leagueRepo,
		tradeRepo:  tradeRepo,
		gate:       deadlineGate{episodeRepo: episodeRepo},
		recorder:   recorder,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *TradeService) Propose(ctx context.Context, actor user.Principal, input ProposeTradeInput) (trade.Trade, error) {
	ctx, span := startUsecaseSpan(ctx, "TradeService.Propose")
	defer span.End()

	now := s.now()
	proposal := trade.Trade{
		LeagueID:   input.LeagueID,
		ProposerID: actor.UserID,
		AcceptorID: input.AcceptorID,
		Status:     trade.StatusProposed,
		Note:       input.Note,
		Items:      input.Items,
		CreatedAt:  now.UTC(),
		UpdatedAt:  now.UTC(),
	}
	if err := proposal.Validate(); err != nil {
		return trade.Trade{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	for _, userID := range []int64{proposal.ProposerID, proposal.AcceptorID} {
		member, err := s.leagueRepo.IsMember(ctx, proposal.LeagueID, userID)
		if err != nil {
			return trade.Trade{}, fmt.Errorf("check membership: %w", err)
		}
		if !member {
			return trade.Trade{}, fmt.Errorf("%w: user %d is not a member of league %d", ErrForbidden, userID, proposal.LeagueID)
		}
	}

	if err := s.gate.require(ctx, proposal.LeagueID, DeadlineNearestFuture, now); err != nil {
		s.auditLockRefusal(ctx, actor, proposal.LeagueID, err)
		return trade.Trade{}, err
	}

	created, err := s.tradeRepo.Create(ctx, proposal)
	if err != nil {
		return trade.Trade{}, fmt.Errorf("create trade: %w", err)
	}

	s.logger.InfoContext(ctx, "trade proposed",
		slog.Int64("tradeId", created.ID),
		slog.Int64("leagueId", created.LeagueID),
		slog.Int64("proposerId", created.ProposerID),
		slog.Int64("acceptorId", created.AcceptorID),
	)
	recordAudit(ctx, s.recorder, actor.UserID, audit.ActionTradeProposed, "trade", &created.ID, map[string]any{
		"leagueId":   created.LeagueID,
		"acceptorId": created.AcceptorID,
		"items":      len(created.Items),
	})

	return created, nil
}

// Accept settles the trade atomically: roster swaps and balanced ledger
// pairs land together or not at all. A losing ownership race surfaces
// as ErrConflict and leaves the trade proposed, so the acceptor may
// retry or the proposer may cancel.
func (s *TradeService) Accept(ctx context.Context, actor user.Principal, tradeID int64) (trade.Trade, error) {
	ctx, span := startUsecaseSpan(ctx, "TradeService.Accept")
	defer span.End()

	t, err := s.getForTransition(ctx, tradeID)
	if err != nil {
		return trade.Trade{}, err
	}
	if actor.UserID != t.AcceptorID {
		return trade.Trade{}, fmt.Errorf("%w: only the acceptor can accept trade %d", ErrForbidden, tradeID)
	}
	if t.Status != trade.StatusProposed {
		return trade.Trade{}, fmt.Errorf("%w: trade %d is %s", ErrInvalidState, tradeID, t.Status)
	}

	now := s.now()
	if err := s.gate.require(ctx, t.LeagueID, DeadlineNearestFuture, now); err != nil {
		s.auditLockRefusal(ctx, actor, t.LeagueID, err)
		return trade.Trade{}, err
	}

	if err := s.tradeRepo.Settle(ctx, t, now.UTC()); err != nil {
		if errors.Is(err, trade.ErrOwnershipChanged) {
			return trade.Trade{}, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return trade.Trade{}, fmt.Errorf("settle trade: %w", err)
	}

	t.Status = trade.StatusAccepted
	t.UpdatedAt = now.UTC()

	s.logger.InfoContext(ctx, "trade settled",
		slog.Int64("tradeId", t.ID),
		slog.Int64("leagueId", t.LeagueID),
	)
	recordAudit(ctx, s.recorder, actor.UserID, audit.ActionTradeAccepted, "trade", &t.ID, map[string]any{
		"leagueId": t.LeagueID,
	})

	return t, nil
}

// Reject declines a proposal. No deadline check: rejection has no
// scoring effect and must stay possible after lock so stale proposals
// do not linger.
func (s *TradeService) Reject(ctx context.Context, actor user.Principal, tradeID int64) (trade.Trade, error) {
	ctx, span := startUsecaseSpan(ctx, "TradeService.Reject")
	defer span.End()

	t, err := s.getForTransition(ctx, tradeID)
	if err != nil {
		return trade.Trade{}, err
	}
	if actor.UserID != t.AcceptorID {
		return trade.Trade{}, fmt.Errorf("%w: only the acceptor can reject trade %d", ErrForbidden, tradeID)
	}
	if t.Status != trade.StatusProposed {
		return trade.Trade{}, fmt.Errorf("%w: trade %d is %s", ErrInvalidState, tradeID, t.Status)
	}

	now := s.now().UTC()
	if err := s.tradeRepo.UpdateStatus(ctx, tradeID, trade.StatusRejected, now); err != nil {
		return trade.Trade{}, fmt.Errorf("reject trade: %w", err)
	}
	t.Status = trade.StatusRejected
	t.UpdatedAt = now

	recordAudit(ctx, s.recorder, actor.UserID, audit.ActionTradeRejected, "trade", &t.ID, map[string]any{
		"leagueId": t.LeagueID,
	})

	return t, nil
}

// Cancel withdraws a proposal. The proposer or an admin may cancel
// while the trade is still proposed.
func (s *TradeService) Cancel(ctx context.Context, actor user.Principal, tradeID int64) (trade.Trade, error) {
	ctx, span := startUsecaseSpan(ctx, "TradeService.Cancel")
	defer span.End()

	t, err := s.getForTransition(ctx, tradeID)
	if err != nil {
		return trade.Trade{}, err
	}
	if actor.UserID != t.ProposerID && !actor.IsAdmin() {
		return trade.Trade{}, fmt.Errorf("%w: only the proposer or an admin can cancel trade %d", ErrForbidden, tradeID)
	}
	if t.Status != trade.StatusProposed {
		return trade.Trade{}, fmt.Errorf("%w: trade %d is %s", ErrInvalidState, tradeID, t.Status)
	}

	now := s.now().UTC()
	if err := s.tradeRepo.UpdateStatus(ctx, tradeID, trade.StatusCanceled, now); err != nil {
		return trade.Trade{}, fmt.Errorf("cancel trade: %w", err)
	}
	t.Status = trade.StatusCanceled
	t.UpdatedAt = now

	recordAudit(ctx, s.recorder, actor.UserID, audit.ActionTradeCanceled, "trade", &t.ID, map[string]any{
		"leagueId": t.LeagueID,
	})

	return t, nil
}

// Get returns a trade visible to the actor: a party to it or an admin.
func (s *TradeService) Get(ctx context.Context, actor user.Principal, tradeID int64) (trade.Trade, error) {
	ctx, span := startUsecaseSpan(ctx, "TradeService.Get")
	defer span.End()

	t, err := s.getForTransition(ctx, tradeID)
	if err != nil {
		return trade.Trade{}, err
	}
	if actor.UserID != t.ProposerID && actor.UserID != t.AcceptorID && !actor.IsAdmin() {
		return trade.Trade{}, fmt.Errorf("%w: trade %d is not visible to user %d", ErrForbidden, tradeID, actor.UserID)
	}

	return t, nil
}

// ListForUser returns the actor's trades in a league, both directions.
func (s *TradeService) ListForUser(ctx context.Context, actor user.Principal, leagueID int64) ([]trade.Trade, error) {
	ctx, span := startUsecaseSpan(ctx, "TradeService.ListForUser")
	defer span.End()

	if leagueID <= 0 {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	trades, err := s.tradeRepo.ListByLeagueForUser(ctx, leagueID, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}

	return trades, nil
}

func (s *TradeService) getForTransition(ctx context.Context, tradeID int64) (trade.Trade, error) {
	if tradeID <= 0 {
		return trade.Trade{}, fmt.Errorf("%w: trade id is required", ErrInvalidInput)
	}

	t, found, err := s.tradeRepo.GetByID(ctx, tradeID)
	if err != nil {
		return trade.Trade{}, fmt.Errorf("get trade: %w", err)
	}
	if !found {
		return trade.Trade{}, fmt.Errorf("%w: trade %d", ErrNotFound, tradeID)
	}

	return t, nil
}

func (s *TradeService) auditLockRefusal(ctx context.Context, actor user.Principal, leagueID int64, cause error) {
	if !errors.Is(cause, ErrLocked) {
		return
	}

	recordAudit(ctx, s.recorder, actor.UserID, audit.ActionAttemptModifyLocked, "trade", nil, map[string]any{
		"leagueId": leagueID,
	})
}
