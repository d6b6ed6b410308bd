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
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/roster"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/user"
)

// RosterView is a user's roster plus the governing lock status.
type RosterView struct {
	Entries []roster.Entry
	Locked  bool
	LockAt  *time.Time
}

type RosterService struct {
	leagueRepo     league.Repository
	contestantRepo contestant.Repository
	rosterRepo     roster.Repository
	gate           deadlineGate
	recorder       audit.Recorder
	logger         *slog.Logger
	now            func() time.Time
}

func NewRosterService(
	leagueRepo league.Repository,
	contestantRepo contestant.Repository,
	episodeRepo episode.Repository,
	rosterRepo roster.Repository,
	recorder audit.Recorder,
	logger *slog.Logger,
) *RosterService {
	if logger == nil {
		logger = slog.Default()
	}

	return &RosterService{
		leagueRepo:     leagueRepo,
		contestantRepo: contestantRepo,
		rosterRepo:     rosterRepo,
		gate:           deadlineGate{episodeRepo: episodeRepo},
		recorder:       recorder,
		logger:         logger,
		now:            time.Now,
	}
}

// GetRoster returns any member's roster together with the current lock
// state, so clients can disable mutation controls after the deadline.
func (s *RosterService) GetRoster(ctx context.Context, leagueID, userID int64) (RosterView, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.GetRoster")
	defer span.End()

	if leagueID <= 0 || userID <= 0 {
		return RosterView{}, fmt.Errorf("%w: league id and user id are required", ErrInvalidInput)
	}

	entries, err := s.rosterRepo.ListByUser(ctx, leagueID, userID)
	if err != nil {
		return RosterView{}, fmt.Errorf("list roster: %w", err)
	}

	now := s.now()
	view := RosterView{Entries: entries}
	lockAt, ok, err := s.gate.governingLock(ctx, leagueID, DeadlineMostRecent, now)
	if err != nil {
		return RosterView{}, err
	}
	if ok {
		view.LockAt = &lockAt
		view.Locked = !now.Before(lockAt)
	}

	return view, nil
}

// ListLeagueRosters returns every roster entry in the league, for the
// peer-roster view.
func (s *RosterService) ListLeagueRosters(ctx context.Context, leagueID int64) ([]roster.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.ListLeagueRosters")
	defer span.End()

	if leagueID <= 0 {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	entries, err := s.rosterRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list league rosters: %w", err)
	}

	return entries, nil
}

// AddContestant puts a contestant on targetUserID's roster. Players may
// only touch their own roster; admins may act for anyone.
func (s *RosterService) AddContestant(ctx context.Context, actor user.Principal, leagueID, targetUserID, contestantID int64) (roster.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "RosterService.AddContestant")
	defer span.End()

	if leagueID <= 0 || targetUserID <= 0 || contestantID <= 0 {
		return roster.Entry{}, fmt.Errorf("%w: league, user and contestant ids are required", ErrInvalidInput)
	}
	if err := s.authorizeRosterWrite(ctx, actor, leagueID, targetUserID); err != nil {
		return roster.Entry{}, err
	}

	now := s.now()
	if err := s.gate.require(ctx, leagueID, DeadlineMostRecent, now); err != nil {
		s.auditLockRefusal(ctx, actor, leagueID, "roster_entry", err)
		return roster.Entry{}, err
	}

	c, found, err := s.contestantRepo.GetByID(ctx, contestantID)
	if err != nil {
		return roster.Entry{}, fmt.Errorf("get contestant: %w", err)
	}
	if !found || c.LeagueID != leagueID {
		return roster.Entry{}, fmt.Errorf("%w: contestant %d not in league %d", ErrNotFound, contestantID, leagueID)
	}
	if c.Status == contestant.StatusEliminated {
		return roster.Entry{}, fmt.Errorf("%w: contestant %d is eliminated", ErrInvalidInput, contestantID)
	}

	count, err := s.rosterRepo.CountByUser(ctx, leagueID, targetUserID)
	if err != nil {
		return roster.Entry{}, fmt.Errorf("count roster: %w", err)
	}
	if count >= roster.MaxSize {
		return roster.Entry{}, fmt.Errorf("%w: roster already has %d contestants", ErrInvalidInput, count)
	}

	if ownerID, owned, err := s.rosterRepo.OwnerOf(ctx, leagueID, contestantID); err != nil {
		return roster.Entry{}, fmt.Errorf("check ownership: %w", err)
	} else if owned {
		return roster.Entry{}, fmt.Errorf("%w: contestant %d already belongs to user %d", ErrConflict, contestantID, ownerID)
	}

	entry, err := s.rosterRepo.Add(ctx, roster.Entry{
		LeagueID:     leagueID,
		UserID:       targetUserID,
		ContestantID: contestantID,
		AddedAt:      now.UTC(),
	})
	if err != nil {
		if errors.Is(err, roster.ErrContestantTaken) {
			return roster.Entry{}, fmt.Errorf("%w: %v", ErrConflict, err)
		}
		return roster.Entry{}, fmt.Errorf("add roster entry: %w", err)
	}

	recordAudit(ctx, s.recorder, actor.UserID, audit.ActionRosterAdd, "roster_entry", &entry.ID, map[string]any{
		"leagueId":     leagueID,
		"userId":       targetUserID,
		"contestantId": contestantID,
	})

	return entry, nil
}

// RemoveContestant takes a contestant off targetUserID's roster.
func (s *RosterService) RemoveContestant(ctx context.Context, actor user.Principal, leagueID, targetUserID, contestantID int64) error {
	ctx, span := startUsecaseSpan(ctx, "RosterService.RemoveContestant")
	defer span.End()

	if leagueID <= 0 || targetUserID <= 0 || contestantID <= 0 {
		return fmt.Errorf("%w: league, user and contestant ids are required", ErrInvalidInput)
	}
	if err := s.authorizeRosterWrite(ctx, actor, leagueID, targetUserID); err != nil {
		return err
	}

	now := s.now()
	if err := s.gate.require(ctx, leagueID, DeadlineMostRecent, now); err != nil {
		s.auditLockRefusal(ctx, actor, leagueID, "roster_entry", err)
		return err
	}

	count, err := s.rosterRepo.CountByUser(ctx, leagueID, targetUserID)
	if err != nil {
		return fmt.Errorf("count roster: %w", err)
	}
	if count <= roster.MinSize {
		return fmt.Errorf("%w: roster cannot drop below %d contestants", ErrInvalidInput, roster.MinSize)
	}

	removed, err := s.rosterRepo.Remove(ctx, leagueID, targetUserID, contestantID)
	if err != nil {
		return fmt.Errorf("remove roster entry: %w", err)
	}
	if !removed {
		return fmt.Errorf("%w: contestant %d not on user %d roster", ErrNotFound, contestantID, targetUserID)
	}

	recordAudit(ctx, s.recorder, actor.UserID, audit.ActionRosterRemove, "roster_entry", nil, map[string]any{
		"leagueId":     leagueID,
		"userId":       targetUserID,
		"contestantId": contestantID,
	})

	return nil
}

func (s *RosterService) authorizeRosterWrite(ctx context.Context, actor user.Principal, leagueID, targetUserID int64) error {
	if actor.UserID != targetUserID && !actor.IsAdmin() {
		return fmt.Errorf("%w: cannot modify another user's roster", ErrForbidden)
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

func (s *RosterService) auditLockRefusal(ctx context.Context, actor user.Principal, leagueID int64, entityType string, cause error) {
	if !errors.Is(cause, ErrLocked) {
		return
	}

	recordAudit(ctx, s.recorder, actor.UserID, audit.ActionAttemptModifyLocked, entityType, nil, map[string]any{
		"leagueId": leagueID,
	})
}
