package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/episode"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/league"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/user"
	"github.com/tribalcouncil/fantasy-survivor/internal/platform/lockclock"
)

// CreateEpisodeInput is the incoming payload for an admin episode create.
type CreateEpisodeInput struct {
	LeagueID int64
	Number   int
	Title    string
	AirDate  time.Time
}

// LockStatus reports the league's deadlines for clients.
type LockStatus struct {
	Locked        bool
	CurrentLockAt *time.Time
	NextLockAt    time.Time
}

type EpisodeService struct {
	leagueRepo  league.Repository
	episodeRepo episode.Repository
	gate        deadlineGate
	logger      *slog.Logger
	now         func() time.Time
}

func NewEpisodeService(leagueRepo league.Repository, episodeRepo episode.Repository, logger *slog.Logger) *EpisodeService {
	if logger == nil {
		logger = slog.Default()
	}

	return &EpisodeService{
		leagueRepo:  leagueRepo,
		episodeRepo: episodeRepo,
		gate:        deadlineGate{episodeRepo: episodeRepo},
		logger:      logger,
		now:         time.Now,
	}
}

// Create stores a new episode. The lock instant is derived from the air
// date exactly once here; nothing ever recomputes it afterwards.
func (s *EpisodeService) Create(ctx context.Context, actor user.Principal, input CreateEpisodeInput) (episode.Episode, error) {
	ctx, span := startUsecaseSpan(ctx, "EpisodeService.Create")
	defer span.End()

	if !actor.IsAdmin() {
		return episode.Episode{}, fmt.Errorf("%w: only admins can create episodes", ErrForbidden)
	}

	ep := episode.Episode{
		LeagueID: input.LeagueID,
		Number:   input.Number,
		Title:    input.Title,
		AirDate:  input.AirDate,
	}
	if err := ep.Validate(); err != nil {
		return episode.Episode{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if _, found, err := s.leagueRepo.GetByID(ctx, input.LeagueID); err != nil {
		return episode.Episode{}, fmt.Errorf("get league: %w", err)
	} else if !found {
		return episode.Episode{}, fmt.Errorf("%w: league %d", ErrNotFound, input.LeagueID)
	}

	ep.LockAt = lockclock.LockTimeForWeek(input.AirDate)
	ep.CreatedAt = s.now().UTC()

	created, err := s.episodeRepo.Create(ctx, ep)
	if err != nil {
		return episode.Episode{}, fmt.Errorf("create episode: %w", err)
	}

	s.logger.InfoContext(ctx, "episode created",
		slog.Int64("episodeId", created.ID),
		slog.Int64("leagueId", created.LeagueID),
		slog.Time("lockAt", created.LockAt),
	)

	return created, nil
}

func (s *EpisodeService) List(ctx context.Context, leagueID int64) ([]episode.Episode, error) {
	ctx, span := startUsecaseSpan(ctx, "EpisodeService.List")
	defer span.End()

	if leagueID <= 0 {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	episodes, err := s.episodeRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list episodes: %w", err)
	}

	return episodes, nil
}

// Status reports whether the league is currently locked and when the
// next deadline falls. NextLockAt always answers, from the schedule if
// one exists, otherwise straight from the weekly rule.
func (s *EpisodeService) Status(ctx context.Context, leagueID int64) (LockStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "EpisodeService.Status")
	defer span.End()

	if leagueID <= 0 {
		return LockStatus{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	now := s.now()
	status := LockStatus{NextLockAt: lockclock.NextLockTime(now)}

	lockAt, ok, err := s.gate.governingLock(ctx, leagueID, DeadlineMostRecent, now)
	if err != nil {
		return LockStatus{}, err
	}
	if ok {
		status.CurrentLockAt = &lockAt
		status.Locked = lockclock.IsLocked(lockAt, now)
	}

	if next, ok, err := s.gate.governingLock(ctx, leagueID, DeadlineNearestFuture, now); err != nil {
		return LockStatus{}, err
	} else if ok {
		status.NextLockAt = next
	}

	return status, nil
}
