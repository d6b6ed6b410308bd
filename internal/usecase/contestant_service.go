package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/contestant"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/league"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/user"
)

// UpdateContestantInput carries optional contestant fields; nil means keep.
type UpdateContestantInput struct {
	Name                *string
	Status              *contestant.Status
	EliminatedEpisodeID *int64
}

type ContestantService struct {
	leagueRepo     league.Repository
	contestantRepo contestant.Repository
	logger         *slog.Logger
	now            func() time.Time
}

func NewContestantService(leagueRepo league.Repository, contestantRepo contestant.Repository, logger *slog.Logger) *ContestantService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ContestantService{
		leagueRepo:     leagueRepo,
		contestantRepo: contestantRepo,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *ContestantService) Create(ctx context.Context, actor user.Principal, leagueID int64, name string) (contestant.Contestant, error) {
	ctx, span := startUsecaseSpan(ctx, "ContestantService.Create")
	defer span.End()

	if !actor.IsAdmin() {
		return contestant.Contestant{}, fmt.Errorf("%w: only admins can create contestants", ErrForbidden)
	}

	if _, found, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return contestant.Contestant{}, fmt.Errorf("get league: %w", err)
	} else if !found {
		return contestant.Contestant{}, fmt.Errorf("%w: league %d", ErrNotFound, leagueID)
	}

	c := contestant.Contestant{
		LeagueID:  leagueID,
		Name:      strings.TrimSpace(name),
		Status:    contestant.StatusActive,
		CreatedAt: s.now().UTC(),
	}
	if err := c.Validate(); err != nil {
		return contestant.Contestant{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.contestantRepo.Create(ctx, c)
	if err != nil {
		return contestant.Contestant{}, fmt.Errorf("create contestant: %w", err)
	}

	return created, nil
}

func (s *ContestantService) List(ctx context.Context, leagueID int64) ([]contestant.Contestant, error) {
	ctx, span := startUsecaseSpan(ctx, "ContestantService.List")
	defer span.End()

	if leagueID <= 0 {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	contestants, err := s.contestantRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list contestants: %w", err)
	}

	return contestants, nil
}

// Update patches a contestant. Marking someone eliminated records the
// episode it happened on; reviving them clears it.
func (s *ContestantService) Update(ctx context.Context, actor user.Principal, contestantID int64, input UpdateContestantInput) (contestant.Contestant, error) {
	ctx, span := startUsecaseSpan(ctx, "ContestantService.Update")
	defer span.End()

	if !actor.IsAdmin() {
		return contestant.Contestant{}, fmt.Errorf("%w: only admins can update contestants", ErrForbidden)
	}

	c, found, err := s.contestantRepo.GetByID(ctx, contestantID)
	if err != nil {
		return contestant.Contestant{}, fmt.Errorf("get contestant: %w", err)
	}
	if !found {
		return contestant.Contestant{}, fmt.Errorf("%w: contestant %d", ErrNotFound, contestantID)
	}

	if input.Name != nil {
		c.Name = strings.TrimSpace(*input.Name)
	}
	if input.Status != nil {
		c.Status = *input.Status
		if c.Status != contestant.StatusEliminated {
			c.EliminatedEpisodeID = nil
		}
	}
	if input.EliminatedEpisodeID != nil {
		c.EliminatedEpisodeID = input.EliminatedEpisodeID
	}
	if err := c.Validate(); err != nil {
		return contestant.Contestant{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.contestantRepo.Update(ctx, c); err != nil {
		return contestant.Contestant{}, fmt.Errorf("update contestant: %w", err)
	}

	return c, nil
}
