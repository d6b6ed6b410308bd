package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/league"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/scoring"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/user"
	"github.com/tribalcouncil/fantasy-survivor/internal/platform/invite"
)

// CreateLeagueInput is the incoming payload for a league create.
type CreateLeagueInput struct {
	Name       string
	SeasonName string
}

// UpdateLeagueInput carries optional league fields; nil means keep.
type UpdateLeagueInput struct {
	Name       *string
	SeasonName *string
}

type LeagueService struct {
	leagueRepo  league.Repository
	scoringRepo scoring.Repository
	userRepo    user.Repository
	codes       invite.Generator
	logger      *slog.Logger
	now         func() time.Time
}

func NewLeagueService(
	leagueRepo league.Repository,
	scoringRepo scoring.Repository,
	userRepo user.Repository,
	codes invite.Generator,
	logger *slog.Logger,
) *LeagueService {
	if logger == nil {
		logger = slog.Default()
	}

	return &LeagueService{
		leagueRepo:  leagueRepo,
		scoringRepo: scoringRepo,
		userRepo:    userRepo,
		codes:       codes,
		logger:      logger,
		now:         time.Now,
	}
}

// Create stores a league with a fresh invite code, seeds the default
// scoring rules, and enrolls the creator as its first member.
func (s *LeagueService) Create(ctx context.Context, actor user.Principal, input CreateLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.Create")
	defer span.End()

	if !actor.IsAdmin() {
		return league.League{}, fmt.Errorf("%w: only admins can create leagues", ErrForbidden)
	}

	l := league.League{
		Name:       strings.TrimSpace(input.Name),
		SeasonName: strings.TrimSpace(input.SeasonName),
		CreatedAt:  s.now().UTC(),
	}
	if err := l.Validate(); err != nil {
		return league.League{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	code, err := s.codes.NewCode()
	if err != nil {
		return league.League{}, fmt.Errorf("generate invite code: %w", err)
	}
	l.InviteCode = code

	created, err := s.leagueRepo.Create(ctx, l)
	if err != nil {
		return league.League{}, fmt.Errorf("create league: %w", err)
	}

	for _, rule := range scoring.DefaultRules(created.ID) {
		if _, err := s.scoringRepo.UpsertRule(ctx, rule); err != nil {
			return league.League{}, fmt.Errorf("seed scoring rule %s: %w", rule.ActionType, err)
		}
	}

	if err := s.leagueRepo.AddMember(ctx, league.Member{
		LeagueID: created.ID,
		UserID:   actor.UserID,
		JoinedAt: s.now().UTC(),
	}); err != nil {
		return league.League{}, fmt.Errorf("add creator membership: %w", err)
	}

	s.logger.InfoContext(ctx, "league created",
		slog.Int64("leagueId", created.ID),
		slog.String("name", created.Name),
	)

	return created, nil
}

func (s *LeagueService) Update(ctx context.Context, actor user.Principal, leagueID int64, input UpdateLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.Update")
	defer span.End()

	if !actor.IsAdmin() {
		return league.League{}, fmt.Errorf("%w: only admins can update leagues", ErrForbidden)
	}

	l, found, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !found {
		return league.League{}, fmt.Errorf("%w: league %d", ErrNotFound, leagueID)
	}

	if input.Name != nil {
		l.Name = strings.TrimSpace(*input.Name)
	}
	if input.SeasonName != nil {
		l.SeasonName = strings.TrimSpace(*input.SeasonName)
	}
	if err := l.Validate(); err != nil {
		return league.League{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.leagueRepo.Update(ctx, l); err != nil {
		return league.League{}, fmt.Errorf("update league: %w", err)
	}

	return l, nil
}

func (s *LeagueService) List(ctx context.Context) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.List")
	defer span.End()

	leagues, err := s.leagueRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	return leagues, nil
}

func (s *LeagueService) Get(ctx context.Context, leagueID int64) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.Get")
	defer span.End()

	if leagueID <= 0 {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	l, found, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league: %w", err)
	}
	if !found {
		return league.League{}, fmt.Errorf("%w: league %d", ErrNotFound, leagueID)
	}

	return l, nil
}

// Join enrolls the caller into the league matching the invite code.
// Joining twice is a no-op.
func (s *LeagueService) Join(ctx context.Context, actor user.Principal, code string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.Join")
	defer span.End()

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return league.League{}, fmt.Errorf("%w: invite code is required", ErrInvalidInput)
	}

	l, found, err := s.leagueRepo.GetByInviteCode(ctx, code)
	if err != nil {
		return league.League{}, fmt.Errorf("get league by invite code: %w", err)
	}
	if !found {
		return league.League{}, fmt.Errorf("%w: no league for that invite code", ErrNotFound)
	}

	member, err := s.leagueRepo.IsMember(ctx, l.ID, actor.UserID)
	if err != nil {
		return league.League{}, fmt.Errorf("check membership: %w", err)
	}
	if member {
		return l, nil
	}

	if err := s.leagueRepo.AddMember(ctx, league.Member{
		LeagueID: l.ID,
		UserID:   actor.UserID,
		JoinedAt: s.now().UTC(),
	}); err != nil {
		return league.League{}, fmt.Errorf("add membership: %w", err)
	}

	return l, nil
}

// AddMember lets an admin enroll any user directly.
func (s *LeagueService) AddMember(ctx context.Context, actor user.Principal, leagueID, userID int64) error {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.AddMember")
	defer span.End()

	if !actor.IsAdmin() {
		return fmt.Errorf("%w: only admins can add members directly", ErrForbidden)
	}
	if leagueID <= 0 || userID <= 0 {
		return fmt.Errorf("%w: league id and user id are required", ErrInvalidInput)
	}

	if _, found, err := s.leagueRepo.GetByID(ctx, leagueID); err != nil {
		return fmt.Errorf("get league: %w", err)
	} else if !found {
		return fmt.Errorf("%w: league %d", ErrNotFound, leagueID)
	}
	if _, found, err := s.userRepo.GetByID(ctx, userID); err != nil {
		return fmt.Errorf("get user: %w", err)
	} else if !found {
		return fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}

	member, err := s.leagueRepo.IsMember(ctx, leagueID, userID)
	if err != nil {
		return fmt.Errorf("check membership: %w", err)
	}
	if member {
		return nil
	}

	return s.leagueRepo.AddMember(ctx, league.Member{
		LeagueID: leagueID,
		UserID:   userID,
		JoinedAt: s.now().UTC(),
	})
}

func (s *LeagueService) ListMembers(ctx context.Context, leagueID int64) ([]league.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.ListMembers")
	defer span.End()

	if leagueID <= 0 {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	members, err := s.leagueRepo.ListMembers(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	return members, nil
}

// ListUsers is the admin user directory.
func (s *LeagueService) ListUsers(ctx context.Context, actor user.Principal) ([]user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.ListUsers")
	defer span.End()

	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can list users", ErrForbidden)
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	return users, nil
}
