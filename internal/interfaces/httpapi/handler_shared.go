package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/audit"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/contestant"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/episode"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/league"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/ledger"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/prediction"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/roster"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/scoring"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/trade"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/user"
	"github.com/tribalcouncil/fantasy-survivor/internal/usecase"
)

type Handler struct {
	leagueService      *usecase.LeagueService
	contestantService  *usecase.ContestantService
	episodeService     *usecase.EpisodeService
	rosterService      *usecase.RosterService
	tradeService       *usecase.TradeService
	predictionService  *usecase.PredictionService
	scoringService     *usecase.ScoringService
	leaderboardService *usecase.LeaderboardService
	exportService      *usecase.ExportService
	logger             *slog.Logger
	validator          *validator.Validate
}

func NewHandler(
	leagueService *usecase.LeagueService,
	contestantService *usecase.ContestantService,
	episodeService *usecase.EpisodeService,
	rosterService *usecase.RosterService,
	tradeService *usecase.TradeService,
	predictionService *usecase.PredictionService,
	scoringService *usecase.ScoringService,
	leaderboardService *usecase.LeaderboardService,
	exportService *usecase.ExportService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		leagueService:      leagueService,
		contestantService:  contestantService,
		episodeService:     episodeService,
		rosterService:      rosterService,
		tradeService:       tradeService,
		predictionService:  predictionService,
		scoringService:     scoringService,
		leaderboardService: leaderboardService,
		exportService:      exportService,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", usecase.ErrInvalidInput, name, raw)
	}

	return id, nil
}

type createLeagueRequest struct {
	Name       string `json:"name" validate:"required,max=120"`
	SeasonName string `json:"season_name" validate:"required,max=120"`
}

type updateLeagueRequest struct {
	Name       *string `json:"name" validate:"omitempty,max=120"`
	SeasonName *string `json:"season_name" validate:"omitempty,max=120"`
}

type joinLeagueRequest struct {
	InviteCode string `json:"invite_code" validate:"required,min=6,max=32"`
}

type addLeagueMemberRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

type createContestantRequest struct {
	Name string `json:"name" validate:"required,max=120"`
}

type updateContestantRequest struct {
	Name                *string `json:"name" validate:"omitempty,max=120"`
	Status              *string `json:"status" validate:"omitempty,oneof=active eliminated injured"`
	EliminatedEpisodeID *int64  `json:"eliminated_episode_id" validate:"omitempty,gt=0"`
}

type createEpisodeRequest struct {
	Number  int       `json:"number" validate:"required,gt=0"`
	Title   string    `json:"title" validate:"omitempty,max=200"`
	AirDate time.Time `json:"air_date" validate:"required"`
}

type addRosterContestantRequest struct {
	ContestantID int64 `json:"contestant_id" validate:"required,gt=0"`
}

type proposeTradeRequest struct {
	LeagueID   int64              `json:"league_id" validate:"required,gt=0"`
	AcceptorID int64              `json:"acceptor_id" validate:"required,gt=0"`
	Note       string             `json:"note" validate:"omitempty,max=500"`
	Items      []tradeItemRequest `json:"items" validate:"required,min=1,dive"`
}

type tradeItemRequest struct {
	Side         string `json:"side" validate:"required,oneof=from_proposer from_acceptor"`
	Type         string `json:"type" validate:"required,oneof=contestant points"`
	ContestantID *int64 `json:"contestant_id" validate:"omitempty,gt=0"`
	Points       *int64 `json:"points" validate:"omitempty,gte=0"`
}

type setWinnerPickRequest struct {
	UserID       int64 `json:"user_id" validate:"omitempty,gt=0"`
	ContestantID int64 `json:"contestant_id" validate:"required,gt=0"`
}

type putVotesRequest struct {
	UserID int64         `json:"user_id" validate:"omitempty,gt=0"`
	Votes  []voteRequest `json:"votes" validate:"required,dive"`
}

type voteRequest struct {
	ContestantID int64 `json:"contestant_id" validate:"required,gt=0"`
	Votes        int   `json:"votes" validate:"gte=0"`
}

type updateScoringRuleRequest struct {
	Points float64 `json:"points"`
}

type createScoringEventRequest struct {
	ActionType   string         `json:"action_type" validate:"required,max=80"`
	ContestantID *int64         `json:"contestant_id" validate:"omitempty,gt=0"`
	Metadata     map[string]any `json:"metadata" validate:"omitempty"`
}

type applyVotePointsRequest struct {
	VotedOutContestantID int64 `json:"voted_out_contestant_id" validate:"required,gt=0"`
}

type leagueDTO struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	SeasonName string    `json:"season_name"`
	InviteCode string    `json:"invite_code,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func leagueToDTO(l league.League, includeInvite bool) leagueDTO {
	dto := leagueDTO{
		ID:         l.ID,
		Name:       l.Name,
		SeasonName: l.SeasonName,
		CreatedAt:  l.CreatedAt,
	}
	if includeInvite {
		dto.InviteCode = l.InviteCode
	}
	return dto
}

type memberDTO struct {
	LeagueID int64     `json:"league_id"`
	UserID   int64     `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

func memberToDTO(m league.Member) memberDTO {
	return memberDTO{LeagueID: m.LeagueID, UserID: m.UserID, JoinedAt: m.JoinedAt}
}

type userDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

func userToDTO(u user.User) userDTO {
	return userDTO{ID: u.ID, Username: u.Username, Role: string(u.Role)}
}

type contestantDTO struct {
	ID                  int64  `json:"id"`
	LeagueID            int64  `json:"league_id"`
	Name                string `json:"name"`
	Status              string `json:"status"`
	EliminatedEpisodeID *int64 `json:"eliminated_episode_id,omitempty"`
}

func contestantToDTO(c contestant.Contestant) contestantDTO {
	return contestantDTO{
		ID:                  c.ID,
		LeagueID:            c.LeagueID,
		Name:                c.Name,
		Status:              string(c.Status),
		EliminatedEpisodeID: c.EliminatedEpisodeID,
	}
}

type episodeDTO struct {
	ID       int64     `json:"id"`
	LeagueID int64     `json:"league_id"`
	Number   int       `json:"number"`
	Title    string    `json:"title,omitempty"`
	AirDate  time.Time `json:"air_date"`
	LockAt   time.Time `json:"lock_at"`
}

func episodeToDTO(e episode.Episode) episodeDTO {
	return episodeDTO{
		ID:       e.ID,
		LeagueID: e.LeagueID,
		Number:   e.Number,
		Title:    e.Title,
		AirDate:  e.AirDate,
		LockAt:   e.LockAt,
	}
}

type lockStatusDTO struct {
	Locked        bool       `json:"locked"`
	CurrentLockAt *time.Time `json:"current_lock_at,omitempty"`
	NextLockAt    time.Time  `json:"next_lock_at"`
}

func lockStatusToDTO(s usecase.LockStatus) lockStatusDTO {
	return lockStatusDTO{
		Locked:        s.Locked,
		CurrentLockAt: s.CurrentLockAt,
		NextLockAt:    s.NextLockAt,
	}
}

type rosterEntryDTO struct {
	ID           int64     `json:"id"`
	LeagueID     int64     `json:"league_id"`
	UserID       int64     `json:"user_id"`
	ContestantID int64     `json:"contestant_id"`
	AddedAt      time.Time `json:"added_at"`
}

func rosterEntryToDTO(e roster.Entry) rosterEntryDTO {
	return rosterEntryDTO{
		ID:           e.ID,
		LeagueID:     e.LeagueID,
		UserID:       e.UserID,
		ContestantID: e.ContestantID,
		AddedAt:      e.AddedAt,
	}
}

type rosterViewDTO struct {
	Entries []rosterEntryDTO `json:"entries"`
	Locked  bool             `json:"locked"`
	LockAt  *time.Time       `json:"lock_at,omitempty"`
}

func rosterViewToDTO(v usecase.RosterView) rosterViewDTO {
	entries := make([]rosterEntryDTO, 0, len(v.Entries))
	for _, e := range v.Entries {
		entries = append(entries, rosterEntryToDTO(e))
	}
	return rosterViewDTO{Entries: entries, Locked: v.Locked, LockAt: v.LockAt}
}

type tradeItemDTO struct {
	ID           int64  `json:"id"`
	Side         string `json:"side"`
	Type         string `json:"type"`
	ContestantID *int64 `json:"contestant_id,omitempty"`
	Points       *int64 `json:"points,omitempty"`
}

type tradeDTO struct {
	ID         int64          `json:"id"`
	LeagueID   int64          `json:"league_id"`
	ProposerID int64          `json:"proposer_id"`
	AcceptorID int64          `json:"acceptor_id"`
	Status     string         `json:"status"`
	Note       string         `json:"note,omitempty"`
	Items      []tradeItemDTO `json:"items"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

func tradeToDTO(t trade.Trade) tradeDTO {
	items := make([]tradeItemDTO, 0, len(t.Items))
	for _, item := range t.Items {
		items = append(items, tradeItemDTO{
			ID:           item.ID,
			Side:         string(item.Side),
			Type:         string(item.Type),
			ContestantID: item.ContestantID,
			Points:       item.Points,
		})
	}
	return tradeDTO{
		ID:         t.ID,
		LeagueID:   t.LeagueID,
		ProposerID: t.ProposerID,
		AcceptorID: t.AcceptorID,
		Status:     string(t.Status),
		Note:       t.Note,
		Items:      items,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
}

type winnerPickDTO struct {
	LeagueID     int64     `json:"league_id"`
	UserID       int64     `json:"user_id"`
	ContestantID int64     `json:"contestant_id"`
	PickedAt     time.Time `json:"picked_at"`
}

func winnerPickToDTO(p prediction.WinnerPick) winnerPickDTO {
	return winnerPickDTO{
		LeagueID:     p.LeagueID,
		UserID:       p.UserID,
		ContestantID: p.ContestantID,
		PickedAt:     p.PickedAt,
	}
}

type voteAllocationDTO struct {
	EpisodeID    int64 `json:"episode_id"`
	ContestantID int64 `json:"contestant_id"`
	Votes        int   `json:"votes"`
}

func voteAllocationToDTO(v prediction.VoteAllocation) voteAllocationDTO {
	return voteAllocationDTO{
		EpisodeID:    v.EpisodeID,
		ContestantID: v.ContestantID,
		Votes:        v.Votes,
	}
}

type votesViewDTO struct {
	Votes  []voteAllocationDTO `json:"votes"`
	Locked bool                `json:"locked"`
	LockAt time.Time           `json:"lock_at"`
}

func votesViewToDTO(v usecase.VotesView) votesViewDTO {
	votes := make([]voteAllocationDTO, 0, len(v.Allocations))
	for _, a := range v.Allocations {
		votes = append(votes, voteAllocationToDTO(a))
	}
	return votesViewDTO{Votes: votes, Locked: v.Locked, LockAt: v.LockAt}
}

type scoringRuleDTO struct {
	LeagueID   int64   `json:"league_id"`
	ActionType string  `json:"action_type"`
	Points     float64 `json:"points"`
}

func scoringRuleToDTO(r scoring.Rule) scoringRuleDTO {
	return scoringRuleDTO{LeagueID: r.LeagueID, ActionType: r.ActionType, Points: r.Points}
}

type scoringEventDTO struct {
	ID              int64          `json:"id"`
	LeagueID        int64          `json:"league_id"`
	EpisodeID       int64          `json:"episode_id"`
	ActionType      string         `json:"action_type"`
	ContestantID    *int64         `json:"contestant_id,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	CreatedByUserID *int64         `json:"created_by_user_id,omitempty"`
}

func scoringEventToDTO(e scoring.Event) scoringEventDTO {
	return scoringEventDTO{
		ID:              e.ID,
		LeagueID:        e.LeagueID,
		EpisodeID:       e.EpisodeID,
		ActionType:      e.ActionType,
		ContestantID:    e.ContestantID,
		Metadata:        e.Metadata,
		CreatedAt:       e.CreatedAt,
		CreatedByUserID: e.CreatedByUserID,
	}
}

type leaderboardRowDTO struct {
	UserID    int64              `json:"user_id"`
	Total     float64            `json:"total"`
	Breakdown map[string]float64 `json:"breakdown"`
}

func leaderboardRowToDTO(row usecase.LeaderboardRow) leaderboardRowDTO {
	return leaderboardRowDTO{UserID: row.UserID, Total: row.Total, Breakdown: row.Breakdown}
}

type ledgerTransactionDTO struct {
	ID            int64     `json:"id"`
	LeagueID      int64     `json:"league_id"`
	UserID        int64     `json:"user_id"`
	Amount        float64   `json:"amount"`
	Reason        string    `json:"reason"`
	ReferenceType *string   `json:"reference_type,omitempty"`
	ReferenceID   *int64    `json:"reference_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

func ledgerTransactionToDTO(t ledger.Transaction) ledgerTransactionDTO {
	return ledgerTransactionDTO{
		ID:            t.ID,
		LeagueID:      t.LeagueID,
		UserID:        t.UserID,
		Amount:        t.Amount,
		Reason:        t.Reason,
		ReferenceType: t.ReferenceType,
		ReferenceID:   t.ReferenceID,
		CreatedAt:     t.CreatedAt,
	}
}

type auditEntryDTO struct {
	ID          int64          `json:"id"`
	Timestamp   time.Time      `json:"timestamp"`
	ActorUserID *int64         `json:"actor_user_id,omitempty"`
	ActionType  string         `json:"action_type"`
	EntityType  string         `json:"entity_type"`
	EntityID    *int64         `json:"entity_id,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	IP          string         `json:"ip,omitempty"`
	UserAgent   string         `json:"user_agent,omitempty"`
}

func auditEntryToDTO(e audit.Entry) auditEntryDTO {
	return auditEntryDTO{
		ID:          e.ID,
		Timestamp:   e.Timestamp,
		ActorUserID: e.ActorUserID,
		ActionType:  e.ActionType,
		EntityType:  e.EntityType,
		EntityID:    e.EntityID,
		Metadata:    e.Metadata,
		IP:          e.IP,
		UserAgent:   e.UserAgent,
	}
}
