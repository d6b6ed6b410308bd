package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/tribalcouncil/fantasy-survivor/internal/usecase"
)

func (h *Handler) ListScoringRules(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListScoringRules")
	defer span.End()

	leagueID, err := parseIDParam(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rules, err := h.scoringService.ListRules(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list scoring rules failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]scoringRuleDTO, 0, len(rules))
	for _, rule := range rules {
		items = append(items, scoringRuleToDTO(rule))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) UpdateScoringRule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateScoringRule")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID, err := parseIDParam(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	actionType := strings.TrimSpace(r.PathValue("actionType"))
	if actionType == "" {
		writeError(ctx, w, fmt.Errorf("%w: action type is required", usecase.ErrInvalidInput))
		return
	}

	var req updateScoringRuleRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}

	rule, err := h.scoringService.UpdateRule(ctx, principal, leagueID, actionType, req.Points)
	if err != nil {
		h.logger.WarnContext(ctx, "update scoring rule failed",
			"league_id", leagueID, "action_type", actionType, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoringRuleToDTO(rule))
}

func (h *Handler) CreateScoringEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateScoringEvent")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID, err := parseIDParam(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	episodeID, err := parseIDParam(r, "episodeID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createScoringEventRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.scoringService.CreateEvent(ctx, principal, usecase.CreateScoringEventInput{
		LeagueID:     leagueID,
		EpisodeID:    episodeID,
		ActionType:   req.ActionType,
		ContestantID: req.ContestantID,
		Metadata:     req.Metadata,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create scoring event failed",
			"league_id", leagueID, "episode_id", episodeID, "action_type", req.ActionType, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, scoringEventToDTO(created))
}

func (h *Handler) ListScoringEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListScoringEvents")
	defer span.End()

	leagueID, err := parseIDParam(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	episodeID, err := parseIDParam(r, "episodeID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	events, err := h.scoringService.ListEvents(ctx, leagueID, episodeID)
	if err != nil {
		h.logger.WarnContext(ctx, "list scoring events failed",
			"league_id", leagueID, "episode_id", episodeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]scoringEventDTO, 0, len(events))
	for _, e := range events {
		items = append(items, scoringEventToDTO(e))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ApplyVotePoints(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApplyVotePoints")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	leagueID, err := parseIDParam(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	episodeID, err := parseIDParam(r, "episodeID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req applyVotePointsRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	payouts, err := h.scoringService.ApplyVotePoints(ctx, principal, leagueID, episodeID, req.VotedOutContestantID)
	if err != nil {
		h.logger.WarnContext(ctx, "apply vote points failed",
			"league_id", leagueID, "episode_id", episodeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]int{"payouts": payouts})
}

func (h *Handler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboard")
	defer span.End()

	leagueID, err := parseIDParam(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.leaderboardService.Standings(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get leaderboard failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]leaderboardRowDTO, 0, len(rows))
	for _, row := range rows {
		items = append(items, leaderboardRowToDTO(row))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetLedgerHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLedgerHistory")
	defer span.End()

	leagueID, err := parseIDParam(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	history, err := h.leaderboardService.History(ctx, leagueID, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "get ledger history failed",
			"league_id", leagueID, "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]ledgerTransactionDTO, 0, len(history))
	for _, tx := range history {
		items = append(items, ledgerTransactionToDTO(tx))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
