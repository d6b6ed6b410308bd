package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/tribalcouncil/fantasy-survivor/internal/usecase"
)

// targetUserID resolves the optional user_id override: players act on
// their own predictions, admins may act for any member.
func targetUserID(principalID, requested int64) int64 {
	if requested > 0 {
		return requested
	}
	return principalID
}

func (h *Handler) SetWinnerPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetWinnerPick")
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

	var req setWinnerPickRequest
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

	pick, err := h.predictionService.SetWinnerPick(ctx, principal, leagueID, targetUserID(principal.UserID, req.UserID), req.ContestantID)
	if err != nil {
		h.logger.WarnContext(ctx, "set winner pick failed", "league_id", leagueID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, winnerPickToDTO(pick))
}

func (h *Handler) GetWinnerPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetWinnerPick")
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

	userID := principal.UserID
	if raw := strings.TrimSpace(r.URL.Query().Get("user_id")); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: invalid user_id %q", usecase.ErrInvalidInput, raw))
			return
		}
		userID = parsed
	}

	pick, found, err := h.predictionService.GetWinnerPick(ctx, leagueID, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "get winner pick failed", "league_id", leagueID, "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !found {
		writeError(ctx, w, fmt.Errorf("%w: winner pick not found", usecase.ErrNotFound))
		return
	}

	writeSuccess(ctx, w, http.StatusOK, winnerPickToDTO(pick))
}

func (h *Handler) PutVotes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PutVotes")
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

	var req putVotesRequest
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

	votes := make([]usecase.VoteInput, 0, len(req.Votes))
	for _, v := range req.Votes {
		votes = append(votes, usecase.VoteInput{ContestantID: v.ContestantID, Votes: v.Votes})
	}

	stored, err := h.predictionService.PutVotes(ctx, principal, leagueID, targetUserID(principal.UserID, req.UserID), episodeID, votes)
	if err != nil {
		h.logger.WarnContext(ctx, "put votes failed",
			"league_id", leagueID, "episode_id", episodeID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]voteAllocationDTO, 0, len(stored))
	for _, v := range stored {
		items = append(items, voteAllocationToDTO(v))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetVotes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetVotes")
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

	view, err := h.predictionService.GetVotes(ctx, leagueID, principal.UserID, episodeID)
	if err != nil {
		h.logger.WarnContext(ctx, "get votes failed",
			"league_id", leagueID, "episode_id", episodeID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, votesViewToDTO(view))
}
