package httpapi

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/tribalcouncil/fantasy-survivor/internal/usecase"
)

func (h *Handler) GetRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoster")
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

	view, err := h.rosterService.GetRoster(ctx, leagueID, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "get roster failed", "league_id", leagueID, "user_id", userID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterViewToDTO(view))
}

func (h *Handler) ListLeagueRosters(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListLeagueRosters")
	defer span.End()

	leagueID, err := parseIDParam(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	entries, err := h.rosterService.ListLeagueRosters(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list rosters failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]rosterEntryDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, rosterEntryToDTO(e))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) AddRosterContestant(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddRosterContestant")
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
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req addRosterContestantRequest
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

	entry, err := h.rosterService.AddContestant(ctx, principal, leagueID, userID, req.ContestantID)
	if err != nil {
		h.logger.WarnContext(ctx, "add roster contestant failed",
			"league_id", leagueID, "user_id", userID, "contestant_id", req.ContestantID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, rosterEntryToDTO(entry))
}

func (h *Handler) RemoveRosterContestant(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RemoveRosterContestant")
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
	userID, err := parseIDParam(r, "userID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	contestantID, err := parseIDParam(r, "contestantID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	if err := h.rosterService.RemoveContestant(ctx, principal, leagueID, userID, contestantID); err != nil {
		h.logger.WarnContext(ctx, "remove roster contestant failed",
			"league_id", leagueID, "user_id", userID, "contestant_id", contestantID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "removed"})
}
