package httpapi

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/contestant"
	"github.com/tribalcouncil/fantasy-survivor/internal/usecase"
)

func (h *Handler) CreateContestant(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateContestant")
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

	var req createContestantRequest
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

	created, err := h.contestantService.Create(ctx, principal, leagueID, req.Name)
	if err != nil {
		h.logger.WarnContext(ctx, "create contestant failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, contestantToDTO(created))
}

func (h *Handler) ListContestants(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListContestants")
	defer span.End()

	leagueID, err := parseIDParam(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	contestants, err := h.contestantService.List(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list contestants failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]contestantDTO, 0, len(contestants))
	for _, c := range contestants {
		items = append(items, contestantToDTO(c))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) UpdateContestant(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateContestant")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	contestantID, err := parseIDParam(r, "contestantID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateContestantRequest
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

	input := usecase.UpdateContestantInput{
		Name:                req.Name,
		EliminatedEpisodeID: req.EliminatedEpisodeID,
	}
	if req.Status != nil {
		status := contestant.Status(*req.Status)
		input.Status = &status
	}

	updated, err := h.contestantService.Update(ctx, principal, contestantID, input)
	if err != nil {
		h.logger.WarnContext(ctx, "update contestant failed", "contestant_id", contestantID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, contestantToDTO(updated))
}
