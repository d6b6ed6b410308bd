package httpapi

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/tribalcouncil/fantasy-survivor/internal/usecase"
)

func (h *Handler) CreateEpisode(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateEpisode")
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

	var req createEpisodeRequest
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

	created, err := h.episodeService.Create(ctx, principal, usecase.CreateEpisodeInput{
		LeagueID: leagueID,
		Number:   req.Number,
		Title:    req.Title,
		AirDate:  req.AirDate,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create episode failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, episodeToDTO(created))
}

func (h *Handler) ListEpisodes(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEpisodes")
	defer span.End()

	leagueID, err := parseIDParam(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	episodes, err := h.episodeService.List(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list episodes failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]episodeDTO, 0, len(episodes))
	for _, e := range episodes {
		items = append(items, episodeToDTO(e))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetLockStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLockStatus")
	defer span.End()

	leagueID, err := parseIDParam(r, "leagueID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	status, err := h.episodeService.Status(ctx, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "get lock status failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lockStatusToDTO(status))
}
