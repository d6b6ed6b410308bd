package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/trade"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/user"
	"github.com/tribalcouncil/fantasy-survivor/internal/usecase"
)

func (h *Handler) ProposeTrade(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ProposeTrade")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req proposeTradeRequest
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

	items := make([]trade.Item, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, trade.Item{
			Side:         trade.Side(item.Side),
			Type:         trade.ItemType(item.Type),
			ContestantID: item.ContestantID,
			Points:       item.Points,
		})
	}

	proposed, err := h.tradeService.Propose(ctx, principal, usecase.ProposeTradeInput{
		LeagueID:   req.LeagueID,
		AcceptorID: req.AcceptorID,
		Note:       req.Note,
		Items:      items,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "propose trade failed", "user_id", principal.UserID, "league_id", req.LeagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, tradeToDTO(proposed))
}

func (h *Handler) ListTrades(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTrades")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	rawLeagueID := strings.TrimSpace(r.URL.Query().Get("league_id"))
	leagueID, err := strconv.ParseInt(rawLeagueID, 10, 64)
	if err != nil || leagueID <= 0 {
		writeError(ctx, w, fmt.Errorf("%w: invalid league_id %q", usecase.ErrInvalidInput, rawLeagueID))
		return
	}

	trades, err := h.tradeService.ListForUser(ctx, principal, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "list trades failed", "user_id", principal.UserID, "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]tradeDTO, 0, len(trades))
	for _, t := range trades {
		items = append(items, tradeToDTO(t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetTrade(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTrade")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	tradeID, err := parseIDParam(r, "tradeID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	found, err := h.tradeService.Get(ctx, principal, tradeID)
	if err != nil {
		h.logger.WarnContext(ctx, "get trade failed", "trade_id", tradeID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tradeToDTO(found))
}

func (h *Handler) AcceptTrade(w http.ResponseWriter, r *http.Request) {
	h.resolveTrade(w, r, "httpapi.Handler.AcceptTrade", "accept", h.tradeService.Accept)
}

func (h *Handler) RejectTrade(w http.ResponseWriter, r *http.Request) {
	h.resolveTrade(w, r, "httpapi.Handler.RejectTrade", "reject", h.tradeService.Reject)
}

func (h *Handler) CancelTrade(w http.ResponseWriter, r *http.Request) {
	h.resolveTrade(w, r, "httpapi.Handler.CancelTrade", "cancel", h.tradeService.Cancel)
}

// resolveTrade handles the shared shape of the three state transitions:
// path id, principal, one service call, trade DTO out.
func (h *Handler) resolveTrade(
	w http.ResponseWriter,
	r *http.Request,
	spanName, action string,
	transition func(ctx context.Context, actor user.Principal, tradeID int64) (trade.Trade, error),
) {
	ctx, span := startSpan(r.Context(), spanName)
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	tradeID, err := parseIDParam(r, "tradeID")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	resolved, err := transition(ctx, principal, tradeID)
	if err != nil {
		h.logger.WarnContext(ctx, "trade transition failed",
			"action", action, "trade_id", tradeID, "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tradeToDTO(resolved))
}
