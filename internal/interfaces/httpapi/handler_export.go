package httpapi

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/valyala/bytebufferpool"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/ledger"
	"github.com/tribalcouncil/fantasy-survivor/internal/usecase"
)

func (h *Handler) ExportLedger(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportLedger")
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

	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "csv" {
		writeError(ctx, w, fmt.Errorf("%w: unsupported export format %q", usecase.ErrInvalidInput, format))
		return
	}

	entries, err := h.exportService.LedgerEntries(ctx, principal, leagueID)
	if err != nil {
		h.logger.WarnContext(ctx, "export ledger failed", "league_id", leagueID, "error", err)
		writeError(ctx, w, err)
		return
	}

	if format == "csv" {
		h.writeLedgerCSV(w, r, leagueID, entries)
		return
	}

	items := make([]ledgerTransactionDTO, 0, len(entries))
	for _, tx := range entries {
		items = append(items, ledgerTransactionToDTO(tx))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) writeLedgerCSV(w http.ResponseWriter, r *http.Request, leagueID int64, entries []ledger.Transaction) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.writeLedgerCSV")
	defer span.End()

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	writer := csv.NewWriter(buf)
	_ = writer.Write([]string{"id", "league_id", "user_id", "amount", "reason", "reference_type", "reference_id", "created_at"})
	for _, tx := range entries {
		refType := ""
		if tx.ReferenceType != nil {
			refType = *tx.ReferenceType
		}
		refID := ""
		if tx.ReferenceID != nil {
			refID = strconv.FormatInt(*tx.ReferenceID, 10)
		}
		_ = writer.Write([]string{
			strconv.FormatInt(tx.ID, 10),
			strconv.FormatInt(tx.LeagueID, 10),
			strconv.FormatInt(tx.UserID, 10),
			strconv.FormatFloat(tx.Amount, 'f', -1, 64),
			tx.Reason,
			refType,
			refID,
			tx.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		h.logger.ErrorContext(ctx, "encode ledger csv failed", "league_id", leagueID, "error", err)
		writeInternalError(ctx, w)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=ledger-%d.csv", leagueID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) ExportAudit(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ExportAudit")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: invalid limit %q", usecase.ErrInvalidInput, raw))
			return
		}
		limit = parsed
	}

	entries, err := h.exportService.AuditEntries(ctx, principal, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "export audit failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]auditEntryDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, auditEntryToDTO(e))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}
