package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/audit"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/ledger"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/user"
)

const defaultAuditExportLimit = 1000

// ExportService feeds the admin ledger and audit export endpoints.
type ExportService struct {
	ledgerRepo ledger.Repository
	auditRepo  audit.Repository
	logger     *slog.Logger
}

func NewExportService(ledgerRepo ledger.Repository, auditRepo audit.Repository, logger *slog.Logger) *ExportService {
	if logger == nil {
		logger = slog.Default()
	}

	return &ExportService{
		ledgerRepo: ledgerRepo,
		auditRepo:  auditRepo,
		logger:     logger,
	}
}

func (s *ExportService) LedgerEntries(ctx context.Context, actor user.Principal, leagueID int64) ([]ledger.Transaction, error) {
	ctx, span := startUsecaseSpan(ctx, "ExportService.LedgerEntries")
	defer span.End()

	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can export the ledger", ErrForbidden)
	}
	if leagueID <= 0 {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	txs, err := s.ledgerRepo.ListByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}

	return txs, nil
}

func (s *ExportService) AuditEntries(ctx context.Context, actor user.Principal, limit int) ([]audit.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "ExportService.AuditEntries")
	defer span.End()

	if !actor.IsAdmin() {
		return nil, fmt.Errorf("%w: only admins can export the audit log", ErrForbidden)
	}
	if limit <= 0 {
		limit = defaultAuditExportLimit
	}

	entries, err := s.auditRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list audit log: %w", err)
	}

	return entries, nil
}
