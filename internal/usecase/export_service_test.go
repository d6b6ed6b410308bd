package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/audit"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/ledger"
	"github.com/tribalcouncil/fantasy-survivor/internal/infrastructure/repository/memory"
)

func TestExportService_AdminOnly(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := NewExportService(f.ledgerRepo, memory.NewAuditRepository(f.store), discardLogger())
	ctx := context.Background()

	if _, err := svc.LedgerEntries(ctx, f.alice, f.league.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("ledger export: expected ErrForbidden, got %v", err)
	}
	if _, err := svc.AuditEntries(ctx, f.alice, 10); !errors.Is(err, ErrForbidden) {
		t.Fatalf("audit export: expected ErrForbidden, got %v", err)
	}
}

func TestExportService_LedgerEntries(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	svc := NewExportService(f.ledgerRepo, memory.NewAuditRepository(f.store), discardLogger())
	ctx := context.Background()

	if _, err := f.ledgerRepo.Append(ctx, ledger.Transaction{
		LeagueID: f.league.ID, UserID: f.alice.UserID, Amount: 5, Reason: ledger.ReasonTrade, CreatedAt: mondayBefore,
	}); err != nil {
		t.Fatalf("append: %v", err)
	}

	txs, err := svc.LedgerEntries(ctx, f.admin, f.league.ID)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("unexpected transaction count: %d", len(txs))
	}
}

func TestExportService_AuditEntries_LimitDefaults(t *testing.T) {
	t.Parallel()

	f := newLeagueFixture(t)
	auditRepo := memory.NewAuditRepository(f.store)
	svc := NewExportService(f.ledgerRepo, auditRepo, discardLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if err := auditRepo.Insert(ctx, audit.Entry{
			Timestamp:  mondayBefore,
			ActionType: audit.ActionRosterAdd,
			EntityType: "roster_entry",
		}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	entries, err := svc.AuditEntries(ctx, f.admin, 0)
	if err != nil {
		t.Fatalf("export with default limit: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("unexpected entry count: %d", len(entries))
	}

	capped, err := svc.AuditEntries(ctx, f.admin, 2)
	if err != nil {
		t.Fatalf("export with limit: %v", err)
	}
	if len(capped) != 2 {
		t.Fatalf("unexpected capped count: %d", len(capped))
	}
}
