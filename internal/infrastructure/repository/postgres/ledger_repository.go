package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/ledger"
)

type LedgerRepository struct {
	db *sqlx.DB
}

func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

func (r *LedgerRepository) Append(ctx context.Context, tx ledger.Transaction) (ledger.Transaction, error) {
	const query = `
INSERT INTO ledger_transactions (league_id, user_id, amount, reason, reference_type, reference_id)
VALUES (:league_id, :user_id, :amount, :reason, :reference_type, :reference_id)
RETURNING id, league_id, user_id, amount, reason, reference_type, reference_id, created_at`

	insertSQL, args, err := sqlx.Named(query, map[string]any{
		"league_id":      tx.LeagueID,
		"user_id":        tx.UserID,
		"amount":         tx.Amount,
		"reason":         tx.Reason,
		"reference_type": tx.ReferenceType,
		"reference_id":   tx.ReferenceID,
	})
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("bind insert ledger query: %w", err)
	}
	insertSQL = r.db.Rebind(insertSQL)

	var row ledgerTableModel
	if err := r.db.GetContext(ctx, &row, insertSQL, args...); err != nil {
		return ledger.Transaction{}, fmt.Errorf("insert ledger transaction: %w", err)
	}

	return row.toDomain(), nil
}

func (r *LedgerRepository) ListByLeague(ctx context.Context, leagueID int64) ([]ledger.Transaction, error) {
	const query = `
SELECT id, league_id, user_id, amount, reason, reference_type, reference_id, created_at
FROM ledger_transactions
WHERE league_id = $1
ORDER BY id`

	return r.list(ctx, query, leagueID)
}

func (r *LedgerRepository) ListByUser(ctx context.Context, leagueID, userID int64) ([]ledger.Transaction, error) {
	const query = `
SELECT id, league_id, user_id, amount, reason, reference_type, reference_id, created_at
FROM ledger_transactions
WHERE league_id = $1
  AND user_id = $2
ORDER BY id DESC`

	return r.list(ctx, query, leagueID, userID)
}

func (r *LedgerRepository) TotalsByLeague(ctx context.Context, leagueID int64) ([]ledger.UserTotal, error) {
	const query = `
SELECT user_id, COALESCE(SUM(amount), 0) AS total
FROM ledger_transactions
WHERE league_id = $1
GROUP BY user_id
ORDER BY user_id`

	var rows []struct {
		UserID int64   `db:"user_id"`
		Total  float64 `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, leagueID); err != nil {
		return nil, fmt.Errorf("ledger totals: %w", err)
	}

	totals := make([]ledger.UserTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, ledger.UserTotal{UserID: row.UserID, Total: row.Total})
	}

	return totals, nil
}

func (r *LedgerRepository) BreakdownByLeague(ctx context.Context, leagueID int64) ([]ledger.ReasonTotal, error) {
	const query = `
SELECT user_id, reason, COALESCE(SUM(amount), 0) AS total
FROM ledger_transactions
WHERE league_id = $1
GROUP BY user_id, reason
ORDER BY user_id, reason`

	var rows []struct {
		UserID int64   `db:"user_id"`
		Reason string  `db:"reason"`
		Total  float64 `db:"total"`
	}
	if err := r.db.SelectContext(ctx, &rows, query, leagueID); err != nil {
		return nil, fmt.Errorf("ledger breakdown: %w", err)
	}

	totals := make([]ledger.ReasonTotal, 0, len(rows))
	for _, row := range rows {
		totals = append(totals, ledger.ReasonTotal{UserID: row.UserID, Reason: row.Reason, Total: row.Total})
	}

	return totals, nil
}

func (r *LedgerRepository) list(ctx context.Context, query string, args ...any) ([]ledger.Transaction, error) {
	var rows []ledgerTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list ledger transactions: %w", err)
	}

	txs := make([]ledger.Transaction, 0, len(rows))
	for _, row := range rows {
		txs = append(txs, row.toDomain())
	}

	return txs, nil
}
