package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/ledger"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/trade"
)

type TradeRepository struct {
	db *sqlx.DB
}

func NewTradeRepository(db *sqlx.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

func (r *TradeRepository) Create(ctx context.Context, t trade.Trade) (trade.Trade, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return trade.Trade{}, fmt.Errorf("begin tx for trade create: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const insertTradeQuery = `
INSERT INTO trades (league_id, proposer_id, acceptor_id, status, note)
VALUES (:league_id, :proposer_id, :acceptor_id, :status, :note)
RETURNING id, league_id, proposer_id, acceptor_id, status, note, created_at, updated_at`

	var note *string
	if t.Note != "" {
		note = &t.Note
	}
	insertSQL, args, err := sqlx.Named(insertTradeQuery, map[string]any{
		"league_id":   t.LeagueID,
		"proposer_id": t.ProposerID,
		"acceptor_id": t.AcceptorID,
		"status":      string(t.Status),
		"note":        note,
	})
	if err != nil {
		return trade.Trade{}, fmt.Errorf("bind insert trade query: %w", err)
	}
	insertSQL = tx.Rebind(insertSQL)

	var tradeRow tradeTableModel
	if err := tx.GetContext(ctx, &tradeRow, insertSQL, args...); err != nil {
		return trade.Trade{}, fmt.Errorf("insert trade: %w", err)
	}

	const insertItemQuery = `
INSERT INTO trade_items (trade_id, side, type, contestant_id, points)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`

	created := tradeRow.toDomain()
	created.Items = make([]trade.Item, 0, len(t.Items))
	for _, item := range t.Items {
		var itemID int64
		if err := tx.GetContext(ctx, &itemID, insertItemQuery,
			created.ID, string(item.Side), string(item.Type), item.ContestantID, item.Points,
		); err != nil {
			return trade.Trade{}, fmt.Errorf("insert trade item: %w", err)
		}
		item.ID = itemID
		item.TradeID = created.ID
		created.Items = append(created.Items, item)
	}

	if err := tx.Commit(); err != nil {
		return trade.Trade{}, fmt.Errorf("commit trade create: %w", err)
	}

	return created, nil
}

func (r *TradeRepository) GetByID(ctx context.Context, tradeID int64) (trade.Trade, bool, error) {
	const tradeQuery = `
SELECT id, league_id, proposer_id, acceptor_id, status, note, created_at, updated_at
FROM trades
WHERE id = $1`

	var tradeRow tradeTableModel
	if err := r.db.GetContext(ctx, &tradeRow, tradeQuery, tradeID); err != nil {
		if isNotFound(err) {
			return trade.Trade{}, false, nil
		}
		return trade.Trade{}, false, fmt.Errorf("get trade: %w", err)
	}

	items, err := r.itemsFor(ctx, tradeID)
	if err != nil {
		return trade.Trade{}, false, err
	}

	t := tradeRow.toDomain()
	t.Items = items

	return t, true, nil
}

func (r *TradeRepository) ListByLeagueForUser(ctx context.Context, leagueID, userID int64) ([]trade.Trade, error) {
	const query = `
SELECT id, league_id, proposer_id, acceptor_id, status, note, created_at, updated_at
FROM trades
WHERE league_id = $1
  AND (proposer_id = $2 OR acceptor_id = $2)
ORDER BY id DESC`

	var rows []tradeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, leagueID, userID); err != nil {
		return nil, fmt.Errorf("list trades: %w", err)
	}

	trades := make([]trade.Trade, 0, len(rows))
	for _, row := range rows {
		items, err := r.itemsFor(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		t := row.toDomain()
		t.Items = items
		trades = append(trades, t)
	}

	return trades, nil
}

func (r *TradeRepository) UpdateStatus(ctx context.Context, tradeID int64, status trade.Status, updatedAt time.Time) error {
	const query = `
UPDATE trades
SET status = $2,
    updated_at = $3
WHERE id = $1`

	if _, err := r.db.ExecContext(ctx, query, tradeID, string(status), updatedAt); err != nil {
		return fmt.Errorf("update trade status: %w", err)
	}

	return nil
}

// Settle executes acceptance as one transaction. The trade row is
// locked first so concurrent accepts serialize; the conditional DELETE
// per contestant item is the ownership re-validation, its row count
// tells us whether the giver still holds the contestant.
func (r *TradeRepository) Settle(ctx context.Context, t trade.Trade, settledAt time.Time) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx for trade settle: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const lockTradeQuery = `
SELECT status
FROM trades
WHERE id = $1
FOR UPDATE`

	var status string
	if err := tx.GetContext(ctx, &status, lockTradeQuery, t.ID); err != nil {
		return fmt.Errorf("lock trade row: %w", err)
	}
	if trade.Status(status) != trade.StatusProposed {
		return trade.ErrOwnershipChanged
	}

	const moveDeleteQuery = `
DELETE FROM teams
WHERE league_id = $1
  AND contestant_id = $2
  AND user_id = $3`
	const moveInsertQuery = `
INSERT INTO teams (league_id, user_id, contestant_id, added_at)
VALUES ($1, $2, $3, $4)`
	const ledgerInsertQuery = `
INSERT INTO ledger_transactions (league_id, user_id, amount, reason, reference_type, reference_id, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, item := range t.Items {
		giver, receiver := t.GiverReceiver(item.Side)
		switch item.Type {
		case trade.ItemContestant:
			result, err := tx.ExecContext(ctx, moveDeleteQuery, t.LeagueID, *item.ContestantID, giver)
			if err != nil {
				return fmt.Errorf("remove contestant from giver: %w", err)
			}
			affected, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("settle rows affected: %w", err)
			}
			if affected != 1 {
				return trade.ErrOwnershipChanged
			}
			if _, err := tx.ExecContext(ctx, moveInsertQuery, t.LeagueID, receiver, *item.ContestantID, settledAt); err != nil {
				if isUniqueViolation(err) {
					return trade.ErrOwnershipChanged
				}
				return fmt.Errorf("assign contestant to receiver: %w", err)
			}
		case trade.ItemPoints:
			amount := float64(*item.Points)
			for _, leg := range []struct {
				userID int64
				amount float64
			}{
				{giver, -amount},
				{receiver, amount},
			} {
				if _, err := tx.ExecContext(ctx, ledgerInsertQuery,
					t.LeagueID, leg.userID, leg.amount, ledger.ReasonTrade, ledger.ReferenceTrade, t.ID, settledAt,
				); err != nil {
					return fmt.Errorf("append trade ledger row: %w", err)
				}
			}
		}
	}

	const acceptQuery = `
UPDATE trades
SET status = $2,
    updated_at = $3
WHERE id = $1`

	if _, err := tx.ExecContext(ctx, acceptQuery, t.ID, string(trade.StatusAccepted), settledAt); err != nil {
		return fmt.Errorf("mark trade accepted: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit trade settle: %w", err)
	}

	return nil
}

func (r *TradeRepository) itemsFor(ctx context.Context, tradeID int64) ([]trade.Item, error) {
	const query = `
SELECT id, trade_id, side, type, contestant_id, points
FROM trade_items
WHERE trade_id = $1
ORDER BY id`

	var rows []tradeItemTableModel
	if err := r.db.SelectContext(ctx, &rows, query, tradeID); err != nil {
		return nil, fmt.Errorf("list trade items: %w", err)
	}

	items := make([]trade.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}

	return items, nil
}
