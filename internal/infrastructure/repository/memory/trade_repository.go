package memory

import (
	"context"
	"sort"
	"time"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/ledger"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/roster"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/trade"
)

type TradeRepository struct {
	store *Store
}

func NewTradeRepository(store *Store) *TradeRepository {
	return &TradeRepository{store: store}
}

func (r *TradeRepository) Create(_ context.Context, t trade.Trade) (trade.Trade, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	t.ID = r.store.nextID("trades")
	for i := range t.Items {
		t.Items[i].ID = r.store.nextID("trade_items")
		t.Items[i].TradeID = t.ID
	}
	r.store.trades[t.ID] = cloneTrade(t)

	return t, nil
}

func (r *TradeRepository) GetByID(_ context.Context, tradeID int64) (trade.Trade, bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	t, ok := r.store.trades[tradeID]
	if !ok {
		return trade.Trade{}, false, nil
	}

	return cloneTrade(t), true, nil
}

func (r *TradeRepository) ListByLeagueForUser(_ context.Context, leagueID, userID int64) ([]trade.Trade, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	trades := make([]trade.Trade, 0)
	for _, t := range r.store.trades {
		if t.LeagueID != leagueID {
			continue
		}
		if t.ProposerID != userID && t.AcceptorID != userID {
			continue
		}
		trades = append(trades, cloneTrade(t))
	}
	sort.Slice(trades, func(i, j int) bool { return trades[i].ID > trades[j].ID })

	return trades, nil
}

func (r *TradeRepository) UpdateStatus(_ context.Context, tradeID int64, status trade.Status, updatedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	t, ok := r.store.trades[tradeID]
	if !ok {
		return nil
	}
	t.Status = status
	t.UpdatedAt = updatedAt
	r.store.trades[tradeID] = t

	return nil
}

// Settle runs entirely under the store's write lock: ownership is
// re-validated in a first pass before anything changes, so a failed
// settlement leaves the store untouched and the trade proposed.
func (r *TradeRepository) Settle(_ context.Context, t trade.Trade, settledAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.trades[t.ID]
	if !ok || stored.Status != trade.StatusProposed {
		return trade.ErrOwnershipChanged
	}

	for _, item := range t.Items {
		if item.Type != trade.ItemContestant {
			continue
		}
		giver, _ := t.GiverReceiver(item.Side)
		ownerID, owned := ownerOfLocked(r.store, t.LeagueID, *item.ContestantID)
		if !owned || ownerID != giver {
			return trade.ErrOwnershipChanged
		}
	}

	for _, item := range t.Items {
		giver, receiver := t.GiverReceiver(item.Side)
		switch item.Type {
		case trade.ItemContestant:
			for id, e := range r.store.rosters {
				if e.LeagueID == t.LeagueID && e.ContestantID == *item.ContestantID {
					delete(r.store.rosters, id)
				}
			}
			entry := roster.Entry{
				ID:           r.store.nextID("rosters"),
				LeagueID:     t.LeagueID,
				UserID:       receiver,
				ContestantID: *item.ContestantID,
				AddedAt:      settledAt,
			}
			r.store.rosters[entry.ID] = entry
		case trade.ItemPoints:
			refType := ledger.ReferenceTrade
			tradeID := t.ID
			amount := float64(*item.Points)
			for _, leg := range []struct {
				userID int64
				amount float64
			}{
				{giver, -amount},
				{receiver, amount},
			} {
				r.store.ledger = append(r.store.ledger, ledger.Transaction{
					ID:            r.store.nextID("ledger_transactions"),
					LeagueID:      t.LeagueID,
					UserID:        leg.userID,
					Amount:        leg.amount,
					Reason:        ledger.ReasonTrade,
					ReferenceType: &refType,
					ReferenceID:   &tradeID,
					CreatedAt:     settledAt,
				})
			}
		}
	}

	stored.Status = trade.StatusAccepted
	stored.UpdatedAt = settledAt
	r.store.trades[t.ID] = stored

	return nil
}

func cloneTrade(t trade.Trade) trade.Trade {
	copied := t
	copied.Items = append([]trade.Item(nil), t.Items...)
	return copied
}
