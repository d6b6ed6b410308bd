package memory

import (
	"context"
	"sort"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/ledger"
)

type LedgerRepository struct {
	store *Store
}

func NewLedgerRepository(store *Store) *LedgerRepository {
	return &LedgerRepository{store: store}
}

func (r *LedgerRepository) Append(_ context.Context, tx ledger.Transaction) (ledger.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	tx.ID = r.store.nextID("ledger_transactions")
	r.store.ledger = append(r.store.ledger, tx)

	return tx, nil
}

func (r *LedgerRepository) ListByLeague(_ context.Context, leagueID int64) ([]ledger.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	txs := make([]ledger.Transaction, 0)
	for _, tx := range r.store.ledger {
		if tx.LeagueID == leagueID {
			txs = append(txs, tx)
		}
	}

	return txs, nil
}

func (r *LedgerRepository) ListByUser(_ context.Context, leagueID, userID int64) ([]ledger.Transaction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	txs := make([]ledger.Transaction, 0)
	for _, tx := range r.store.ledger {
		if tx.LeagueID == leagueID && tx.UserID == userID {
			txs = append(txs, tx)
		}
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].ID > txs[j].ID })

	return txs, nil
}

func (r *LedgerRepository) TotalsByLeague(_ context.Context, leagueID int64) ([]ledger.UserTotal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	byUser := make(map[int64]float64)
	for _, tx := range r.store.ledger {
		if tx.LeagueID == leagueID {
			byUser[tx.UserID] += tx.Amount
		}
	}

	totals := make([]ledger.UserTotal, 0, len(byUser))
	for userID, total := range byUser {
		totals = append(totals, ledger.UserTotal{UserID: userID, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool { return totals[i].UserID < totals[j].UserID })

	return totals, nil
}

func (r *LedgerRepository) BreakdownByLeague(_ context.Context, leagueID int64) ([]ledger.ReasonTotal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	type key struct {
		userID int64
		reason string
	}
	byKey := make(map[key]float64)
	for _, tx := range r.store.ledger {
		if tx.LeagueID == leagueID {
			byKey[key{tx.UserID, tx.Reason}] += tx.Amount
		}
	}

	totals := make([]ledger.ReasonTotal, 0, len(byKey))
	for k, total := range byKey {
		totals = append(totals, ledger.ReasonTotal{UserID: k.userID, Reason: k.reason, Total: total})
	}
	sort.Slice(totals, func(i, j int) bool {
		if totals[i].UserID != totals[j].UserID {
			return totals[i].UserID < totals[j].UserID
		}
		return totals[i].Reason < totals[j].Reason
	})

	return totals, nil
}
