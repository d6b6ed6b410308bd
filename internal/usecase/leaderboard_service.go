package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/ledger"
)

// LeaderboardRow is one user's standing: the folded ledger total plus a
// per-reason breakdown. Scores are never stored; every read recomputes
// from the ledger.
type LeaderboardRow struct {
	UserID    int64
	Total     float64
	Breakdown map[string]float64
}

type LeaderboardService struct {
	ledgerRepo ledger.Repository
	logger     *slog.Logger
}

func NewLeaderboardService(ledgerRepo ledger.Repository, logger *slog.Logger) *LeaderboardService {
	if logger == nil {
		logger = slog.Default()
	}

	return &LeaderboardService{
		ledgerRepo: ledgerRepo,
		logger:     logger,
	}
}

// Standings returns the league ranked by total, ties broken by user id
// for a stable order.
func (s *LeaderboardService) Standings(ctx context.Context, leagueID int64) ([]LeaderboardRow, error) {
	ctx, span := startUsecaseSpan(ctx, "LeaderboardService.Standings")
	defer span.End()

	if leagueID <= 0 {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	totals, err := s.ledgerRepo.TotalsByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("ledger totals: %w", err)
	}
	breakdown, err := s.ledgerRepo.BreakdownByLeague(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("ledger breakdown: %w", err)
	}

	byUser := make(map[int64]*LeaderboardRow, len(totals))
	rows := make([]LeaderboardRow, 0, len(totals))
	for _, t := range totals {
		byUser[t.UserID] = &LeaderboardRow{
			UserID:    t.UserID,
			Total:     t.Total,
			Breakdown: make(map[string]float64),
		}
	}
	for _, b := range breakdown {
		row, ok := byUser[b.UserID]
		if !ok {
			continue
		}
		row.Breakdown[b.Reason] = b.Total
	}
	for _, t := range totals {
		rows = append(rows, *byUser[t.UserID])
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].UserID < rows[j].UserID
	})

	return rows, nil
}

// History returns one user's raw ledger entries, newest first per the
// repository ordering.
func (s *LeaderboardService) History(ctx context.Context, leagueID, userID int64) ([]ledger.Transaction, error) {
	ctx, span := startUsecaseSpan(ctx, "LeaderboardService.History")
	defer span.End()

	if leagueID <= 0 || userID <= 0 {
		return nil, fmt.Errorf("%w: league id and user id are required", ErrInvalidInput)
	}

	txs, err := s.ledgerRepo.ListByUser(ctx, leagueID, userID)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}

	return txs, nil
}
