package memory

import (
	"fmt"
	"sync"

	"github.com/tribalcouncil/fantasy-survivor/internal/domain/audit"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/contestant"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/episode"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/league"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/ledger"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/prediction"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/roster"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/scoring"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/trade"
	"github.com/tribalcouncil/fantasy-survivor/internal/domain/user"
)

// Store backs every in-memory repository with one shared mutex, which
// is what makes trade settlement atomic without a database: Settle runs
// under the write lock, so no reader ever observes a half-applied swap.
type Store struct {
	mu      sync.RWMutex
	nextIDs map[string]int64

	users       map[int64]user.User
	leagues     map[int64]league.League
	members     map[string]league.Member
	contestants map[int64]contestant.Contestant
	episodes    map[int64]episode.Episode
	rosters     map[int64]roster.Entry
	trades      map[int64]trade.Trade
	ledger      []ledger.Transaction
	winnerPicks map[string]prediction.WinnerPick
	votes       map[int64]prediction.VoteAllocation
	rules       map[string]scoring.Rule
	events      map[int64]scoring.Event
	auditLog    []audit.Entry
}

func NewStore() *Store {
	return &Store{
		nextIDs:     make(map[string]int64),
		users:       make(map[int64]user.User),
		leagues:     make(map[int64]league.League),
		members:     make(map[string]league.Member),
		contestants: make(map[int64]contestant.Contestant),
		episodes:    make(map[int64]episode.Episode),
		rosters:     make(map[int64]roster.Entry),
		trades:      make(map[int64]trade.Trade),
		winnerPicks: make(map[string]prediction.WinnerPick),
		votes:       make(map[int64]prediction.VoteAllocation),
		rules:       make(map[string]scoring.Rule),
		events:      make(map[int64]scoring.Event),
	}
}

// nextID must be called with the write lock held.
func (s *Store) nextID(table string) int64 {
	s.nextIDs[table]++
	return s.nextIDs[table]
}

func pairKey(a, b int64) string {
	return fmt.Sprintf("%d::%d", a, b)
}

func ruleKey(leagueID int64, actionType string) string {
	return fmt.Sprintf("%d::%s", leagueID, actionType)
}
