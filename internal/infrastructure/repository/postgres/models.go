package postgres

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

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

type userTableModel struct {
	ID        int64     `db:"id"`
	Username  string    `db:"username"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (m userTableModel) toDomain() user.User {
	return user.User{
		ID:        m.ID,
		Username:  m.Username,
		Role:      user.Role(m.Role),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

type leagueTableModel struct {
	ID         int64     `db:"id"`
	Name       string    `db:"name"`
	SeasonName *string   `db:"season_name"`
	InviteCode string    `db:"invite_code"`
	CreatedAt  time.Time `db:"created_at"`
}

func (m leagueTableModel) toDomain() league.League {
	l := league.League{
		ID:         m.ID,
		Name:       m.Name,
		InviteCode: m.InviteCode,
		CreatedAt:  m.CreatedAt,
	}
	if m.SeasonName != nil {
		l.SeasonName = *m.SeasonName
	}
	return l
}

type contestantTableModel struct {
	ID                  int64     `db:"id"`
	LeagueID            int64     `db:"league_id"`
	Name                string    `db:"name"`
	Status              string    `db:"status"`
	EliminatedEpisodeID *int64    `db:"eliminated_episode_id"`
	CreatedAt           time.Time `db:"created_at"`
}

func (m contestantTableModel) toDomain() contestant.Contestant {
	return contestant.Contestant{
		ID:                  m.ID,
		LeagueID:            m.LeagueID,
		Name:                m.Name,
		Status:              contestant.Status(m.Status),
		EliminatedEpisodeID: m.EliminatedEpisodeID,
		CreatedAt:           m.CreatedAt,
	}
}

type episodeTableModel struct {
	ID            int64     `db:"id"`
	LeagueID      int64     `db:"league_id"`
	EpisodeNumber int       `db:"episode_number"`
	Title         *string   `db:"title"`
	AirDate       time.Time `db:"air_date"`
	LockAt        time.Time `db:"lock_at"`
	CreatedAt     time.Time `db:"created_at"`
}

func (m episodeTableModel) toDomain() episode.Episode {
	e := episode.Episode{
		ID:        m.ID,
		LeagueID:  m.LeagueID,
		Number:    m.EpisodeNumber,
		AirDate:   m.AirDate,
		LockAt:    m.LockAt,
		CreatedAt: m.CreatedAt,
	}
	if m.Title != nil {
		e.Title = *m.Title
	}
	return e
}

type rosterTableModel struct {
	ID           int64     `db:"id"`
	LeagueID     int64     `db:"league_id"`
	UserID       int64     `db:"user_id"`
	ContestantID int64     `db:"contestant_id"`
	AddedAt      time.Time `db:"added_at"`
}

func (m rosterTableModel) toDomain() roster.Entry {
	return roster.Entry{
		ID:           m.ID,
		LeagueID:     m.LeagueID,
		UserID:       m.UserID,
		ContestantID: m.ContestantID,
		AddedAt:      m.AddedAt,
	}
}

type tradeTableModel struct {
	ID         int64     `db:"id"`
	LeagueID   int64     `db:"league_id"`
	ProposerID int64     `db:"proposer_id"`
	AcceptorID int64     `db:"acceptor_id"`
	Status     string    `db:"status"`
	Note       *string   `db:"note"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (m tradeTableModel) toDomain() trade.Trade {
	t := trade.Trade{
		ID:         m.ID,
		LeagueID:   m.LeagueID,
		ProposerID: m.ProposerID,
		AcceptorID: m.AcceptorID,
		Status:     trade.Status(m.Status),
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
	if m.Note != nil {
		t.Note = *m.Note
	}
	return t
}

type tradeItemTableModel struct {
	ID           int64  `db:"id"`
	TradeID      int64  `db:"trade_id"`
	Side         string `db:"side"`
	Type         string `db:"type"`
	ContestantID *int64 `db:"contestant_id"`
	Points       *int64 `db:"points"`
}

func (m tradeItemTableModel) toDomain() trade.Item {
	return trade.Item{
		ID:           m.ID,
		TradeID:      m.TradeID,
		Side:         trade.Side(m.Side),
		Type:         trade.ItemType(m.Type),
		ContestantID: m.ContestantID,
		Points:       m.Points,
	}
}

type ledgerTableModel struct {
	ID            int64     `db:"id"`
	LeagueID      int64     `db:"league_id"`
	UserID        int64     `db:"user_id"`
	Amount        float64   `db:"amount"`
	Reason        string    `db:"reason"`
	ReferenceType *string   `db:"reference_type"`
	ReferenceID   *int64    `db:"reference_id"`
	CreatedAt     time.Time `db:"created_at"`
}

func (m ledgerTableModel) toDomain() ledger.Transaction {
	return ledger.Transaction{
		ID:            m.ID,
		LeagueID:      m.LeagueID,
		UserID:        m.UserID,
		Amount:        m.Amount,
		Reason:        m.Reason,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		CreatedAt:     m.CreatedAt,
	}
}

type winnerPickTableModel struct {
	ID           int64     `db:"id"`
	LeagueID     int64     `db:"league_id"`
	UserID       int64     `db:"user_id"`
	ContestantID int64     `db:"contestant_id"`
	PickedAt     time.Time `db:"picked_at"`
}

func (m winnerPickTableModel) toDomain() prediction.WinnerPick {
	return prediction.WinnerPick{
		ID:           m.ID,
		LeagueID:     m.LeagueID,
		UserID:       m.UserID,
		ContestantID: m.ContestantID,
		PickedAt:     m.PickedAt,
	}
}

type votePredictionTableModel struct {
	ID           int64     `db:"id"`
	LeagueID     int64     `db:"league_id"`
	UserID       int64     `db:"user_id"`
	EpisodeID    int64     `db:"episode_id"`
	ContestantID int64     `db:"contestant_id"`
	Votes        int       `db:"votes"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (m votePredictionTableModel) toDomain() prediction.VoteAllocation {
	return prediction.VoteAllocation{
		ID:           m.ID,
		LeagueID:     m.LeagueID,
		UserID:       m.UserID,
		EpisodeID:    m.EpisodeID,
		ContestantID: m.ContestantID,
		Votes:        m.Votes,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

type scoringRuleTableModel struct {
	ID         int64     `db:"id"`
	LeagueID   int64     `db:"league_id"`
	ActionType string    `db:"action_type"`
	Points     float64   `db:"points"`
	CreatedAt  time.Time `db:"created_at"`
}

func (m scoringRuleTableModel) toDomain() scoring.Rule {
	return scoring.Rule{
		ID:         m.ID,
		LeagueID:   m.LeagueID,
		ActionType: m.ActionType,
		Points:     m.Points,
		CreatedAt:  m.CreatedAt,
	}
}

type scoringEventTableModel struct {
	ID              int64     `db:"id"`
	LeagueID        int64     `db:"league_id"`
	EpisodeID       int64     `db:"episode_id"`
	ActionType      string    `db:"action_type"`
	ContestantID    *int64    `db:"contestant_id"`
	Metadata        []byte    `db:"metadata"`
	CreatedAt       time.Time `db:"created_at"`
	CreatedByUserID *int64    `db:"created_by_user_id"`
}

func (m scoringEventTableModel) toDomain() (scoring.Event, error) {
	e := scoring.Event{
		ID:              m.ID,
		LeagueID:        m.LeagueID,
		EpisodeID:       m.EpisodeID,
		ActionType:      m.ActionType,
		ContestantID:    m.ContestantID,
		CreatedAt:       m.CreatedAt,
		CreatedByUserID: m.CreatedByUserID,
	}
	if len(m.Metadata) > 0 {
		if err := sonic.Unmarshal(m.Metadata, &e.Metadata); err != nil {
			return scoring.Event{}, fmt.Errorf("decode scoring event metadata: %w", err)
		}
	}
	return e, nil
}

type auditTableModel struct {
	ID          int64     `db:"id"`
	Timestamp   time.Time `db:"timestamp"`
	ActorUserID *int64    `db:"actor_user_id"`
	ActionType  string    `db:"action_type"`
	EntityType  string    `db:"entity_type"`
	EntityID    *int64    `db:"entity_id"`
	Metadata    []byte    `db:"metadata_json"`
	IP          *string   `db:"ip"`
	UserAgent   *string   `db:"user_agent"`
}

func (m auditTableModel) toDomain() (audit.Entry, error) {
	e := audit.Entry{
		ID:          m.ID,
		Timestamp:   m.Timestamp,
		ActorUserID: m.ActorUserID,
		ActionType:  m.ActionType,
		EntityType:  m.EntityType,
		EntityID:    m.EntityID,
	}
	if m.IP != nil {
		e.IP = *m.IP
	}
	if m.UserAgent != nil {
		e.UserAgent = *m.UserAgent
	}
	if len(m.Metadata) > 0 {
		if err := sonic.Unmarshal(m.Metadata, &e.Metadata); err != nil {
			return audit.Entry{}, fmt.Errorf("decode audit metadata: %w", err)
		}
	}
	return e, nil
}

func encodeMetadata(metadata map[string]any) ([]byte, error) {
	if len(metadata) == 0 {
		return nil, nil
	}
	encoded, err := sonic.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("encode metadata: %w", err)
	}
	return encoded, nil
}
