package trade

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusProposed Status = "proposed"
	StatusPending  Status = "pending" // declared in the wire enum, no transition produces it
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusCanceled Status = "canceled"
)

// Terminal reports whether no further transition may leave the status.
func (s Status) Terminal() bool {
	switch s {
	case StatusAccepted, StatusRejected, StatusCanceled:
		return true
	}
	return false
}

type Side string

const (
	SideFromProposer Side = "from_proposer"
	SideFromAcceptor Side = "from_acceptor"
)

type ItemType string

const (
	ItemContestant ItemType = "contestant"
	ItemPoints     ItemType = "points"
)

// Item is one asset moved by a trade. Side names the giving party.
type Item struct {
	ID           int64
	TradeID      int64
	Side         Side
	Type         ItemType
	ContestantID *int64
	Points       *int64
}

func (i Item) Validate() error {
	if i.Side != SideFromProposer && i.Side != SideFromAcceptor {
		return fmt.Errorf("item side %q is not supported", i.Side)
	}
	switch i.Type {
	case ItemContestant:
		if i.ContestantID == nil || *i.ContestantID <= 0 {
			return fmt.Errorf("contestant item needs a positive contestant id")
		}
		if i.Points != nil {
			return fmt.Errorf("contestant item must not carry points")
		}
	case ItemPoints:
		if i.Points == nil || *i.Points < 0 {
			return fmt.Errorf("points item needs a non-negative amount")
		}
		if i.ContestantID != nil {
			return fmt.Errorf("points item must not carry a contestant")
		}
	default:
		return fmt.Errorf("item type %q is not supported", i.Type)
	}

	return nil
}

// Trade is a proposed swap between two league members.
type Trade struct {
	ID         int64
	LeagueID   int64
	ProposerID int64
	AcceptorID int64
	Status     Status
	Note       string
	Items      []Item
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (t Trade) Validate() error {
	if t.LeagueID == 0 {
		return fmt.Errorf("league id is required")
	}
	if t.ProposerID == 0 || t.AcceptorID == 0 {
		return fmt.Errorf("proposer and acceptor are required")
	}
	if t.ProposerID == t.AcceptorID {
		return fmt.Errorf("cannot trade with yourself")
	}
	if len(t.Items) == 0 {
		return fmt.Errorf("trade needs at least one item")
	}
	for _, item := range t.Items {
		if err := item.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// GiverReceiver resolves the source and destination users for an item side.
func (t Trade) GiverReceiver(side Side) (giver, receiver int64) {
	if side == SideFromProposer {
		return t.ProposerID, t.AcceptorID
	}
	return t.AcceptorID, t.ProposerID
}
