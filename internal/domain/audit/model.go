package audit

import "time"

// Action types recorded by the service.
const (
	ActionRosterAdd           = "roster_add"
	ActionRosterRemove        = "roster_remove"
	ActionTradeProposed       = "trade_proposed"
	ActionTradeAccepted       = "trade_accepted"
	ActionTradeRejected       = "trade_rejected"
	ActionTradeCanceled       = "trade_canceled"
	ActionWinnerPickSet       = "winner_pick_set"
	ActionVotesUpdated        = "votes_updated"
	ActionScoringEventCreated = "scoring_event_created"
	ActionScoringRuleUpdated  = "scoring_rule_updated"
	ActionVotePointsApplied   = "vote_points_applied"
	ActionAttemptModifyLocked = "attempt_modify_locked"
	ActionAdminOverride       = "admin_override"
)

// Entry is one immutable audit row. Recording is fire-and-forget; a
// failed write never affects the mutation it describes.
type Entry struct {
	ID          int64
	Timestamp   time.Time
	ActorUserID *int64
	ActionType  string
	EntityType  string
	EntityID    *int64
	Metadata    map[string]any
	IP          string
	UserAgent   string
}
