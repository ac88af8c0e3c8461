package domain

import "time"

// ActionKind distinguishes the two trigger families.
type ActionKind string

const (
	ActionLoan  ActionKind = "LOAN"
	ActionRepay ActionKind = "REPAY"
)

// PendingAction is an unconfirmed proposed ledger mutation awaiting a
// confirmation signal from the gacha bot. Pending actions live only in
// memory; they are lost on restart by design. The correlation key is the
// ID of the triggering message, uniform for both kinds.
type PendingAction struct {
	MessageID   string     `json:"messageID"` // Correlation key
	ChannelID   string     `json:"channelID"` // For message-based confirmation lookup
	Kind        ActionKind `json:"kind"`
	InitiatorID string     `json:"initiatorID"` // Admin who issued the trigger
	SubjectID   string     `json:"subjectID"`   // Borrower affected
	Amount      int64      `json:"amount"`      // Positive
	CreatedAt   time.Time  `json:"createdAt"`   // For expiry
}
