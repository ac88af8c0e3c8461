package domain

// Trigger is a recognized admin trigger message: a verb from the loan or
// repay family, a target account mention, and a positive integer amount.
type Trigger struct {
	Kind     ActionKind `json:"kind"`
	TargetID string     `json:"targetID"` // Discord user ID from the mention
	Amount   int64      `json:"amount"`
}
