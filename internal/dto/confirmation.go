package dto

import "github.com/hiiragi-dev/kakera-ledger/internal/core/domain"

// ConfirmationResult describes a pending action that was confirmed and
// applied. Exactly one of Debt (LOAN) or Repayment (REPAY) is set.
type ConfirmationResult struct {
	Action    domain.PendingAction `json:"action"`
	Debt      *domain.Debt         `json:"debt,omitempty"`
	Repayment *RepaymentReport     `json:"repayment,omitempty"`
}
