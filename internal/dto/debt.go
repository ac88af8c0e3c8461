package dto

import "github.com/hiiragi-dev/kakera-ledger/internal/core/domain"

// CreateDebtRequest carries the fields needed to create a debt, whether
// from a confirmed loan trigger or the /add command.
type CreateDebtRequest struct {
	BorrowerID string `json:"borrowerID"`
	LenderID   string `json:"lenderID"`
	Amount     int64  `json:"amount"`
	Note       string `json:"note,omitempty"`
}

// DebtStatusLine is one entry of the status report: an open debt annotated
// with the whole days remaining until its next accrual boundary.
type DebtStatusLine struct {
	Debt             domain.Debt `json:"debt"`
	DaysUntilAccrual int         `json:"daysUntilAccrual"`
}

// RepaymentReport is the outcome of one repayment allocation across a
// borrower's open debts, in application order. Excess records any
// overpayment beyond total open debt; it is reported for display only and
// never credited.
type RepaymentReport struct {
	BorrowerID string                    `json:"borrowerID"`
	Payment    int64                     `json:"payment"`
	Outcomes   []domain.RepaymentOutcome `json:"outcomes"`
	Excess     int64                     `json:"excess"`
}
