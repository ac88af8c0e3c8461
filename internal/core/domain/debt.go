package domain

import "time"

// DebtStatus indicates whether a debt is still being collected.
type DebtStatus string

const (
	DebtOpen DebtStatus = "open"
	DebtPaid DebtStatus = "paid" // terminal; a debt never reopens
)

// Debt is a ledger record of an unpaid kakera amount owed by a borrower to
// a lender. Amounts are whole kakera; the in-game currency has no fractions.
type Debt struct {
	ID            int64      `json:"id"`            // Primary Key, monotonically assigned
	BorrowerID    string     `json:"borrowerID"`    // Discord user ID of the borrower
	LenderID      string     `json:"lenderID"`      // Discord user ID of the lender
	Principal     int64      `json:"principal"`     // Amount at creation; immutable
	Remaining     int64      `json:"remaining"`     // Current owed amount, mutated only by accrual or repayment
	CreatedAt     time.Time  `json:"createdAt"`     // Immutable; FIFO repayment order key
	LastAccrualAt time.Time  `json:"lastAccrualAt"` // Timestamp through which interest has been applied
	Status        DebtStatus `json:"status"`
	Note          string     `json:"note"` // Free-text annotation, no semantic role
}

// RepaymentOutcome records the effect of a repayment on a single debt.
type RepaymentOutcome struct {
	DebtID    int64      `json:"debtID"`
	Applied   int64      `json:"applied"`   // Amount of the payment applied to this debt
	Remaining int64      `json:"remaining"` // Balance after the application
	Status    DebtStatus `json:"status"`
}
