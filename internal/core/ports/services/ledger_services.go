package services

import (
	"context"
	"time"

	"github.com/hiiragi-dev/kakera-ledger/internal/core/domain"
	"github.com/hiiragi-dev/kakera-ledger/internal/dto"
)

// LedgerReaderSvc defines read operations over the debt ledger.
type LedgerReaderSvc interface {
	// StatusReport brings all open debts current, then returns them ordered
	// by borrower ID, each annotated with the days remaining until its next
	// accrual boundary.
	StatusReport(ctx context.Context, now time.Time) ([]dto.DebtStatusLine, error)
}

// LedgerWriterSvc defines mutating operations over the debt ledger. Every
// operation brings open debts current before touching balances.
type LedgerWriterSvc interface {
	// AccrueOpenDebts applies weekly compound interest to all open debts and
	// returns how many debts changed.
	AccrueOpenDebts(ctx context.Context, now time.Time) (int, error)

	// CreateDebt records a new debt.
	CreateDebt(ctx context.Context, req dto.CreateDebtRequest, now time.Time) (*domain.Debt, error)

	// RecordRepayment allocates a payment FIFO across the borrower's open
	// debts. Overpayment is discarded, reported only in the result.
	RecordRepayment(ctx context.Context, borrowerID string, amount int64, now time.Time) (*dto.RepaymentReport, error)

	// DeleteDebt removes a debt row unconditionally.
	DeleteDebt(ctx context.Context, id int64) error
}

// LedgerSvcFacade combines all ledger service interfaces and the periodic
// accrual sweep.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc

	// StartAccrualSweep runs the accrual pass on a fixed period until ctx is
	// cancelled. A failed cycle is logged and retried on the next tick.
	StartAccrualSweep(ctx context.Context, interval time.Duration)
}
