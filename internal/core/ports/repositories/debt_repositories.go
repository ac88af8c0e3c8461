package repositories

import (
	"context"

	"github.com/hiiragi-dev/kakera-ledger/internal/core/domain"
)

// DebtReader defines read operations for debt data
type DebtReader interface {
	// FindDebtByID retrieves a specific debt by its ID.
	FindDebtByID(ctx context.Context, id int64) (*domain.Debt, error)

	// FindOpenDebts retrieves all open debts ordered by borrower ID, then
	// creation time.
	FindOpenDebts(ctx context.Context) ([]domain.Debt, error)

	// FindOpenDebtsByBorrower retrieves a borrower's open debts ordered by
	// creation time ascending (oldest first), the FIFO allocation order.
	FindOpenDebtsByBorrower(ctx context.Context, borrowerID string) ([]domain.Debt, error)
}

// DebtWriter defines write operations for debt data
type DebtWriter interface {
	// SaveDebt persists a new debt and returns its assigned ID.
	SaveDebt(ctx context.Context, debt domain.Debt) (int64, error)

	// UpdateDebtBalance persists a debt's remaining amount, accrual
	// timestamp and status in a single bounded update.
	UpdateDebtBalance(ctx context.Context, debt domain.Debt) error

	// ApplyRepayment persists the balance updates of one repayment
	// allocation inside a single transaction.
	ApplyRepayment(ctx context.Context, debts []domain.Debt) error

	// DeleteDebt removes a debt row unconditionally.
	DeleteDebt(ctx context.Context, id int64) error
}

// DebtRepositoryFacade combines all debt-related repository interfaces
// This is a facade for clients that need access to all operations
type DebtRepositoryFacade interface {
	DebtReader
	DebtWriter
}

// RepositoryProvider holds all repository implementations for injection
// into the service layer.
type RepositoryProvider struct {
	DebtRepo DebtRepositoryFacade
}
