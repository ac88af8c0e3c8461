package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hiiragi-dev/kakera-ledger/internal/apperrors"
	"github.com/hiiragi-dev/kakera-ledger/internal/core/domain"
	portsrepo "github.com/hiiragi-dev/kakera-ledger/internal/core/ports/repositories"
	"github.com/hiiragi-dev/kakera-ledger/internal/models"
	"github.com/hiiragi-dev/kakera-ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxDebtRepository struct {
	BaseRepository
}

func newPgxDebtRepository(db *pgxpool.Pool) portsrepo.DebtRepositoryFacade {
	return &PgxDebtRepository{BaseRepository{Pool: db}}
}

// Ensure PgxDebtRepository implements portsrepo.DebtRepositoryFacade
var _ portsrepo.DebtRepositoryFacade = (*PgxDebtRepository)(nil)

const debtColumns = `id, borrower_id, lender_id, amount_initial, amount_remaining, created_at, last_accrual_at, status, note`

func scanDebt(row pgx.Row) (models.Debt, error) {
	var m models.Debt
	err := row.Scan(
		&m.ID,
		&m.BorrowerID,
		&m.LenderID,
		&m.AmountInitial,
		&m.AmountRemaining,
		&m.CreatedAt,
		&m.LastAccrualAt,
		&m.Status,
		&m.Note,
	)
	return m, err
}

func (r *PgxDebtRepository) SaveDebt(ctx context.Context, debt domain.Debt) (int64, error) {
	m := mapping.ToModelDebt(debt)
	query := `
        INSERT INTO debts (borrower_id, lender_id, amount_initial, amount_remaining, created_at, last_accrual_at, status, note)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id;
    `
	var id int64
	err := r.Pool.QueryRow(ctx, query,
		m.BorrowerID,
		m.LenderID,
		m.AmountInitial,
		m.AmountRemaining,
		m.CreatedAt,
		m.LastAccrualAt,
		m.Status,
		m.Note,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to save debt: %w", err)
	}
	return id, nil
}

func (r *PgxDebtRepository) FindDebtByID(ctx context.Context, id int64) (*domain.Debt, error) {
	query := `SELECT ` + debtColumns + ` FROM debts WHERE id = $1;`
	m, err := scanDebt(r.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find debt by ID %d: %w", id, err)
	}
	d := mapping.ToDomainDebt(m)
	return &d, nil
}

func (r *PgxDebtRepository) FindOpenDebts(ctx context.Context) ([]domain.Debt, error) {
	query := `
        SELECT ` + debtColumns + `
        FROM debts
        WHERE status = $1
        ORDER BY borrower_id, created_at;
    `
	return r.queryDebts(ctx, query, string(domain.DebtOpen))
}

func (r *PgxDebtRepository) FindOpenDebtsByBorrower(ctx context.Context, borrowerID string) ([]domain.Debt, error) {
	query := `
        SELECT ` + debtColumns + `
        FROM debts
        WHERE borrower_id = $1 AND status = $2
        ORDER BY created_at ASC;
    `
	return r.queryDebts(ctx, query, borrowerID, string(domain.DebtOpen))
}

func (r *PgxDebtRepository) queryDebts(ctx context.Context, query string, args ...any) ([]domain.Debt, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query debts: %w", err)
	}
	defer rows.Close()

	modelDebts := []models.Debt{}
	for rows.Next() {
		m, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan debt row: %w", err)
		}
		modelDebts = append(modelDebts, m)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating debt rows: %w", rows.Err())
	}

	return mapping.ToDomainDebtSlice(modelDebts), nil
}

const updateDebtBalanceQuery = `
    UPDATE debts
    SET amount_remaining = $1, last_accrual_at = $2, status = $3
    WHERE id = $4;
`

func (r *PgxDebtRepository) UpdateDebtBalance(ctx context.Context, debt domain.Debt) error {
	m := mapping.ToModelDebt(debt)
	cmdTag, err := r.Pool.Exec(ctx, updateDebtBalanceQuery,
		m.AmountRemaining,
		m.LastAccrualAt,
		m.Status,
		m.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update debt balance: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("debt %d not found: %w", debt.ID, apperrors.ErrNotFound)
	}
	return nil
}

// ApplyRepayment writes all balance updates of one allocation in a single
// transaction so a concurrent accrual pass cannot interleave with it.
func (r *PgxDebtRepository) ApplyRepayment(ctx context.Context, debts []domain.Debt) error {
	if len(debts) == 0 {
		return nil
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck // no-op after commit

	for _, debt := range debts {
		m := mapping.ToModelDebt(debt)
		cmdTag, err := tx.Exec(ctx, updateDebtBalanceQuery,
			m.AmountRemaining,
			m.LastAccrualAt,
			m.Status,
			m.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to apply repayment to debt %d: %w", debt.ID, err)
		}
		if cmdTag.RowsAffected() == 0 {
			return fmt.Errorf("debt %d not found during repayment: %w", debt.ID, apperrors.ErrNotFound)
		}
	}

	return r.Commit(ctx, tx)
}

func (r *PgxDebtRepository) DeleteDebt(ctx context.Context, id int64) error {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM debts WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete debt %d: %w", id, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("debt %d not found: %w", id, apperrors.ErrNotFound)
	}
	return nil
}
