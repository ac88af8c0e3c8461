package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hiiragi-dev/kakera-ledger/internal/apperrors"
	"github.com/hiiragi-dev/kakera-ledger/internal/core/domain"
	portsrepo "github.com/hiiragi-dev/kakera-ledger/internal/core/ports/repositories"
	"github.com/hiiragi-dev/kakera-ledger/internal/dto"
	"github.com/hiiragi-dev/kakera-ledger/internal/middleware"
	"github.com/hiiragi-dev/kakera-ledger/internal/platform/metrics"
	"github.com/hiiragi-dev/kakera-ledger/internal/utils/accounting"
)

// LedgerService owns all debt-ledger operations. Every ledger-affecting
// read or write first brings open debts current via the accrual pass, so
// amounts are always current at the moment of use.
type LedgerService struct {
	debtRepo portsrepo.DebtRepositoryFacade
}

func NewLedgerService(debtRepo portsrepo.DebtRepositoryFacade) *LedgerService {
	return &LedgerService{debtRepo: debtRepo}
}

// AccrueOpenDebts applies weekly compound interest to all open debts and
// persists only those that changed. Idempotent when no whole week has
// elapsed on any debt.
func (s *LedgerService) AccrueOpenDebts(ctx context.Context, now time.Time) (int, error) {
	debts, err := s.debtRepo.FindOpenDebts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load open debts for accrual: %w", err)
	}

	updated := 0
	for _, debt := range debts {
		accrued, changed := accounting.AdvanceAccrual(debt, now)
		if !changed {
			continue
		}
		if err := s.debtRepo.UpdateDebtBalance(ctx, accrued); err != nil {
			return updated, fmt.Errorf("failed to persist accrual for debt %d: %w", debt.ID, err)
		}
		updated++
	}
	return updated, nil
}

// CreateDebt records a new debt after bringing existing open debts current.
func (s *LedgerService) CreateDebt(ctx context.Context, req dto.CreateDebtRequest, now time.Time) (*domain.Debt, error) {
	if req.BorrowerID == "" || req.LenderID == "" {
		return nil, fmt.Errorf("borrower and lender are required: %w", apperrors.ErrValidation)
	}
	if req.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", apperrors.ErrValidation)
	}

	if _, err := s.AccrueOpenDebts(ctx, now); err != nil {
		return nil, err
	}

	debt := domain.Debt{
		BorrowerID:    req.BorrowerID,
		LenderID:      req.LenderID,
		Principal:     req.Amount,
		Remaining:     req.Amount,
		CreatedAt:     now,
		LastAccrualAt: now,
		Status:        domain.DebtOpen,
		Note:          req.Note,
	}

	id, err := s.debtRepo.SaveDebt(ctx, debt)
	if err != nil {
		return nil, fmt.Errorf("failed to create debt: %w", err)
	}
	debt.ID = id

	middleware.GetLoggerFromCtx(ctx).Info("Debt created",
		slog.Int64("debt_id", id),
		slog.String("borrower_id", debt.BorrowerID),
		slog.Int64("amount", debt.Principal),
	)

	return &debt, nil
}

// RecordRepayment brings open debts current, then allocates the payment
// FIFO across the borrower's open debts and persists the allocation in a
// single transaction. Overpayment beyond total open debt is discarded; the
// discarded excess is reported in the result for display only.
func (s *LedgerService) RecordRepayment(ctx context.Context, borrowerID string, amount int64, now time.Time) (*dto.RepaymentReport, error) {
	if borrowerID == "" {
		return nil, fmt.Errorf("borrower is required: %w", apperrors.ErrValidation)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive: %w", apperrors.ErrValidation)
	}

	if _, err := s.AccrueOpenDebts(ctx, now); err != nil {
		return nil, err
	}

	openDebts, err := s.debtRepo.FindOpenDebtsByBorrower(ctx, borrowerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load open debts for borrower %s: %w", borrowerID, err)
	}

	touched, outcomes, excess := accounting.AllocatePayment(openDebts, amount)
	if err := s.debtRepo.ApplyRepayment(ctx, touched); err != nil {
		return nil, fmt.Errorf("failed to apply repayment for borrower %s: %w", borrowerID, err)
	}

	middleware.GetLoggerFromCtx(ctx).Info("Repayment recorded",
		slog.String("borrower_id", borrowerID),
		slog.Int64("payment", amount),
		slog.Int("debts_touched", len(outcomes)),
		slog.Int64("excess_discarded", excess),
	)

	return &dto.RepaymentReport{
		BorrowerID: borrowerID,
		Payment:    amount,
		Outcomes:   outcomes,
		Excess:     excess,
	}, nil
}

// StatusReport brings all open debts current, then returns them ordered by
// borrower ID (the repository orders the rows), each annotated with the
// days remaining until its next accrual boundary.
func (s *LedgerService) StatusReport(ctx context.Context, now time.Time) ([]dto.DebtStatusLine, error) {
	if _, err := s.AccrueOpenDebts(ctx, now); err != nil {
		return nil, err
	}

	debts, err := s.debtRepo.FindOpenDebts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load open debts for status report: %w", err)
	}

	lines := make([]dto.DebtStatusLine, len(debts))
	for i, debt := range debts {
		lines[i] = dto.DebtStatusLine{
			Debt:             debt,
			DaysUntilAccrual: accounting.DaysUntilNextAccrual(debt.LastAccrualAt, now),
		}
	}
	return lines, nil
}

// DeleteDebt removes a debt row unconditionally.
func (s *LedgerService) DeleteDebt(ctx context.Context, id int64) error {
	if err := s.debtRepo.DeleteDebt(ctx, id); err != nil {
		return fmt.Errorf("failed to delete debt %d: %w", id, err)
	}
	middleware.GetLoggerFromCtx(ctx).Info("Debt deleted", slog.Int64("debt_id", id))
	return nil
}

// StartAccrualSweep runs the accrual pass on a fixed period until ctx is
// cancelled. A failed cycle is logged and retried on the next tick.
func (s *LedgerService) StartAccrualSweep(ctx context.Context, interval time.Duration) {
	logger := middleware.GetLoggerFromCtx(ctx)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Accrual sweep stopped")
			return
		case now := <-ticker.C:
			updated, err := s.AccrueOpenDebts(ctx, now)
			if err != nil {
				metrics.AccrualSweepFailures.Inc()
				logger.Error("Accrual sweep failed, will retry next cycle", slog.String("error", err.Error()))
				continue
			}
			metrics.AccrualSweepRuns.Inc()
			if updated > 0 {
				logger.Info("Accrual sweep applied interest", slog.Int("debts_updated", updated))
			}
		}
	}
}
