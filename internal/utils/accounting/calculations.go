package accounting

import (
	"time"

	"github.com/hiiragi-dev/kakera-ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

const (
	// AccrualPeriodDays is the length of one interest period.
	AccrualPeriodDays = 7

	hoursPerDay = 24
)

// weeklyRate is the per-period growth factor: 5% per week, exact 105/100.
var weeklyRate = decimal.New(105, -2)

// WholeDays returns the number of whole days elapsed between from and to.
// Negative elapsed time yields a negative count; callers clamp as needed.
func WholeDays(from, to time.Time) int {
	hours := to.Sub(from).Hours()
	if hours < 0 {
		return -int(-hours / hoursPerDay)
	}
	return int(hours / hoursPerDay)
}

// WholeWeeks returns the number of whole accrual periods elapsed between
// from and to, never negative.
func WholeWeeks(from, to time.Time) int {
	days := WholeDays(from, to)
	if days <= 0 {
		return 0
	}
	return days / AccrualPeriodDays
}

// AccrueAmount applies compound growth to an amount for the given number of
// weeks: remaining = ceil(remaining * 1.05), iterated per week so that
// repeated roundings compound exactly as iterated, not via a closed-form
// power.
func AccrueAmount(remaining int64, weeks int) int64 {
	amount := decimal.NewFromInt(remaining)
	for i := 0; i < weeks; i++ {
		amount = amount.Mul(weeklyRate).Ceil()
	}
	return amount.IntPart()
}

// AdvanceAccrual brings a single debt current as of now. It returns the
// updated debt and whether anything changed. Paid debts never accrue.
// LastAccrualAt advances by exactly weeks*7 days, preserving any
// partial-week remainder for the next run, so accrual is safe to run at
// irregular intervals without losing or double-charging partial weeks.
func AdvanceAccrual(debt domain.Debt, now time.Time) (domain.Debt, bool) {
	if debt.Status == domain.DebtPaid {
		return debt, false
	}
	weeks := WholeWeeks(debt.LastAccrualAt, now)
	if weeks == 0 {
		return debt, false
	}
	debt.Remaining = AccrueAmount(debt.Remaining, weeks)
	debt.LastAccrualAt = debt.LastAccrualAt.AddDate(0, 0, weeks*AccrualPeriodDays)
	return debt, true
}

// DaysUntilNextAccrual returns the whole days remaining until the debt's
// next accrual boundary, clamped to [0, 7].
func DaysUntilNextAccrual(lastAccrualAt, now time.Time) int {
	days := WholeDays(lastAccrualAt, now)
	if days < 0 {
		days = 0
	}
	remaining := AccrualPeriodDays - days%AccrualPeriodDays
	if remaining > AccrualPeriodDays {
		remaining = AccrualPeriodDays
	}
	return remaining
}

// AllocatePayment walks a borrower's open debts, oldest first, applying the
// payment FIFO. Debts fully covered are zeroed and marked paid; the first
// debt the payment cannot cover is reduced and the payment is exhausted.
// Any excess beyond total open debt is discarded, not credited or carried
// forward. The input slice must already be ordered by CreatedAt ascending.
// Returns the mutated debts (only those touched), the per-debt outcomes in
// application order, and the discarded excess.
func AllocatePayment(openDebts []domain.Debt, payment int64) ([]domain.Debt, []domain.RepaymentOutcome, int64) {
	touched := make([]domain.Debt, 0, len(openDebts))
	outcomes := make([]domain.RepaymentOutcome, 0, len(openDebts))

	unallocated := payment
	for _, debt := range openDebts {
		if unallocated <= 0 {
			break
		}
		if debt.Status != domain.DebtOpen {
			continue
		}

		var applied int64
		if unallocated >= debt.Remaining {
			applied = debt.Remaining
			unallocated -= debt.Remaining
			debt.Remaining = 0
			debt.Status = domain.DebtPaid
		} else {
			applied = unallocated
			debt.Remaining -= unallocated
			unallocated = 0
		}

		touched = append(touched, debt)
		outcomes = append(outcomes, domain.RepaymentOutcome{
			DebtID:    debt.ID,
			Applied:   applied,
			Remaining: debt.Remaining,
			Status:    debt.Status,
		})
	}

	return touched, outcomes, unallocated
}
