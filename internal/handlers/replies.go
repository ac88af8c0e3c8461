package handlers

import (
	"fmt"
	"strings"

	"github.com/hiiragi-dev/kakera-ledger/internal/core/domain"
	"github.com/hiiragi-dev/kakera-ledger/internal/dto"
	"github.com/hiiragi-dev/kakera-ledger/internal/utils"
)

// formatConfirmation renders the outcome of a confirmed pending action.
func formatConfirmation(result *dto.ConfirmationResult) string {
	switch result.Action.Kind {
	case domain.ActionLoan:
		debt := result.Debt
		return fmt.Sprintf("📒 Loan confirmed: <@%s> owes %s kakera to <@%s> (debt #%d).",
			debt.BorrowerID, utils.FormatKakera(debt.Remaining), debt.LenderID, debt.ID)
	case domain.ActionRepay:
		return formatRepaymentReport(result.Repayment)
	default:
		return ""
	}
}

func formatRepaymentReport(report *dto.RepaymentReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📒 Repayment of %s kakera from <@%s>:", utils.FormatKakera(report.Payment), report.BorrowerID)

	if len(report.Outcomes) == 0 {
		b.WriteString("\nNo open debts; nothing was applied.")
	}
	for _, outcome := range report.Outcomes {
		if outcome.Status == domain.DebtPaid {
			fmt.Fprintf(&b, "\n• debt #%d: applied %s — **paid in full**", outcome.DebtID, utils.FormatKakera(outcome.Applied))
		} else {
			fmt.Fprintf(&b, "\n• debt #%d: applied %s — %s remaining", outcome.DebtID, utils.FormatKakera(outcome.Applied), utils.FormatKakera(outcome.Remaining))
		}
	}

	if report.Excess > 0 {
		fmt.Fprintf(&b, "\nOverpayment of %s kakera was discarded.", utils.FormatKakera(report.Excess))
	}

	return b.String()
}

func formatStatusReport(lines []dto.DebtStatusLine, trackingEnabled bool) string {
	var b strings.Builder
	if trackingEnabled {
		b.WriteString("📒 Open debts (tracking on):")
	} else {
		b.WriteString("📒 Open debts (tracking off):")
	}

	if len(lines) == 0 {
		b.WriteString("\nNo open debts.")
		return b.String()
	}

	for _, line := range lines {
		debt := line.Debt
		fmt.Fprintf(&b, "\n• #%d <@%s> owes %s kakera to <@%s> — next accrual in %dd",
			debt.ID, debt.BorrowerID, utils.FormatKakera(debt.Remaining), debt.LenderID, line.DaysUntilAccrual)
		if debt.Note != "" {
			fmt.Fprintf(&b, " (%s)", debt.Note)
		}
	}

	return b.String()
}
