package mapping

import (
	"github.com/hiiragi-dev/kakera-ledger/internal/core/domain"
	"github.com/hiiragi-dev/kakera-ledger/internal/models"
)

// ToModelDebt converts a domain.Debt to its database row model.
func ToModelDebt(d domain.Debt) models.Debt {
	return models.Debt{
		ID:              d.ID,
		BorrowerID:      d.BorrowerID,
		LenderID:        d.LenderID,
		AmountInitial:   d.Principal,
		AmountRemaining: d.Remaining,
		CreatedAt:       d.CreatedAt,
		LastAccrualAt:   d.LastAccrualAt,
		Status:          string(d.Status),
		Note:            d.Note,
	}
}

// ToDomainDebt converts a database row model to a domain.Debt.
func ToDomainDebt(m models.Debt) domain.Debt {
	return domain.Debt{
		ID:            m.ID,
		BorrowerID:    m.BorrowerID,
		LenderID:      m.LenderID,
		Principal:     m.AmountInitial,
		Remaining:     m.AmountRemaining,
		CreatedAt:     m.CreatedAt,
		LastAccrualAt: m.LastAccrualAt,
		Status:        domain.DebtStatus(m.Status),
		Note:          m.Note,
	}
}

// ToDomainDebtSlice converts a slice of row models to domain debts.
func ToDomainDebtSlice(ms []models.Debt) []domain.Debt {
	ds := make([]domain.Debt, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainDebt(m)
	}
	return ds
}
