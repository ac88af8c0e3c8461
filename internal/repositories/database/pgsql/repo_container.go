package pgsql

import (
	portsrepo "github.com/hiiragi-dev/kakera-ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	debtRepo := newPgxDebtRepository(dbPool)

	return portsrepo.RepositoryProvider{
		DebtRepo: debtRepo,
	}
}
