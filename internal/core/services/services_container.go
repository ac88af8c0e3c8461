package services

import (
	portsrepo "github.com/hiiragi-dev/kakera-ledger/internal/core/ports/repositories"
	portssvc "github.com/hiiragi-dev/kakera-ledger/internal/core/ports/services"
	"github.com/hiiragi-dev/kakera-ledger/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The ledger service comes first since the correlator applies confirmed
	// actions through it.
	container.Ledger = NewLedgerService(repos.DebtRepo)
	container.Pending = NewPendingService(container.Ledger, cfg.ConfirmKeyword, cfg.PendingTTL)

	return container
}

// Helper to check interface implementations at compile time
var (
	_ portssvc.LedgerSvcFacade  = (*LedgerService)(nil)
	_ portssvc.PendingSvcFacade = (*PendingService)(nil)
)
