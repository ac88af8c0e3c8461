package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// TriggersRegistered counts pending actions registered from admin
	// trigger messages, by kind.
	TriggersRegistered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kakera_ledger_triggers_registered_total",
		Help: "Pending actions registered from admin trigger messages.",
	}, []string{"kind"})

	// ConfirmationsApplied counts pending actions confirmed and applied to
	// the ledger, by kind.
	ConfirmationsApplied = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kakera_ledger_confirmations_applied_total",
		Help: "Pending actions confirmed and applied to the ledger.",
	}, []string{"kind"})

	// PendingExpired counts pending actions discarded by the expiry sweep.
	PendingExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kakera_ledger_pending_expired_total",
		Help: "Pending actions discarded unconfirmed by the expiry sweep.",
	})

	// AccrualSweepRuns counts completed periodic accrual passes.
	AccrualSweepRuns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kakera_ledger_accrual_sweep_runs_total",
		Help: "Completed periodic accrual passes.",
	})

	// AccrualSweepFailures counts accrual passes aborted by storage errors.
	AccrualSweepFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kakera_ledger_accrual_sweep_failures_total",
		Help: "Periodic accrual passes aborted by storage errors.",
	})
)

// Handler returns the HTTP handler serving the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
