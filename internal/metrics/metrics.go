// Package metrics holds the Prometheus collectors for domain events.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

var LedgerMutations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "ledger_mutations_total",
		Help: "How many ledger mutations were committed, partitioned by entity and operation.",
	},
	[]string{"entity", "operation"},
)

var PayrollRuns = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "payroll_runs_total",
		Help: "How many payroll batches were processed, partitioned by result.",
	},
	[]string{"result"},
)

var AdviceGenerations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "advice_generations_total",
		Help: "How many advice texts were generated, partitioned by source.",
	},
	[]string{"source"},
)

var NotificationsEmitted = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "notifications_emitted_total",
		Help: "How many notifications were emitted, partitioned by type.",
	},
	[]string{"type"},
)

var collectors = []prometheus.Collector{
	LedgerMutations,
	PayrollRuns,
	AdviceGenerations,
	NotificationsEmitted,
}

// Register registers all domain collectors with the default registry.
func Register() error {
	for _, c := range collectors {
		if err := prometheus.Register(c); err != nil {
			return fmt.Errorf("could not register %s with Prometheus", c)
		}
	}

	return nil
}

// Unregister unregisters all domain collectors.
//
// This is needed to cleanly exit.
func Unregister() bool {
	for _, c := range collectors {
		if ok := prometheus.Unregister(c); !ok {
			return false
		}
	}

	return true
}
