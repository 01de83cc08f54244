package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	marketplace = "marketplace"

	// Bid metrics
	bidPlacementsTotal   = "bid_placements_total"
	bidStatusUpdateTotal = "bid_status_updates_total"
	bidCountDriftTotal   = "bid_count_drift_total"

	// Reconciliation metrics
	bidCountCorrectionsTotal = "bid_count_corrections_total"
	reconcileRunsTotal       = "reconcile_runs_total"

	// Labels
	resultLabel = "result"
	statusLabel = "status"
)

// Placement results
const (
	PlacementPlaced    = "placed"
	PlacementDuplicate = "duplicate"
	PlacementFailed    = "failed"
)

var bidPlacementsTotalLabels = []string{
	resultLabel,
}

var bidStatusUpdateTotalLabels = []string{
	statusLabel,
}

var reconcileRunsTotalLabels = []string{
	resultLabel,
}

/**
* Metrics definition
**/
var bidPlacementsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: marketplace,
		Name:      bidPlacementsTotal,
		Help:      "number of bid placement attempts partitioned by result",
	},
	bidPlacementsTotalLabels,
)

var bidStatusUpdateTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: marketplace,
		Name:      bidStatusUpdateTotal,
		Help:      "number of bid status updates partitioned by the new status",
	},
	bidStatusUpdateTotalLabels,
)

var bidCountDriftTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: marketplace,
		Name:      bidCountDriftTotal,
		Help:      "number of bids stored whose job bid count could not be incremented",
	},
)

var bidCountCorrectionsTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: marketplace,
		Name:      bidCountCorrectionsTotal,
		Help:      "number of job bid counts corrected by reconciliation",
	},
)

var reconcileRunsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: marketplace,
		Name:      reconcileRunsTotal,
		Help:      "number of reconciliation runs partitioned by result",
	},
	reconcileRunsTotalLabels,
)

func IncreaseBidPlacementsTotalMetric(result string) {
	labels := prometheus.Labels{
		resultLabel: result,
	}
	bidPlacementsTotalMetric.With(labels).Inc()
}

func IncreaseBidStatusUpdateTotalMetric(status string) {
	labels := prometheus.Labels{
		statusLabel: status,
	}
	bidStatusUpdateTotalMetric.With(labels).Inc()
}

func IncreaseBidCountDriftMetric() {
	bidCountDriftTotalMetric.Inc()
}

func IncreaseBidCountCorrectionsMetric(count int) {
	bidCountCorrectionsTotalMetric.Add(float64(count))
}

func IncreaseReconcileRunsTotalMetric(result string) {
	labels := prometheus.Labels{
		resultLabel: result,
	}
	reconcileRunsTotalMetric.With(labels).Inc()
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(bidPlacementsTotalMetric)
	prometheus.MustRegister(bidStatusUpdateTotalMetric)
	prometheus.MustRegister(bidCountDriftTotalMetric)
	prometheus.MustRegister(bidCountCorrectionsTotalMetric)
	prometheus.MustRegister(reconcileRunsTotalMetric)
}
