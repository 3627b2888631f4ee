// Package metrics provides Prometheus metrics for workboard.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RecordStoreSize tracks the number of records held per collection snapshot
	RecordStoreSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "workboard",
			Subsystem: "recordstore",
			Name:      "records",
			Help:      "Number of records currently held by a record store",
		},
		[]string{"kind"},
	)

	// SnapshotsApplied tracks full snapshots applied to record stores
	SnapshotsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "workboard",
			Subsystem: "recordstore",
			Name:      "snapshots_applied_total",
			Help:      "Total number of full snapshots applied to record stores",
		},
		[]string{"kind"},
	)

	// QueryEvaluations tracks query view evaluations by mode
	QueryEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "workboard",
			Subsystem: "query",
			Name:      "evaluations_total",
			Help:      "Total number of query view evaluations by mode",
		},
		[]string{"mode"},
	)

	// PlaceholderMembers tracks member references that resolved to no employee
	PlaceholderMembers = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "workboard",
			Subsystem: "relation",
			Name:      "placeholder_members_total",
			Help:      "Total number of member emails resolved to a placeholder",
		},
	)

	// DocumentOperations tracks document store calls by outcome
	DocumentOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "workboard",
			Subsystem: "documents",
			Name:      "operations_total",
			Help:      "Total number of document store operations",
		},
		[]string{"backend", "collection", "op", "status"},
	)

	// MCPRequests tracks MCP method calls by outcome
	MCPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "workboard",
			Subsystem: "mcp",
			Name:      "requests_total",
			Help:      "Total number of MCP requests by method",
		},
		[]string{"method", "status"},
	)
)

// Status labels an operation outcome.
func Status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
