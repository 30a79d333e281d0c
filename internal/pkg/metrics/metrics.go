// Package metrics defines and registers all custom Prometheus metrics for the
// blog service. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry at package
// initialisation via promauto; the /metrics route exposes them.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// ── Authorization metrics ─────────────────────────────────────────────────────

// AuthzDecisionsTotal counts ownership policy decisions.
// Labels:
//   - kind: resource kind ("blog", "post", "comment")
//   - action: "edit" or "delete"
//   - decision: "allow" or "deny"
var AuthzDecisionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "authz_decisions_total",
		Help:      "Total number of ownership policy decisions.",
	},
	[]string{"kind", "action", "decision"},
)

// ── Mutation guard metrics ────────────────────────────────────────────────────

// MutationOutcomesTotal counts terminal states of edit and delete requests.
// Labels:
//   - kind: resource kind
//   - operation: "edit" or "delete"
//   - outcome: "committed", "not_found", "concurrency_conflict", "denied"
var MutationOutcomesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "mutation_outcomes_total",
		Help:      "Total number of guarded mutations, by outcome.",
	},
	[]string{"kind", "operation", "outcome"},
)

// GuardCommitDuration measures the conditional write plus the optional probe.
var GuardCommitDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "guard_commit_duration_seconds",
		Help:      "Duration of guarded commits, from conditional write to classification.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"kind"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditEventsDroppedTotal counts audit events discarded because the worker
// shard was full.
var AuditEventsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_dropped_total",
		Help:      "Total number of audit events dropped on a full dispatcher shard.",
	},
)

// AuditEventsErrorsTotal counts audit events the store failed to persist.
var AuditEventsErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_events_errors_total",
		Help:      "Total number of audit events that failed to persist.",
	},
)

// AuditQueueDepth tracks pending audit events per worker shard.
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// ── Resource metrics ──────────────────────────────────────────────────────────

// ResourcesCreatedTotal counts created blogs, posts and comments.
// Labels:
//   - kind: resource kind
//   - replay: "true" when an Idempotency-Key returned an existing resource
var ResourcesCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "resources_created_total",
		Help:      "Total number of resources created, by kind.",
	},
	[]string{"kind", "replay"},
)
