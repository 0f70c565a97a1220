// Package metrics defines and registers the custom Prometheus metrics of the
// user management service. HTTP request metrics come from the echoprometheus
// middleware; the counters here describe record lifecycle outcomes.
//
// All metrics register with the default registry on package init.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "usermgmt"

// Entity label values.
const (
	EntityRole = "role"
	EntityUser = "user"
)

// ── Record metrics ────────────────────────────────────────────────────────────

// RecordsCreatedTotal counts successfully persisted records.
// Label:
//   - entity: "role" or "user"
var RecordsCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_created_total",
		Help:      "Total number of records created, by entity.",
	},
	[]string{"entity"},
)

// RecordsSoftDeletedTotal counts records flagged as deleted.
var RecordsSoftDeletedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "records_soft_deleted_total",
		Help:      "Total number of records soft-deleted, by entity.",
	},
	[]string{"entity"},
)

// DuplicateKeyRejectionsTotal counts writes rejected by a unique index.
// Labels:
//   - entity: "role" or "user"
//   - field: the colliding field, or "unknown"
var DuplicateKeyRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "duplicate_key_rejections_total",
		Help:      "Total number of writes rejected by a unique index.",
	},
	[]string{"entity", "field"},
)

// IdempotentReplaysTotal counts create requests answered from an earlier
// request with the same Idempotency-Key.
var IdempotentReplaysTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of create requests replayed via Idempotency-Key.",
	},
	[]string{"entity"},
)

// ── User metrics ──────────────────────────────────────────────────────────────

// UserActivationsTotal counts activation attempts.
// Label:
//   - result: "activated", "already_activated", "not_found" or "missing_fields"
var UserActivationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "user_activations_total",
		Help:      "Total number of account activation attempts, by result.",
	},
	[]string{"result"},
)

// RolePopulateFailuresTotal counts best-effort role resolutions that failed
// and were skipped.
// Label:
//   - operation: "create" or "update"
var RolePopulateFailuresTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_populate_failures_total",
		Help:      "Total number of skipped role resolutions after a user write.",
	},
	[]string{"operation"},
)
