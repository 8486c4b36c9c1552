// Package metrics defines and registers all custom Prometheus metrics for the
// dealership API. It is the single source of truth for metric names, labels,
// and help strings.
//
// Metrics are registered with the default Prometheus registry on package
// initialisation through promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "dealership"

// ── Authentication metrics ────────────────────────────────────────────────────

// LoginAttemptsTotal counts authentication attempts.
// Label:
//   - outcome: "success", "invalid_credentials", "inactive", "locked" or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by outcome.",
	},
	[]string{"outcome"},
)

// AccountLockoutsTotal counts failed attempts that pushed an account to the
// lockout threshold.
var AccountLockoutsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "account_lockouts_total",
		Help:      "Total number of times an account reached the failed-login threshold.",
	},
)

// TokenValidationsTotal counts session token validations.
// Label:
//   - result: "valid" or "invalid"
var TokenValidationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "token_validations_total",
		Help:      "Total number of session token validations, by result.",
	},
	[]string{"result"},
)

// LoginRateLimitedTotal counts login requests rejected by the rate limiter.
var LoginRateLimitedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_rate_limited_total",
		Help:      "Total number of login requests rejected by the rate limiter.",
	},
)

// ── Contract metrics ──────────────────────────────────────────────────────────

// ContractsRegisteredTotal counts contracts stored and registered in the ledger.
var ContractsRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contracts_registered_total",
		Help:      "Total number of contracts stored and registered in the ledger.",
	},
)

// ContractRegistrationErrorsTotal counts failed registrations.
// Label:
//   - reason: "store_failed", "ledger_failed" or "ledger_conflict"
var ContractRegistrationErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contract_registration_errors_total",
		Help:      "Total number of contract registrations that failed, by reason.",
	},
	[]string{"reason"},
)

// IntegrityChecksTotal counts integrity verifications.
// Label:
//   - result: "valid", "content_mismatch", "ledger_mismatch" or "ledger_missing"
var IntegrityChecksTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "integrity_checks_total",
		Help:      "Total number of contract integrity checks, by result.",
	},
	[]string{"result"},
)

// LedgerOperationDuration measures ledger round trips.
// Labels:
//   - operation: "register" or "lookup"
//   - status: "ok" or "error"
var LedgerOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "ledger_operation_duration_seconds",
		Help:      "Duration of calls to the external ledger.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"operation", "status"},
)

// ── Audit metrics ─────────────────────────────────────────────────────────────

// AuditQueueDepth tracks the number of audit entries waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index
var AuditQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "audit_queue_depth",
		Help:      "Current number of audit entries pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// AuditEntriesDroppedTotal counts audit entries dropped because a shard was full.
var AuditEntriesDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_entries_dropped_total",
		Help:      "Total number of audit entries dropped because the worker channel was full.",
	},
)

// AuditWriteErrorsTotal counts audit entries that could not be persisted.
var AuditWriteErrorsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "audit_write_errors_total",
		Help:      "Total number of audit entries that failed to persist.",
	},
)
