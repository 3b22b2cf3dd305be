// Package metrics defines the custom Prometheus metrics of the payroll API.
// HTTP request metrics come from the echoprometheus middleware; the ones here
// describe authentication and employee operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric the API exports.
const Namespace = "payroll"

// Label values shared by the counters below.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
	ResultError   = "error"
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginAttemptsTotal counts POST /token calls.
// Label:
//   - result: "success", "failure" (bad credentials) or "error"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// TokenRejectionsTotal counts requests refused because the bearer token was
// missing, invalid, expired or named an employee that no longer exists.
var TokenRejectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "token_rejections_total",
		Help:      "Total number of requests rejected with 401 by the auth middleware.",
	},
)

// ── Employee metrics ──────────────────────────────────────────────────────────

// EmployeeOperationsTotal counts employee use case calls.
// Labels:
//   - operation: create, list, get, replace, update, delete
//   - result: "success", "failure" (4xx class) or "error"
var EmployeeOperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "employee_operations_total",
		Help:      "Total number of employee operations, by operation and result.",
	},
	[]string{"operation", "result"},
)

// IdempotentReplaysTotal counts create requests answered from a stored response.
var IdempotentReplaysTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "idempotent_replays_total",
		Help:      "Total number of responses replayed for a repeated Idempotency-Key.",
	},
)
