// Package metrics defines and registers all custom Prometheus metrics for the
// HRM API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Domain metrics are registered with the default Prometheus registry through
// promauto when the package is loaded. Request count, latency and sizes come
// from echoprometheus, see middleware.Metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Namespace prefixes every metric of the service, including the HTTP metrics
// exported by echoprometheus.
const Namespace = "hrm"

// HTTPSubsystem names the request metrics recorded by the router middleware.
const HTTPSubsystem = "http"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid_credentials" or "error"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// AuthRejectionsTotal counts requests turned away by the authorization gate.
// Label:
//   - reason: "unauthenticated" or "forbidden"
var AuthRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "auth_rejections_total",
		Help:      "Total number of requests rejected by authentication or authorization.",
	},
	[]string{"reason"},
)

// ── Installation metrics ──────────────────────────────────────────────────────

// InstallAttemptsTotal counts install calls.
// Label:
//   - result: "installed", "already_installed", "invalid" or "error"
var InstallAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "install_attempts_total",
		Help:      "Total number of installation attempts, by result.",
	},
	[]string{"result"},
)

// ── Resource metrics ──────────────────────────────────────────────────────────

// BatchDeleteIDsTotal counts ids handled by batch deletes.
// Labels:
//   - kind: resource kind
//   - outcome: "deleted" or "not_found"
var BatchDeleteIDsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "batch_delete_ids_total",
		Help:      "Total number of ids processed by batch deletes, by kind and outcome.",
	},
	[]string{"kind", "outcome"},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsQueueDepth tracks the number of notifications waiting in each
// dispatcher worker channel.
var NotificationsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "notifications_queue_depth",
		Help:      "Current number of notifications pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// NotificationsTotal counts dispatcher outcomes.
// Label:
//   - result: "delivered", "failed" or "dropped"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "notifications_total",
		Help:      "Total number of notifications handled by the dispatcher, by result.",
	},
	[]string{"result"},
)
