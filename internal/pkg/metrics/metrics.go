// Package metrics defines the custom Prometheus metrics of the site backend.
// All metrics register with the default registry on package init via promauto
// and are served from /metrics next to the echoprometheus HTTP metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "site"

// ── Contact metrics ───────────────────────────────────────────────────────────

// ContactSubmissionsTotal counts contact form submissions by outcome.
// Label:
//   - result: "accepted", "invalid", "misconfigured", "persist_failed"
var ContactSubmissionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contact_submissions_total",
		Help:      "Total number of contact form submissions, by result.",
	},
	[]string{"result"},
)

// ContactNotificationsTotal counts staff notification attempts for stored submissions.
// Label:
//   - result: "sent" or "degraded"
var ContactNotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "contact_notifications_total",
		Help:      "Total number of contact notification emails, by result.",
	},
	[]string{"result"},
)

// ── Admin session metrics ─────────────────────────────────────────────────────

// AdminLoginsTotal counts admin login attempts.
// Label:
//   - result: "success", "invalid_credentials", "misconfigured", "error"
var AdminLoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_logins_total",
		Help:      "Total number of admin login attempts, by result.",
	},
	[]string{"result"},
)

// AdminAccessDeniedTotal counts requests turned away by the admin session gate.
var AdminAccessDeniedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "admin_access_denied_total",
		Help:      "Total number of requests denied by the admin session gate.",
	},
)
