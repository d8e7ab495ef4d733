// Package metrics defines and registers the custom Prometheus metrics for the
// fxclient request layer. It is the single source of truth for metric names,
// labels, and help strings.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fxclient"

// RequestsTotal counts backend calls by outcome.
// Labels:
//   - method: the HTTP method of the call
//   - outcome: "success", "error", "unauthorized" or "transport"
var RequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of backend API calls, by method and outcome.",
	},
	[]string{"method", "outcome"},
)

// UnauthorizedTotal counts 401 responses that triggered the shared
// authentication-required handling (calls that did not opt out).
var UnauthorizedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "unauthorized_total",
		Help:      "Total number of unauthorized responses that invalidated the session.",
	},
)

// RequestDuration measures wall time of a backend call, transport included.
// Label:
//   - method: the HTTP method of the call
var RequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "request_duration_seconds",
		Help:      "Duration of backend API calls from dispatch to response.",
		Buckets:   prometheus.DefBuckets, // .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10
	},
	[]string{"method"},
)
