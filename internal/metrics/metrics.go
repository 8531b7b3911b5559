// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth event labels.
const (
	EventSignup         = "signup"
	EventLoginSuccess   = "login_success"
	EventLoginFailure   = "login_failure"
	EventResetRequested = "reset_requested"
	EventResetCompleted = "reset_completed"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sharefolio_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sharefolio_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	AuthEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sharefolio_auth_events_total",
			Help: "Authentication and recovery events",
		},
		[]string{"event"},
	)

	PortfolioViews = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sharefolio_portfolio_views_total",
			Help: "Public portfolio views served",
		},
	)

	MailFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sharefolio_mail_failures_total",
			Help: "Outbound mail deliveries that failed",
		},
	)
)

// RecordHTTPRequest observes one finished request. route should be the router
// pattern, not the raw path, to keep label cardinality bounded.
func RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordAuthEvent bumps the counter for event.
func RecordAuthEvent(event string) {
	AuthEvents.WithLabelValues(event).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
