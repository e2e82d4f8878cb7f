package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes
const (
	LoginSuccess  = "success"
	LoginFailure  = "failure"
	LoginDisabled = "disabled"
)

var initOnce sync.Once

// HTTP metrics
var (
	HTTPInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_in_flight_requests",
		Help: "In-flight HTTP requests.",
	})

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)

// Provisioning and session metrics
var (
	SignupsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tenant_portal_signups_total",
		Help: "Organizations created through signup.",
	})

	RegistrationsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tenant_portal_registrations_total",
		Help: "Members registered into an existing organization.",
	})

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tenant_portal_logins_total",
			Help: "Login attempts by result.",
		},
		[]string{"result"},
	)
)

// Init registers every collector in the default registry. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			HTTPInFlight, HTTPRequestsTotal, HTTPRequestDuration,
			SignupsTotal, RegistrationsTotal, LoginsTotal,
		)
	})
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
