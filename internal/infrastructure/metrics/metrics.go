// Package metrics collects Prometheus metrics for the API and background jobs.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	requests      *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	authRejected  *prometheus.CounterVec
	reminders     prometheus.Counter
	reminderRuns  *prometheus.CounterVec
	searchFailure prometheus.Counter
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "diary_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "diary_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		authRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "diary_auth_rejected_total",
			Help: "Requests rejected by the authentication gate, by reason.",
		}, []string{"reason"}),
		reminders: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "diary_reminders_created_total",
			Help: "Daily reminders created.",
		}),
		reminderRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "diary_reminder_runs_total",
			Help: "Daily reminder job runs by outcome.",
		}, []string{"outcome"}),
		searchFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "diary_search_index_failures_total",
			Help: "Failed writes to the diary search index.",
		}),
	}
	reg.MustRegister(c.requests, c.latency, c.authRejected, c.reminders, c.reminderRuns, c.searchFailure)
	return c
}

func (c *Collector) ObserveRequest(method, route string, status int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	c.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (c *Collector) AuthRejected(reason string) { c.authRejected.WithLabelValues(reason).Inc() }

func (c *Collector) RemindersCreated(n int) { c.reminders.Add(float64(n)) }

func (c *Collector) ReminderRun(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	c.reminderRuns.WithLabelValues(outcome).Inc()
}

func (c *Collector) SearchIndexFailed() { c.searchFailure.Inc() }

// Handler serves the scrape endpoint for gatherer.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
