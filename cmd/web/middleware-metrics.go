package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

//nolint:gochecknoglobals // collectors are registered once with the default registry.
var (
	httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "trainplan",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by route and status code.",
	}, []string{"method", "route", "code"})

	httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "trainplan",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
)

func init() {
	prometheus.MustRegister(httpRequests, httpDuration)
}

// observeRequest records the request under its mux pattern so that path values don't explode the label cardinality.
func observeRequest(r *http.Request, statusCode int, duration time.Duration) {
	route := r.Pattern
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(r.Method, route, strconv.Itoa(statusCode)).Inc()
	httpDuration.WithLabelValues(r.Method, route).Observe(duration.Seconds())
}
