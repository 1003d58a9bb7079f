// Package metrics declares the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UserPageActivationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trailmix_userpage_activations_total",
		Help: "User page activations by outcome (ready, redirect, discarded).",
	}, []string{"outcome"})

	UserPageRedirectsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trailmix_userpage_redirects_total",
		Help: "User page activations that ended in a redirect, by cause.",
	}, []string{"cause"})

	UserPageFetchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "trailmix_userpage_fetch_duration_seconds",
		Help:    "Time spent resolving the session and loading profile data.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	})

	ActiveControllers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "trailmix_userpage_active_controllers",
		Help: "Controllers held in the page registry. Expired entries leave on access or at the next sweep.",
	})

	CommentsAppendedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trailmix_comments_appended_total",
		Help: "Comments persisted and appended to a live user page.",
	})

	TravellogEntriesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trailmix_travellog_entries_total",
		Help: "Travel log entries created.",
	})
)
