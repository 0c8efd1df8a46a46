package obsv

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	JobDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "verifier_job_duration_seconds",
		Help:    "Time spent running a full verification job, by outcome.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	JobsInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "verifier_jobs_in_flight",
		Help: "Number of verification jobs currently running.",
	})

	JobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verifier_jobs_total",
		Help: "Total number of verification jobs completed, by outcome.",
	}, []string{"outcome"})

	ClassesVerified = promauto.NewCounter(prometheus.CounterOpts{
		Name: "verifier_classes_verified_total",
		Help: "Total number of plugin classes passed through VerifyClass.",
	})

	ProblemsFound = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verifier_problems_total",
		Help: "Total number of compatibility problems reported, by kind.",
	}, []string{"kind"})

	DependencyGraphSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "verifier_dependency_graph_plugins",
		Help: "Number of plugins resolved into the dependency graph of the last job.",
	})

	WatchEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "verifier_watch_events_total",
		Help: "Total number of filesystem events observed by the watch command.",
	})
)
