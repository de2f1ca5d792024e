// SPDX-License-Identifier: MIT

package finder

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/precursor/milp"
)

// Metrics holds the Prometheus collectors of a run. Collectors live in a
// private registry so several engines (and tests) never collide.
type Metrics struct {
	registry *prometheus.Registry

	Targets    *prometheus.CounterVec
	Solutions  *prometheus.CounterVec
	Errors     *prometheus.CounterVec
	Violations prometheus.Counter
	Duration   *prometheus.HistogramVec

	SolverCalls    *prometheus.CounterVec
	SolverDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors under namespace and registers them
// on a fresh registry.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Targets: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "targets_total",
			Help:      "Targets searched, by strategy and mode.",
		}, []string{"strategy", "mode"}),
		Solutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solutions_total",
			Help:      "Minimal precursor sets found, by strategy.",
		}, []string{"strategy"}),
		Errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "target_errors_total",
			Help:      "Targets whose search ended with an error, by strategy.",
		}, []string{"strategy"}),
		Violations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "minimality_violations_total",
			Help:      "Nested solution pairs found by the minimality audit.",
		}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Wall-clock time of one target search.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		}, []string{"strategy"}),
		SolverCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solver_calls_total",
			Help:      "MILP solver calls, by kind and final status.",
		}, []string{"kind", "status"}),
		SolverDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solver_duration_seconds",
			Help:      "Wall-clock time of one MILP solver call.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"kind"}),
	}
	m.registry.MustRegister(
		m.Targets,
		m.Solutions,
		m.Errors,
		m.Violations,
		m.Duration,
		m.SolverCalls,
		m.SolverDuration,
	)

	return m
}

// Registry returns the registry holding every collector of m.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// InstrumentSolver wraps s so that every call is counted and timed.
// A nil receiver returns s unchanged.
func (m *Metrics) InstrumentSolver(s milp.Solver) milp.Solver {
	if m == nil {
		return s
	}

	return &instrumented{next: s, m: m}
}

const (
	kindSolve    = "solve"
	kindPopulate = "populate"
	statusError  = "error"
)

type instrumented struct {
	next milp.Solver
	m    *Metrics
}

func (s *instrumented) Solve(ctx context.Context, model *milp.Model) (milp.Solution, error) {
	start := time.Now()
	sol, err := s.next.Solve(ctx, model)
	s.observe(kindSolve, sol.Status, err, start)

	return sol, err
}

func (s *instrumented) Populate(ctx context.Context, model *milp.Model, p milp.PoolParams) (milp.Pool, error) {
	start := time.Now()
	pool, err := s.next.Populate(ctx, model, p)
	s.observe(kindPopulate, pool.Status, err, start)

	return pool, err
}

func (s *instrumented) observe(kind string, st milp.Status, err error, start time.Time) {
	status := st.String()
	if err != nil {
		status = statusError
	}
	s.m.SolverCalls.WithLabelValues(kind, status).Inc()
	s.m.SolverDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}
