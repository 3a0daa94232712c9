// Package metrics holds the prometheus collectors for rule evaluation.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gardencare"

type Metrics struct {
	evalDuration      *prometheus.HistogramVec
	insights          *prometheus.CounterVec
	tasksGenerated    *prometheus.CounterVec
	budgetExceeded    prometheus.Counter
	recurrenceFailure prometheus.Counter
	integrityFaults   *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		evalDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Wall time of one insight evaluation or task generation.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1},
		}, []string{"kind"}),
		insights: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "insights_total",
			Help:      "Insights produced, by severity.",
		}, []string{"severity"}),
		tasksGenerated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_generated_total",
			Help:      "Care tasks persisted by the generator, by trigger.",
		}, []string{"trigger"}),
		budgetExceeded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "budget_exceeded_total",
			Help:      "Evaluations that ran past the configured time budget.",
		}),
		recurrenceFailure: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "recurrence_failures_total",
			Help:      "Completions whose next occurrence could not be stored.",
		}),
		integrityFaults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "integrity_faults_total",
			Help:      "Records skipped because they failed integrity checks, by entity.",
		}, []string{"entity"}),
	}
	if reg != nil {
		reg.MustRegister(m.evalDuration, m.insights, m.tasksGenerated,
			m.budgetExceeded, m.recurrenceFailure, m.integrityFaults)
	}
	return m
}

func (m *Metrics) ObserveEvaluation(kind string, d time.Duration) {
	if m == nil {
		return
	}
	m.evalDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func (m *Metrics) AddInsights(severity string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.insights.WithLabelValues(severity).Add(float64(n))
}

func (m *Metrics) AddTasks(trigger string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.tasksGenerated.WithLabelValues(trigger).Add(float64(n))
}

func (m *Metrics) BudgetExceeded() {
	if m == nil {
		return
	}
	m.budgetExceeded.Inc()
}

func (m *Metrics) RecurrenceFailed() {
	if m == nil {
		return
	}
	m.recurrenceFailure.Inc()
}

func (m *Metrics) IntegrityFault(entity string) {
	if m == nil {
		return
	}
	m.integrityFaults.WithLabelValues(entity).Inc()
}
