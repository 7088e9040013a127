package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Job run outcomes.
const (
	RunSucceeded = "succeeded"
	RunFailed    = "failed"
)

// Per-order outcomes of a job run.
const (
	OrderSuccessful = "successful"
	OrderFailed     = "failed"
	OrderSkipped    = "skipped"
)

// Metrics holds the fulfillment collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	jobRuns      *prometheus.CounterVec
	jobOrders    *prometheus.CounterVec
	transitions  *prometheus.CounterVec
	correlations *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fulfillment_job_runs_total",
			Help: "Job runs by job and outcome.",
		}, []string{"job", "outcome"}),
		jobOrders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fulfillment_job_orders_total",
			Help: "Orders processed by job runs, by job and per-order outcome.",
		}, []string{"job", "outcome"}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fulfillment_transitions_total",
			Help: "Notified status changes by previous status, current status and actor.",
		}, []string{"from", "to", "actor"}),
		correlations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fulfillment_correlations_total",
			Help: "Inbound replies by correlation strategy (context, phone, miss, ignored).",
		}, []string{"strategy"}),
	}

	for _, c := range []prometheus.Collector{m.jobRuns, m.jobOrders, m.transitions, m.correlations} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// JobRun records one job run and the per-order counts of its result.
func (m *Metrics) JobRun(job string, err error, successful, failed, skipped int) {
	if m == nil {
		return
	}
	outcome := RunSucceeded
	if err != nil {
		outcome = RunFailed
	}
	m.jobRuns.WithLabelValues(job, outcome).Inc()
	m.jobOrders.WithLabelValues(job, OrderSuccessful).Add(float64(successful))
	m.jobOrders.WithLabelValues(job, OrderFailed).Add(float64(failed))
	m.jobOrders.WithLabelValues(job, OrderSkipped).Add(float64(skipped))
}

func (m *Metrics) Transition(from, to, actor string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(from, to, actor).Inc()
}

func (m *Metrics) Correlation(strategy string) {
	if m == nil {
		return
	}
	m.correlations.WithLabelValues(strategy).Inc()
}
