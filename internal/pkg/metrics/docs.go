// Package metrics exposes the Prometheus collectors of the fulfillment service:
//
//   - fulfillment_job_runs_total{job,outcome}
//   - fulfillment_job_orders_total{job,outcome}
//   - fulfillment_transitions_total{from,to,actor}
//   - fulfillment_correlations_total{strategy}
//
// Collectors are registered on an injected prometheus.Registerer so tests can use
// a private registry. The HTTP adapter serves them at /metrics.
package metrics
