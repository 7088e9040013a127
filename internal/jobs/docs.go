// Package jobs provides the scheduled background passes of the fulfillment tracker.
//
// Jobs are driven by github.com/robfig/cron/v3 using standard five-field
// specs evaluated in the shop's timezone.
//
// # Available Jobs
//
// 1. Escalation (default "*/30 * * * *") - cancels orders whose confirmation went
// unanswered and re-surfaces orders held for too long.
// 2. Carrier reconciliation (default "0 * * * *") - aligns order state with
// the carrier's parcel feed.
//
// # Usage
//
//	escalation := jobs.NewEscalationJob(escalateHandler, cfg.EscalationCron, loc, m, logger)
//	reconciliation := jobs.NewCarrierReconciliationJob(reconcileHandler, cfg.CarrierCron, loc, m, logger)
//
//	manager := jobs.NewJobManager(escalation, reconciliation)
//	if err := manager.StartAll(); err != nil {
//		return err
//	}
//	defer manager.StopAll()
//
// The same *Job values are exposed over HTTP through RunOnce, so a manual
// trigger and a scheduled tick share the overlap guard: a second pass of a job
// that is still running returns ErrJobAlreadyRunning. Different jobs are not
// serialized against each other.
//
// Every pass gets a run_id in its log lines and is counted in the
// fulfillment_job_runs_total and fulfillment_job_orders_total metrics.
package jobs
