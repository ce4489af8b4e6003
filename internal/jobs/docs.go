// Package jobs provides scheduled background tasks for the shop floor service.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
// Schedules use the six-field format with seconds, and descriptors such as
// "@every 30s" are accepted.
//
// # Available Jobs
//
// 1. ProgressMetricsJob - publishes the progress of every work order as Prometheus gauges
// 2. StalledStepsJob - logs and counts steps that stayed in progress longer than a threshold
//
// # Usage
//
//	jobManager := jobs.NewJobManager(
//		jobs.NewProgressMetricsJob("@every 30s", dashboardHandler, recorder, logger),
//		jobs.NewStalledStepsJob("@every 5m", 4*time.Hour, stalledHandler, recorder, clock, logger),
//	)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Failed runs are logged and retried on the next tick. Failed job starts
// stop any already running jobs.
package jobs
