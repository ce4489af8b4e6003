package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	progressMetricsJob *ProgressMetricsJob
	stalledStepsJob    *StalledStepsJob
}

// NewJobManager wires already constructed jobs.
func NewJobManager(progressMetricsJob *ProgressMetricsJob, stalledStepsJob *StalledStepsJob) *JobManager {
	return &JobManager{
		progressMetricsJob: progressMetricsJob,
		stalledStepsJob:    stalledStepsJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.progressMetricsJob.Start(); err != nil {
		return fmt.Errorf("failed to start progress metrics job: %w", err)
	}

	if err := jm.stalledStepsJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.progressMetricsJob.Stop()
		return fmt.Errorf("failed to start stalled steps job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ones to finish.
func (jm *JobManager) StopAll() {
	jm.stalledStepsJob.Stop()
	jm.progressMetricsJob.Stop()
}
