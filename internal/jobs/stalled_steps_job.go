package jobs

import (
	"context"
	"log/slog"
	"time"

	"shopfloor/internal/core/application/usecases/queries"
	"shopfloor/internal/core/domain/model/kernel"

	"github.com/robfig/cron/v3"
)

type stalledStepsHandler interface {
	Handle(ctx context.Context, query queries.ListStalledStepsQuery) ([]queries.StalledStep, error)
}

type stalledRecorder interface {
	SetStalledSteps(n int)
}

// StalledStepsJob warns about steps that have been in progress for longer
// than the threshold, typically a forgotten end scan.
type StalledStepsJob struct {
	schedule  string
	threshold time.Duration
	handler   stalledStepsHandler
	recorder  stalledRecorder
	clock     kernel.Clock
	cron      *cron.Cron
	logger    *slog.Logger
}

func NewStalledStepsJob(
	schedule string,
	threshold time.Duration,
	handler stalledStepsHandler,
	recorder stalledRecorder,
	clock kernel.Clock,
	logger *slog.Logger,
) *StalledStepsJob {
	return &StalledStepsJob{
		schedule:  schedule,
		threshold: threshold,
		handler:   handler,
		recorder:  recorder,
		clock:     clock,
		cron:      cron.New(cron.WithSeconds()),
		logger:    logger.With("component", "stalled_steps_job"),
	}
}

// Run checks once and returns what it found.
func (j *StalledStepsJob) Run(ctx context.Context) ([]queries.StalledStep, error) {
	query, err := queries.NewListStalledStepsQuery(j.threshold, j.clock.Now())
	if err != nil {
		return nil, err
	}

	stalled, err := j.handler.Handle(ctx, query)
	if err != nil {
		return nil, err
	}

	j.recorder.SetStalledSteps(len(stalled))
	for _, s := range stalled {
		j.logger.WarnContext(ctx, "step stalled",
			"work_order", s.WorkOrderNumber,
			"step_index", s.StepIndex,
			"step", s.StepName,
			"operator", s.Operator,
			"elapsed", s.Elapsed.Round(time.Second).String(),
		)
	}
	return stalled, nil
}

func (j *StalledStepsJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if _, err := j.Run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Stalled steps job failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Stalled steps job started",
		"schedule", j.schedule, "threshold", j.threshold.String())
	return nil
}

func (j *StalledStepsJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Stalled steps job stopped")
}
