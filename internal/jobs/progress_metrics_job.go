package jobs

import (
	"context"
	"log/slog"

	"shopfloor/internal/core/application/usecases/queries"
	"shopfloor/internal/core/domain/model/workorder"
	"shopfloor/internal/core/domain/services"

	"github.com/robfig/cron/v3"
)

type dashboardHandler interface {
	Handle(ctx context.Context, query queries.GetDashboardOverviewQuery) ([]queries.DashboardRow, error)
}

type snapshotRecorder interface {
	SetSnapshot(rows []services.Progress)
}

// ProgressMetricsJob periodically publishes the progress of every work order
// to the metrics recorder.
type ProgressMetricsJob struct {
	schedule string
	handler  dashboardHandler
	recorder snapshotRecorder
	cron     *cron.Cron
	logger   *slog.Logger
}

func NewProgressMetricsJob(
	schedule string,
	handler dashboardHandler,
	recorder snapshotRecorder,
	logger *slog.Logger,
) *ProgressMetricsJob {
	return &ProgressMetricsJob{
		schedule: schedule,
		handler:  handler,
		recorder: recorder,
		cron:     cron.New(cron.WithSeconds()),
		logger:   logger.With("component", "progress_metrics_job"),
	}
}

// Run takes one snapshot.
func (j *ProgressMetricsJob) Run(ctx context.Context) error {
	query, err := queries.NewGetDashboardOverviewQuery(nil, workorder.Unknown)
	if err != nil {
		return err
	}

	rows, err := j.handler.Handle(ctx, query)
	if err != nil {
		return err
	}

	progress := make([]services.Progress, 0, len(rows))
	for _, row := range rows {
		progress = append(progress, row.Progress)
	}
	j.recorder.SetSnapshot(progress)
	j.logger.DebugContext(ctx, "progress snapshot published", "work_orders", len(progress))
	return nil
}

func (j *ProgressMetricsJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		ctx := context.Background()
		if err := j.Run(ctx); err != nil {
			j.logger.ErrorContext(ctx, "Progress metrics job failed", "error", err)
		}
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Progress metrics job started", "schedule", j.schedule)
	return nil
}

func (j *ProgressMetricsJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Progress metrics job stopped")
}
