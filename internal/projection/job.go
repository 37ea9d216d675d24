package projection

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/tesoro-admin/tesoro/jobs"
)

// ReconcileJob re-runs the yearly reconciliation pass in the background, so
// a total that drifted on the store heals without anyone opening the screen.
type ReconcileJob struct {
	service *Service
	logger  *slog.Logger
}

// NewReconcileJob constructs a job handler.
func NewReconcileJob(service *Service, logger *slog.Logger) *ReconcileJob {
	return &ReconcileJob{service: service, logger: logger}
}

// Handle fulfils the asynq.HandlerFunc contract. A zero payload year resolves
// to the calendar year at execution time, so a worker left running across a
// year boundary follows the calendar without a restart.
func (j *ReconcileJob) Handle(ctx context.Context, task *asynq.Task) error {
	var payload jobs.ProjectionReconcilePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Year < 0 {
		return asynq.SkipRetry
	}
	year := payload.Year
	if year == 0 {
		year = time.Now().Year()
	}
	view, err := j.service.LoadYear(ctx, year)
	if err != nil {
		if j.logger != nil {
			j.logger.Error("projection reconcile", slog.Int("year", year), slog.Any("error", err))
		}
		return err
	}
	if j.logger != nil {
		j.logger.Info("projection reconciled",
			slog.Int("year", year),
			slog.String("total", view.Total.StringFixed(2)),
			slog.Int("categories", len(view.Lines)),
		)
	}
	return nil
}
