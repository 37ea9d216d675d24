// Package jobs defines background task types and the worker that runs them.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskProjectionReconcile re-runs the yearly projection reconciliation
	// so a drifted total heals without a dashboard visit.
	TaskProjectionReconcile = "projection:reconcile"
)

// ProjectionReconcilePayload selects the fiscal year to reconcile. A zero
// year means the calendar year current when the task executes.
type ProjectionReconcilePayload struct {
	Year int `json:"year"`
}

// NewProjectionReconcileTask constructs an Asynq task.
func NewProjectionReconcileTask(year int) (*asynq.Task, error) {
	data, err := json.Marshal(ProjectionReconcilePayload{Year: year})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskProjectionReconcile, data), nil
}
