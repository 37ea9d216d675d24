package projection

import (
	"context"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tesoro-admin/tesoro/jobs"
)

func TestHandleZeroYearTargetsCurrentYear(t *testing.T) {
	fs := newFakeProjectionStore(t)
	svc := newTestService(t, fs)
	job := NewReconcileJob(svc, nil)

	task, err := jobs.NewProjectionReconcileTask(0)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	// The handler resolved the year when it ran, not when the task was built,
	// and lazily created that year's projection.
	fs.mu.Lock()
	defer fs.mu.Unlock()
	require.Len(t, fs.projections, 1)
	assert.Equal(t, time.Now().Year(), fs.projections[0].Year)
}

func TestHandlePinnedYearIsKept(t *testing.T) {
	fs := newFakeProjectionStore(t)
	fs.projections = []projectionWire{{ID: 1, Year: 2031, TotalAmount: "0.00", State: StateOpen}}
	svc := newTestService(t, fs)
	job := NewReconcileJob(svc, nil)

	task, err := jobs.NewProjectionReconcileTask(2031)
	require.NoError(t, err)
	require.NoError(t, job.Handle(context.Background(), task))

	fs.mu.Lock()
	defer fs.mu.Unlock()
	assert.Len(t, fs.projections, 1)
}

func TestHandleMalformedPayloadSkipsRetry(t *testing.T) {
	job := NewReconcileJob(nil, nil)
	task := asynq.NewTask(jobs.TaskProjectionReconcile, []byte("{"))
	assert.ErrorIs(t, job.Handle(context.Background(), task), asynq.SkipRetry)
}
