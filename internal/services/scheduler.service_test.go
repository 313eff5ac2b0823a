package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJob struct {
	name     string
	schedule Schedule
	err      error
	runs     int
}

func (j *stubJob) Name() string { return j.name }

func (j *stubJob) Schedule() Schedule { return j.schedule }

func (j *stubJob) Execute(ctx context.Context) error {
	j.runs++
	return j.err
}

func TestSchedulerService_AddJob(t *testing.T) {
	scheduler := NewSchedulerService(time.UTC)
	defer func() { _ = scheduler.Stop() }()

	require.NoError(t, scheduler.AddJob(&stubJob{name: "export", schedule: DailyExport}))
	require.NoError(t, scheduler.AddJob(&stubJob{name: "cleanup", schedule: DailyCleanup}))
	assert.Error(t, scheduler.AddJob(&stubJob{name: "bogus", schedule: Schedule(42)}))

	assert.Equal(t, 2, scheduler.GetJobCount())
	assert.False(t, scheduler.IsRunning())
}

func TestSchedulerService_StartWithoutJobs(t *testing.T) {
	scheduler := NewSchedulerService(nil)

	require.NoError(t, scheduler.Start())
	assert.False(t, scheduler.IsRunning())
	assert.NoError(t, scheduler.Stop())
}

func TestSchedulerService_StartStop(t *testing.T) {
	scheduler := NewSchedulerService(time.UTC)
	require.NoError(t, scheduler.AddJob(&stubJob{name: "export", schedule: DailyExport}))

	require.NoError(t, scheduler.Start())
	assert.True(t, scheduler.IsRunning())
	require.NoError(t, scheduler.Start())

	require.NoError(t, scheduler.Stop())
	assert.False(t, scheduler.IsRunning())
}

func TestSchedulerService_TriggerJobByName(t *testing.T) {
	scheduler := NewSchedulerService(time.UTC)
	defer func() { _ = scheduler.Stop() }()

	job := &stubJob{name: "export", schedule: DailyExport}
	failing := &stubJob{name: "cleanup", schedule: DailyCleanup, err: errors.New("disk full")}
	require.NoError(t, scheduler.AddJob(job))
	require.NoError(t, scheduler.AddJob(failing))

	require.NoError(t, scheduler.TriggerJobByName(context.Background(), "export"))
	assert.Equal(t, 1, job.runs)

	assert.EqualError(t, scheduler.TriggerJobByName(context.Background(), "cleanup"), "disk full")
	assert.Error(t, scheduler.TriggerJobByName(context.Background(), "missing"))
}

func TestSchedule_String(t *testing.T) {
	assert.Equal(t, "daily@02:00", DailyExport.String())
	assert.Equal(t, "daily@03:00", DailyCleanup.String())
	assert.Equal(t, "schedule(9)", Schedule(9).String())
}

func TestSchedulerService_AddJob_DuplicateName(t *testing.T) {
	scheduler := NewSchedulerService(time.UTC)
	defer func() { _ = scheduler.Stop() }()

	require.NoError(t, scheduler.AddJob(&stubJob{name: "export", schedule: DailyExport}))
	assert.Error(t, scheduler.AddJob(&stubJob{name: "export", schedule: DailyCleanup}))
	assert.Equal(t, 1, scheduler.GetJobCount())
}
