package scheduler_test

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"clinic-booking/config"
	"clinic-booking/internal/delivery/scheduler"
	"clinic-booking/internal/usecase"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingDispatcher struct {
	calls       atomic.Int32
	hadDeadline atomic.Bool
}

func (d *countingDispatcher) DispatchDue(ctx context.Context) (*usecase.DispatchResult, error) {
	d.calls.Add(1)
	_, ok := ctx.Deadline()
	d.hadDeadline.Store(ok)
	return &usecase.DispatchResult{Sent: 1}, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestReminderJob_RunOnceAppliesTimeout(t *testing.T) {
	dispatcher := &countingDispatcher{}
	job := scheduler.NewReminderJob(dispatcher, config.ReminderConfig{RunTimeout: time.Minute}, time.UTC, quietLogger())

	result, err := job.RunOnce(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	assert.True(t, dispatcher.hadDeadline.Load())
}

func TestReminderJob_StartRejectsBadSchedule(t *testing.T) {
	job := scheduler.NewReminderJob(&countingDispatcher{}, config.ReminderConfig{DispatchCron: "every now and then"}, time.UTC, quietLogger())

	assert.Error(t, job.Start())
}

func TestReminderJob_RunsOnSchedule(t *testing.T) {
	dispatcher := &countingDispatcher{}
	job := scheduler.NewReminderJob(dispatcher, config.ReminderConfig{DispatchCron: "@every 1s"}, time.UTC, quietLogger())

	require.NoError(t, job.Start())
	assert.Eventually(t, func() bool { return dispatcher.calls.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	job.Stop(ctx)
}
