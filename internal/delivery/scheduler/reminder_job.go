package scheduler

import (
	"context"
	"time"

	"clinic-booking/config"
	"clinic-booking/internal/usecase"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ReminderJob runs the reminder dispatcher on a cron schedule
type ReminderJob struct {
	cron       *cron.Cron
	dispatcher usecase.ReminderDispatchUsecase
	log        *logrus.Logger
	spec       string
	timeout    time.Duration
	baseCtx    context.Context
	cancel     context.CancelFunc
}

func NewReminderJob(dispatcher usecase.ReminderDispatchUsecase, cfg config.ReminderConfig, loc *time.Location, log *logrus.Logger) *ReminderJob {
	spec := cfg.DispatchCron
	if spec == "" {
		spec = "@hourly"
	}
	baseCtx, cancel := context.WithCancel(context.Background())
	return &ReminderJob{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(log))),
		),
		dispatcher: dispatcher,
		log:        log,
		spec:       spec,
		timeout:    cfg.RunTimeout,
		baseCtx:    baseCtx,
		cancel:     cancel,
	}
}

// Start registers the job and starts the cron runner in the background
func (j *ReminderJob) Start() error {
	if _, err := j.cron.AddFunc(j.spec, func() {
		if _, err := j.RunOnce(j.baseCtx); err != nil {
			j.log.Errorf("Reminder dispatch failed: %v", err)
		}
	}); err != nil {
		return err
	}
	j.cron.Start()
	j.log.Infof("Reminder dispatcher scheduled with %q", j.spec)
	return nil
}

// Stop halts the schedule and waits for a running dispatch. When ctx expires
// first the running dispatch is cancelled.
func (j *ReminderJob) Stop(ctx context.Context) {
	done := j.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		j.log.Warn("Reminder dispatch still running at shutdown, cancelling")
		j.cancel()
		<-done.Done()
	}
	j.cancel()
}

// RunOnce performs a single dispatch bounded by the configured run timeout
func (j *ReminderJob) RunOnce(ctx context.Context) (*usecase.DispatchResult, error) {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}
	return j.dispatcher.DispatchDue(ctx)
}
