package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"clinic-booking/config"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/infrastructure/cache"
	"clinic-booking/internal/service"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

const dispatchLockName = "reminder-dispatch"

// DispatchResult summarises one dispatcher run
type DispatchResult struct {
	LockSkipped bool  `json:"lock_skipped"`
	Requeued    int64 `json:"requeued"`
	Due         int   `json:"due"`
	Claimed     int   `json:"claimed"`
	Sent        int   `json:"sent"`
	Retrying    int   `json:"retrying"`
	Failed      int   `json:"failed"`
	Skipped     int   `json:"skipped"`
}

type dispatchOutcome int

const (
	outcomeSkipped dispatchOutcome = iota
	outcomeSent
	outcomeRetrying
	outcomeFailed
)

type ReminderDispatchUsecase interface {
	// DispatchDue sends every due reminder once. Runs never overlap across processes.
	DispatchDue(ctx context.Context) (*DispatchResult, error)
}

type reminderDispatchUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	reminderRepo        repository.ReminderRepository
	appointmentRepo     repository.AppointmentRepository
	notificationService service.NotificationService
	locker              cache.Locker
	cfg                 config.ReminderConfig
	location            *time.Location
	now                 func() time.Time
}

func NewReminderDispatchUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	reminderRepo repository.ReminderRepository,
	appointmentRepo repository.AppointmentRepository,
	notificationService service.NotificationService,
	locker cache.Locker,
	appCfg config.AppConfig,
	reminderCfg config.ReminderConfig,
) ReminderDispatchUsecase {
	if reminderCfg.MaxAttempts <= 0 {
		reminderCfg.MaxAttempts = 5
	}
	if reminderCfg.BackoffBase <= 0 {
		reminderCfg.BackoffBase = time.Hour
	}
	if reminderCfg.BackoffMax <= 0 {
		reminderCfg.BackoffMax = 24 * time.Hour
	}
	return &reminderDispatchUsecase{
		db:                  db,
		log:                 log,
		reminderRepo:        reminderRepo,
		appointmentRepo:     appointmentRepo,
		notificationService: notificationService,
		locker:              locker,
		cfg:                 reminderCfg,
		location:            appCfg.Location(),
		now:                 time.Now,
	}
}

func (u *reminderDispatchUsecase) DispatchDue(ctx context.Context) (*DispatchResult, error) {
	var result *DispatchResult
	err := u.locker.WithLock(ctx, dispatchLockName, func(ctx context.Context) error {
		var err error
		result, err = u.dispatch(ctx)
		return err
	})
	if errors.Is(err, cache.ErrLockNotAcquired) {
		u.log.Info("Reminder dispatch already running elsewhere, skipping")
		return &DispatchResult{LockSkipped: true}, nil
	}
	if err != nil {
		return result, err
	}

	u.log.WithFields(logrus.Fields{
		"requeued": result.Requeued,
		"due":      result.Due,
		"claimed":  result.Claimed,
		"sent":     result.Sent,
		"retrying": result.Retrying,
		"failed":   result.Failed,
		"skipped":  result.Skipped,
	}).Info("Reminder dispatch finished")

	return result, nil
}

func (u *reminderDispatchUsecase) dispatch(ctx context.Context) (*DispatchResult, error) {
	now := u.now()
	db := u.db.WithContext(ctx)
	result := &DispatchResult{}

	if u.cfg.StaleAfter > 0 {
		requeued, err := u.reminderRepo.RequeueStale(db, now.Add(-u.cfg.StaleAfter))
		if err != nil {
			u.log.Warnf("Failed to requeue stale reminders: %+v", err)
		}
		result.Requeued = requeued
	}

	due, err := u.reminderRepo.FindDue(db, now, u.cfg.BatchSize)
	if err != nil {
		u.log.Warnf("Failed to query due reminders: %+v", err)
		return result, fmt.Errorf("query due reminders: %w", err)
	}

	seen := make(map[string]struct{}, len(due))
	batch := make([]entity.Reminder, 0, len(due))
	for _, r := range due {
		if _, dup := seen[r.ID.String()]; dup {
			continue
		}
		seen[r.ID.String()] = struct{}{}
		batch = append(batch, r)
	}
	result.Due = len(batch)

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	if u.cfg.Concurrency > 0 {
		g.SetLimit(u.cfg.Concurrency)
	} else {
		g.SetLimit(-1)
	}

	for i := range batch {
		reminder := batch[i]
		g.Go(func() error {
			claimed, outcome := u.processOne(gctx, &reminder, now)

			mu.Lock()
			defer mu.Unlock()
			if claimed {
				result.Claimed++
			}
			switch outcome {
			case outcomeSent:
				result.Sent++
			case outcomeRetrying:
				result.Retrying++
			case outcomeFailed:
				result.Failed++
			default:
				result.Skipped++
			}
			return nil
		})
	}
	_ = g.Wait()

	return result, nil
}

// processOne claims, renders and sends a single reminder. Errors are logged
// here and never abort the batch.
func (u *reminderDispatchUsecase) processOne(ctx context.Context, reminder *entity.Reminder, now time.Time) (bool, dispatchOutcome) {
	log := u.log.WithFields(logrus.Fields{
		"reminder_id":    reminder.ID,
		"appointment_id": reminder.AppointmentID,
	})
	db := u.db.WithContext(ctx)

	claimed, err := u.reminderRepo.Claim(db, reminder.ID, now)
	if err != nil {
		log.Warnf("Failed to claim reminder: %+v", err)
		return false, outcomeSkipped
	}
	if !claimed {
		return false, outcomeSkipped
	}
	attempts := reminder.Attempts + 1

	appointment, err := u.appointmentRepo.FindByID(db, reminder.AppointmentID)
	if err != nil {
		log.Warnf("Failed to load appointment: %+v", err)
		return true, u.retryOrFail(ctx, log, reminder, attempts, now, err)
	}
	if appointment == nil {
		return true, u.fail(ctx, log, reminder, "appointment not found")
	}
	if appointment.Patient == nil {
		return true, u.fail(ctx, log, reminder, "patient not found")
	}
	if !appointment.IsScheduled() {
		return true, u.fail(ctx, log, reminder, fmt.Sprintf("appointment is %s", appointment.Status))
	}
	startsAt, err := appointment.StartsAt(u.location)
	if err != nil {
		return true, u.fail(ctx, log, reminder, fmt.Sprintf("invalid appointment date: %v", err))
	}
	if !startsAt.After(now) {
		return true, u.fail(ctx, log, reminder, "appointment already started")
	}

	patient := appointment.Patient
	err = u.notificationService.SendAppointmentReminder(ctx, &service.ReminderEmail{
		To:             patient.Email,
		FirstName:      patient.FirstName,
		LastName:       patient.LastName,
		Locale:         patient.PreferredLocale(),
		StartsAt:       startsAt,
		Time:           appointment.Time,
		DoctorName:     appointment.DoctorName,
		Specialization: appointment.Specialization,
		Location:       appointment.Location,
	})
	if err != nil {
		log.Warnf("Failed to send reminder email: %+v", err)
		return true, u.retryOrFail(ctx, log, reminder, attempts, now, err)
	}

	if _, err := u.reminderRepo.MarkSent(db, reminder.ID, now); err != nil {
		// the email left; the stale requeue may send it again
		log.Errorf("Failed to mark reminder sent: %+v", err)
	}
	return true, outcomeSent
}

func (u *reminderDispatchUsecase) retryOrFail(ctx context.Context, log *logrus.Entry, reminder *entity.Reminder, attempts int, now time.Time, cause error) dispatchOutcome {
	if attempts >= u.cfg.MaxAttempts {
		return u.fail(ctx, log, reminder, fmt.Sprintf("giving up after %d attempts: %v", attempts, cause))
	}

	next := now.Add(entity.ReminderBackoff(attempts, u.cfg.BackoffBase, u.cfg.BackoffMax))
	if _, err := u.reminderRepo.MarkRetry(u.db.WithContext(ctx), reminder.ID, next, cause.Error()); err != nil {
		log.Warnf("Failed to reschedule reminder: %+v", err)
	}
	return outcomeRetrying
}

func (u *reminderDispatchUsecase) fail(ctx context.Context, log *logrus.Entry, reminder *entity.Reminder, reason string) dispatchOutcome {
	log.Warnf("Reminder failed: %s", reason)
	if _, err := u.reminderRepo.MarkFailed(u.db.WithContext(ctx), reminder.ID, reason); err != nil {
		log.Warnf("Failed to mark reminder failed: %+v", err)
	}
	return outcomeFailed
}
