package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-booking/config"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrPermissionDenied = errors.New("permission denied")

type ReminderUsecase interface {
	// ScheduleForAppointment persists a pending reminder lead time before the
	// appointment. It returns nil without error when that moment has already
	// passed, and the existing reminder when one was scheduled before.
	ScheduleForAppointment(ctx context.Context, appointment *entity.Appointment) (*entity.Reminder, error)
	// ScheduleReminder is the callable form, allowed to the appointment's patient and admins
	ScheduleReminder(ctx context.Context, appointmentID uuid.UUID) (*dto.ScheduleReminderResponse, error)
}

type reminderUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	reminderRepo    repository.ReminderRepository
	appointmentRepo repository.AppointmentRepository
	location        *time.Location
	leadTime        time.Duration
	now             func() time.Time
}

func NewReminderUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	reminderRepo repository.ReminderRepository,
	appointmentRepo repository.AppointmentRepository,
	appCfg config.AppConfig,
	reminderCfg config.ReminderConfig,
) ReminderUsecase {
	leadTime := reminderCfg.LeadTime
	if leadTime <= 0 {
		leadTime = 24 * time.Hour
	}
	return &reminderUsecase{
		db:              db,
		log:             log,
		reminderRepo:    reminderRepo,
		appointmentRepo: appointmentRepo,
		location:        appCfg.Location(),
		leadTime:        leadTime,
		now:             time.Now,
	}
}

func (u *reminderUsecase) ScheduleForAppointment(ctx context.Context, appointment *entity.Appointment) (*entity.Reminder, error) {
	startsAt, err := appointment.StartsAt(u.location)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	scheduledFor, ok := entity.ReminderTimeFor(startsAt, u.leadTime, u.now())
	if !ok {
		u.log.Infof("Reminder time for appointment %s is in the past, skipping", appointment.ID)
		return nil, nil
	}

	db := u.db.WithContext(ctx)
	existing, err := u.reminderRepo.FindByAppointmentID(db, appointment.ID)
	if err != nil {
		u.log.Warnf("Failed to find reminder for appointment %s: %+v", appointment.ID, err)
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	reminder := &entity.Reminder{
		AppointmentID: appointment.ID,
		ScheduledFor:  scheduledFor.UTC(),
		Sent:          false,
		Status:        entity.ReminderStatusPending,
	}
	if err := u.reminderRepo.Create(db, reminder); err != nil {
		if isDuplicateKeyError(err, "uq_reminders_appointment") {
			return u.reminderRepo.FindByAppointmentID(db, appointment.ID)
		}
		u.log.Warnf("Failed to create reminder for appointment %s: %+v", appointment.ID, err)
		return nil, err
	}

	return reminder, nil
}

func (u *reminderUsecase) ScheduleReminder(ctx context.Context, appointmentID uuid.UUID) (*dto.ScheduleReminderResponse, error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}

	appointment, err := u.appointmentRepo.FindByID(u.db.WithContext(ctx), appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if appointment.Patient == nil {
		return nil, ErrPatientNotFound
	}
	if appointment.PatientID != session.UserID && session.Role != entity.RoleAdmin {
		return nil, ErrPermissionDenied
	}

	reminder, err := u.ScheduleForAppointment(ctx, appointment)
	if err != nil {
		return nil, err
	}

	response := &dto.ScheduleReminderResponse{Success: true}
	if reminder != nil {
		response.ReminderID = &reminder.ID
		response.ScheduledFor = &reminder.ScheduledFor
	}
	return response, nil
}
