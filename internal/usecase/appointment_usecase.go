package usecase

import (
	"context"
	"errors"
	"time"

	"clinic-booking/config"
	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrSlotUnavailable         = errors.New("time slot is no longer available")
	ErrPatientSlotTaken        = errors.New("patient already has an appointment at this time")
	ErrAppointmentNotFound     = errors.New("appointment not found")
	ErrAppointmentNotOwned     = errors.New("appointment does not belong to you")
	ErrAppointmentNotScheduled = errors.New("appointment is no longer scheduled")
	ErrAppointmentInPast       = errors.New("cannot book an appointment in the past")
	ErrSlotNotOffered          = errors.New("the doctor does not offer this time slot")
	ErrPatientNotFound         = errors.New("patient not found")
)

type AppointmentUsecase interface {
	GetAvailableTimeSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityResponse, error)
	IsSlotAvailable(ctx context.Context, doctorID uuid.UUID, date, slot string) (bool, error)
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
	CreateAppointmentForPatient(ctx context.Context, req *dto.AdminCreateAppointmentRequest) (*dto.AppointmentResponse, error)
	GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
	CancelMyAppointment(ctx context.Context, appointmentID uuid.UUID) error
}

type appointmentUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	appointmentRepo   repository.AppointmentRepository
	userRepo          repository.UserRepository
	doctorProfileRepo repository.DoctorProfileRepository
	scheduleRepo      repository.DoctorScheduleRepository
	reminderUsecase   ReminderUsecase
	auditService      service.AuditService
	location          *time.Location
	defaultLocation   string
	now               func() time.Time
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	scheduleRepo repository.DoctorScheduleRepository,
	reminderUsecase ReminderUsecase,
	auditService service.AuditService,
	appCfg config.AppConfig,
	bookingCfg config.BookingConfig,
) AppointmentUsecase {
	defaultLocation := bookingCfg.DefaultLocation
	if defaultLocation == "" {
		defaultLocation = "Studio 1"
	}
	return &appointmentUsecase{
		db:                db,
		log:               log,
		appointmentRepo:   appointmentRepo,
		userRepo:          userRepo,
		doctorProfileRepo: doctorProfileRepo,
		scheduleRepo:      scheduleRepo,
		reminderUsecase:   reminderUsecase,
		auditService:      auditService,
		location:          appCfg.Location(),
		defaultLocation:   defaultLocation,
		now:               time.Now,
	}
}

// GetAvailableTimeSlots returns the template slots of the date's weekday minus
// the doctor's scheduled appointments, in template order. Doctors without a
// template have no slots.
func (u *appointmentUsecase) GetAvailableTimeSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityResponse, error) {
	day, err := entity.ParseDate(date, u.location)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	db := u.db.WithContext(ctx)
	schedule, err := u.scheduleRepo.FindByDoctorID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find schedule for doctor %s: %+v", doctorID, err)
		return nil, err
	}

	result := &dto.AvailabilityResponse{
		DoctorID: doctorID,
		Date:     date,
		Slots:    []string{},
	}
	if schedule == nil {
		return result, nil
	}

	labels := schedule.Slots.SlotsOn(day)
	if len(labels) == 0 {
		return result, nil
	}

	booked, err := u.appointmentRepo.FindScheduledByDoctorAndDate(db, doctorID, date)
	if err != nil {
		u.log.Warnf("Failed to find appointments for doctor %s on %s: %+v", doctorID, date, err)
		return nil, err
	}

	taken := make(map[string]struct{}, len(booked))
	for _, a := range booked {
		taken[a.Time] = struct{}{}
	}
	for _, label := range labels {
		if _, ok := taken[label]; !ok {
			result.Slots = append(result.Slots, label)
		}
	}

	return result, nil
}

func (u *appointmentUsecase) IsSlotAvailable(ctx context.Context, doctorID uuid.UUID, date, slot string) (bool, error) {
	availability, err := u.GetAvailableTimeSlots(ctx, doctorID, date)
	if err != nil {
		return false, err
	}
	for _, s := range availability.Slots {
		if s == slot {
			return true, nil
		}
	}
	return false, nil
}

// CreateAppointment books a slot for the logged-in patient
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}
	return u.book(ctx, session.UserID, session.UserID, req.DoctorID, req.Date, req.Time, req.Notes)
}

// CreateAppointmentForPatient lets an admin book on behalf of a patient
func (u *appointmentUsecase) CreateAppointmentForPatient(ctx context.Context, req *dto.AdminCreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}
	return u.book(ctx, session.UserID, req.PatientID, req.DoctorID, req.Date, req.Time, req.Notes)
}

// book runs the conflict checks and inserts the appointment. The partial
// unique indexes on scheduled appointments make the insert itself the final
// arbiter when two requests race past the checks.
func (u *appointmentUsecase) book(ctx context.Context, actorID, patientID, doctorID uuid.UUID, date, slot, notes string) (*dto.AppointmentResponse, error) {
	if !entity.IsValidSlotLabel(slot) {
		return nil, ErrInvalidTimeSlot
	}
	day, err := entity.ParseDate(date, u.location)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	appointment := &entity.Appointment{
		PatientID: patientID,
		DoctorID:  doctorID,
		Date:      date,
		Time:      slot,
		Status:    entity.AppointmentStatusScheduled,
		Location:  u.defaultLocation,
		Notes:     notes,
	}
	startsAt, err := appointment.StartsAt(u.location)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}
	if !startsAt.After(u.now()) {
		return nil, ErrAppointmentInPast
	}

	db := u.db.WithContext(ctx)

	patient, err := u.userRepo.FindByID(db, patientID)
	if err != nil {
		u.log.Warnf("Failed to find patient %s: %+v", patientID, err)
		return nil, err
	}
	if patient == nil || !patient.IsPatient() {
		return nil, ErrPatientNotFound
	}

	doctor, err := u.doctorProfileRepo.FindByUserID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}
	if !doctor.Available() || !doctor.User.Active() {
		return nil, ErrDoctorUnavailable
	}

	schedule, err := u.scheduleRepo.FindByDoctorID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find schedule for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	if schedule == nil || !schedule.Slots.Offers(day, slot) {
		return nil, ErrSlotNotOffered
	}

	doctorTaken, err := u.appointmentRepo.FindScheduledByDoctorSlot(db, doctorID, date, slot)
	if err != nil {
		u.log.Warnf("Failed to check doctor slot: %+v", err)
		return nil, err
	}
	if len(doctorTaken) > 0 {
		return nil, ErrSlotUnavailable
	}

	patientTaken, err := u.appointmentRepo.FindScheduledByPatientSlot(db, patientID, date, slot)
	if err != nil {
		u.log.Warnf("Failed to check patient slot: %+v", err)
		return nil, err
	}
	if len(patientTaken) > 0 {
		return nil, ErrPatientSlotTaken
	}

	appointment.DoctorName = doctor.User.FullName()
	appointment.Specialization = doctor.Specialization

	if err := u.appointmentRepo.Create(db, appointment); err != nil {
		if isDuplicateKeyError(err, "doctor_slot") {
			return nil, ErrSlotUnavailable
		}
		if isDuplicateKeyError(err, "patient_slot") {
			return nil, ErrPatientSlotTaken
		}
		if isForeignKeyError(err, "doctor") {
			return nil, ErrDoctorNotFound
		}
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, err
	}

	// The booking stands even when the reminder cannot be scheduled
	if _, err := u.reminderUsecase.ScheduleForAppointment(ctx, appointment); err != nil {
		u.log.Warnf("Failed to schedule reminder for appointment %s: %+v", appointment.ID, err)
	}

	_ = u.auditService.LogCreate(ctx, nil, &actorID, entity.AuditActionAppointmentCreate, "appointment", appointment.ID.String(), map[string]interface{}{
		"patient_id": patientID,
		"doctor_id":  doctorID,
		"date":       date,
		"time":       slot,
	})

	appointment.Patient = patient
	return converter.AppointmentToResponse(appointment), nil
}

// GetMyAppointments returns the logged-in patient's appointments sorted by date then time
func (u *appointmentUsecase) GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}

	appointments, err := u.appointmentRepo.FindByPatientID(u.db.WithContext(ctx), session.UserID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", session.UserID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

func (u *appointmentUsecase) CancelMyAppointment(ctx context.Context, appointmentID uuid.UUID) error {
	session, err := sessionFrom(ctx)
	if err != nil {
		return err
	}

	db := u.db.WithContext(ctx)
	appointment, err := u.appointmentRepo.FindByID(db, appointmentID)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", appointmentID, err)
		return err
	}
	if appointment == nil {
		return ErrAppointmentNotFound
	}
	if appointment.PatientID != session.UserID {
		return ErrAppointmentNotOwned
	}
	if !appointment.CanTransitionTo(entity.AppointmentStatusCancelled) {
		return ErrAppointmentNotScheduled
	}

	affected, err := u.appointmentRepo.UpdateStatus(db, appointmentID, entity.AppointmentStatusScheduled, entity.AppointmentStatusCancelled)
	if err != nil {
		u.log.Warnf("Failed to cancel appointment %s: %+v", appointmentID, err)
		return err
	}
	if affected == 0 {
		return ErrAppointmentNotScheduled
	}

	_ = u.auditService.LogUpdate(ctx, nil, &session.UserID, entity.AuditActionAppointmentCancel, "appointment", appointmentID.String(),
		map[string]interface{}{"status": appointment.Status},
		map[string]interface{}{"status": entity.AppointmentStatusCancelled},
	)
	return nil
}
