package usecase

import (
	"context"
	"errors"
	"io"
	"sort"
	"time"

	"clinic-booking/config"
	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/service"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidStatus           = errors.New("invalid appointment status")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidExportFormat     = errors.New("format must be csv or xlsx")
)

type AdminAppointmentUsecase interface {
	ListAppointments(ctx context.Context, filter entity.AppointmentFilter) (*dto.AppointmentListResponse, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus) (*dto.AppointmentResponse, error)
	Calendar(ctx context.Context, date string) (*dto.CalendarResponse, error)
	SearchPatients(ctx context.Context, search string) (*dto.PatientListResponse, error)
	Stats(ctx context.Context, filter entity.AppointmentFilter) (*dto.AppointmentStatsResponse, error)
	// Export writes the filtered appointments to w and returns the download file name
	Export(ctx context.Context, filter entity.AppointmentFilter, format service.ExportFormat, w io.Writer) (string, error)
}

type adminAppointmentUsecase struct {
	db              *gorm.DB
	log             *logrus.Logger
	appointmentRepo repository.AppointmentRepository
	userRepo        repository.UserRepository
	exportService   service.ExportService
	auditService    service.AuditService
	location        *time.Location
	revenuePerVisit decimal.Decimal
	now             func() time.Time
}

func NewAdminAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	userRepo repository.UserRepository,
	exportService service.ExportService,
	auditService service.AuditService,
	appCfg config.AppConfig,
	bookingCfg config.BookingConfig,
) AdminAppointmentUsecase {
	return &adminAppointmentUsecase{
		db:              db,
		log:             log,
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
		exportService:   exportService,
		auditService:    auditService,
		location:        appCfg.Location(),
		revenuePerVisit: bookingCfg.RevenuePerVisit,
		now:             time.Now,
	}
}

func (u *adminAppointmentUsecase) validateFilter(filter entity.AppointmentFilter) error {
	if filter.Status != "" && !filter.Status.IsValid() {
		return ErrInvalidStatus
	}
	for _, d := range []string{filter.StartDate, filter.EndDate} {
		if d == "" {
			continue
		}
		if _, err := entity.ParseDate(d, u.location); err != nil {
			return ErrInvalidDateFormat
		}
	}
	return nil
}

func (u *adminAppointmentUsecase) ListAppointments(ctx context.Context, filter entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	if err := u.validateFilter(filter); err != nil {
		return nil, err
	}

	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list appointments: %+v", err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// UpdateStatus moves a scheduled appointment to completed or cancelled.
// The update is conditional so a concurrent change is reported, not overwritten.
func (u *adminAppointmentUsecase) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus) (*dto.AppointmentResponse, error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}

	db := u.db.WithContext(ctx)
	appointment, err := u.appointmentRepo.FindByID(db, id)
	if err != nil {
		u.log.Warnf("Failed to find appointment %s: %+v", id, err)
		return nil, err
	}
	if appointment == nil {
		return nil, ErrAppointmentNotFound
	}
	if !appointment.CanTransitionTo(status) {
		return nil, ErrInvalidStatusTransition
	}

	affected, err := u.appointmentRepo.UpdateStatus(db, id, appointment.Status, status)
	if err != nil {
		u.log.Warnf("Failed to update appointment %s status: %+v", id, err)
		return nil, err
	}
	if affected == 0 {
		return nil, ErrAppointmentNotScheduled
	}

	previous := appointment.Status
	appointment.Status = status

	_ = u.auditService.LogUpdate(ctx, nil, &session.UserID, entity.AuditActionAppointmentStatus, "appointment", id.String(),
		map[string]interface{}{"status": previous},
		map[string]interface{}{"status": status},
	)

	return converter.AppointmentToResponse(appointment), nil
}

func (u *adminAppointmentUsecase) Calendar(ctx context.Context, date string) (*dto.CalendarResponse, error) {
	if _, err := entity.ParseDate(date, u.location); err != nil {
		return nil, ErrInvalidDateFormat
	}

	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), entity.AppointmentFilter{
		StartDate: date,
		EndDate:   date,
	})
	if err != nil {
		u.log.Warnf("Failed to load calendar for %s: %+v", date, err)
		return nil, err
	}

	sort.SliceStable(appointments, func(i, j int) bool {
		return appointments[i].Time < appointments[j].Time
	})

	return &dto.CalendarResponse{
		Date:         date,
		Appointments: converter.AppointmentsToResponses(appointments),
	}, nil
}

func (u *adminAppointmentUsecase) SearchPatients(ctx context.Context, search string) (*dto.PatientListResponse, error) {
	patients, err := u.userRepo.SearchPatients(u.db.WithContext(ctx), entity.PatientFilter{Search: search})
	if err != nil {
		u.log.Warnf("Failed to search patients: %+v", err)
		return nil, err
	}

	return &dto.PatientListResponse{
		Patients: converter.PatientsToResponses(patients),
		Total:    len(patients),
	}, nil
}

func (u *adminAppointmentUsecase) Stats(ctx context.Context, filter entity.AppointmentFilter) (*dto.AppointmentStatsResponse, error) {
	if err := u.validateFilter(filter); err != nil {
		return nil, err
	}

	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to load appointments for stats: %+v", err)
		return nil, err
	}

	stats := service.ComputeAppointmentStats(appointments, u.revenuePerVisit)
	return converter.AppointmentStatsToResponse(stats), nil
}

func (u *adminAppointmentUsecase) Export(ctx context.Context, filter entity.AppointmentFilter, format service.ExportFormat, w io.Writer) (string, error) {
	if !format.IsValid() {
		return "", ErrInvalidExportFormat
	}
	if err := u.validateFilter(filter); err != nil {
		return "", err
	}

	appointments, err := u.appointmentRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to load appointments for export: %+v", err)
		return "", err
	}

	if err := u.exportService.Write(w, format, appointments); err != nil {
		u.log.Warnf("Failed to write %s export: %+v", format, err)
		return "", err
	}

	return u.exportService.FileName(format, u.now().In(u.location)), nil
}
