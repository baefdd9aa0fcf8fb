package handler_test

import (
	"context"
	"io"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/service"
	"clinic-booking/internal/usecase"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type mockReminderUsecase struct {
	mock.Mock
}

var _ usecase.ReminderUsecase = (*mockReminderUsecase)(nil)

func (m *mockReminderUsecase) ScheduleForAppointment(ctx context.Context, appointment *entity.Appointment) (*entity.Reminder, error) {
	args := m.Called(ctx, appointment)
	r, _ := args.Get(0).(*entity.Reminder)
	return r, args.Error(1)
}

func (m *mockReminderUsecase) ScheduleReminder(ctx context.Context, appointmentID uuid.UUID) (*dto.ScheduleReminderResponse, error) {
	args := m.Called(ctx, appointmentID)
	r, _ := args.Get(0).(*dto.ScheduleReminderResponse)
	return r, args.Error(1)
}

type mockAppointmentUsecase struct {
	mock.Mock
}

var _ usecase.AppointmentUsecase = (*mockAppointmentUsecase)(nil)

func (m *mockAppointmentUsecase) GetAvailableTimeSlots(ctx context.Context, doctorID uuid.UUID, date string) (*dto.AvailabilityResponse, error) {
	args := m.Called(ctx, doctorID, date)
	r, _ := args.Get(0).(*dto.AvailabilityResponse)
	return r, args.Error(1)
}

func (m *mockAppointmentUsecase) IsSlotAvailable(ctx context.Context, doctorID uuid.UUID, date, slot string) (bool, error) {
	args := m.Called(ctx, doctorID, date, slot)
	return args.Bool(0), args.Error(1)
}

func (m *mockAppointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*dto.AppointmentResponse)
	return r, args.Error(1)
}

func (m *mockAppointmentUsecase) CreateAppointmentForPatient(ctx context.Context, req *dto.AdminCreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*dto.AppointmentResponse)
	return r, args.Error(1)
}

func (m *mockAppointmentUsecase) GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	args := m.Called(ctx)
	r, _ := args.Get(0).(*dto.AppointmentListResponse)
	return r, args.Error(1)
}

func (m *mockAppointmentUsecase) CancelMyAppointment(ctx context.Context, appointmentID uuid.UUID) error {
	args := m.Called(ctx, appointmentID)
	return args.Error(0)
}

type mockAdminAppointmentUsecase struct {
	mock.Mock
}

var _ usecase.AdminAppointmentUsecase = (*mockAdminAppointmentUsecase)(nil)

func (m *mockAdminAppointmentUsecase) ListAppointments(ctx context.Context, filter entity.AppointmentFilter) (*dto.AppointmentListResponse, error) {
	args := m.Called(ctx, filter)
	r, _ := args.Get(0).(*dto.AppointmentListResponse)
	return r, args.Error(1)
}

func (m *mockAdminAppointmentUsecase) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.AppointmentStatus) (*dto.AppointmentResponse, error) {
	args := m.Called(ctx, id, status)
	r, _ := args.Get(0).(*dto.AppointmentResponse)
	return r, args.Error(1)
}

func (m *mockAdminAppointmentUsecase) Calendar(ctx context.Context, date string) (*dto.CalendarResponse, error) {
	args := m.Called(ctx, date)
	r, _ := args.Get(0).(*dto.CalendarResponse)
	return r, args.Error(1)
}

func (m *mockAdminAppointmentUsecase) SearchPatients(ctx context.Context, search string) (*dto.PatientListResponse, error) {
	args := m.Called(ctx, search)
	r, _ := args.Get(0).(*dto.PatientListResponse)
	return r, args.Error(1)
}

func (m *mockAdminAppointmentUsecase) Stats(ctx context.Context, filter entity.AppointmentFilter) (*dto.AppointmentStatsResponse, error) {
	args := m.Called(ctx, filter)
	r, _ := args.Get(0).(*dto.AppointmentStatsResponse)
	return r, args.Error(1)
}

func (m *mockAdminAppointmentUsecase) Export(ctx context.Context, filter entity.AppointmentFilter, format service.ExportFormat, w io.Writer) (string, error) {
	args := m.Called(ctx, filter, format, w)
	return args.String(0), args.Error(1)
}

type mockAssistantUsecase struct {
	mock.Mock
}

func (m *mockAssistantUsecase) Chat(ctx context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	args := m.Called(ctx, req)
	r, _ := args.Get(0).(*dto.ChatResponse)
	return r, args.Error(1)
}

type mockAuditLogUsecase struct {
	mock.Mock
}

var _ usecase.AuditLogUsecase = (*mockAuditLogUsecase)(nil)

func (m *mockAuditLogUsecase) GetAllAuditLogs(ctx context.Context, filter entity.AuditLogFilter, page, limit int) (*dto.AuditLogListResponse, error) {
	args := m.Called(ctx, filter, page, limit)
	r, _ := args.Get(0).(*dto.AuditLogListResponse)
	return r, args.Error(1)
}

func (m *mockAuditLogUsecase) GetAuditLog(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*dto.AuditLogResponse)
	return r, args.Error(1)
}
