package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/delivery/http/middleware"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/infrastructure/cache"
	"clinic-booking/internal/infrastructure/mailer"
	"clinic-booking/internal/service"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB returns a gorm handle over sqlmock. Repositories are mocked,
// so no statement is expected to reach it.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, _ := newTestDBWithMock(t)
	return db
}

// newTestDBWithMock also returns the sqlmock handle for tests that open transactions
func newTestDBWithMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		sqlDB.Close()
	})

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	return db, mock
}

func newTestLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func mustRome(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)
	return loc
}

func patientCtx(id uuid.UUID) context.Context {
	return middleware.WithSession(context.Background(), &middleware.Session{
		UserID:  id,
		Email:   "mario.rossi@example.com",
		Role:    entity.RolePatient,
		TokenID: "token",
	})
}

func adminCtx(id uuid.UUID) context.Context {
	return middleware.WithSession(context.Background(), &middleware.Session{
		UserID:  id,
		Email:   "admin@centromedicoplus.it",
		Role:    entity.RoleAdmin,
		TokenID: "token",
	})
}

type mockAppointmentRepository struct {
	mock.Mock
}

var _ repository.AppointmentRepository = (*mockAppointmentRepository)(nil)

func (m *mockAppointmentRepository) Create(db *gorm.DB, appointment *entity.Appointment) error {
	args := m.Called(db, appointment)
	return args.Error(0)
}

func (m *mockAppointmentRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error) {
	args := m.Called(db, id)
	a, _ := args.Get(0).(*entity.Appointment)
	return a, args.Error(1)
}

func (m *mockAppointmentRepository) FindScheduledByDoctorSlot(db *gorm.DB, doctorID uuid.UUID, date, slot string) ([]entity.Appointment, error) {
	args := m.Called(db, doctorID, date, slot)
	a, _ := args.Get(0).([]entity.Appointment)
	return a, args.Error(1)
}

func (m *mockAppointmentRepository) FindScheduledByPatientSlot(db *gorm.DB, patientID uuid.UUID, date, slot string) ([]entity.Appointment, error) {
	args := m.Called(db, patientID, date, slot)
	a, _ := args.Get(0).([]entity.Appointment)
	return a, args.Error(1)
}

func (m *mockAppointmentRepository) FindScheduledByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date string) ([]entity.Appointment, error) {
	args := m.Called(db, doctorID, date)
	a, _ := args.Get(0).([]entity.Appointment)
	return a, args.Error(1)
}

func (m *mockAppointmentRepository) FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error) {
	args := m.Called(db, patientID)
	a, _ := args.Get(0).([]entity.Appointment)
	return a, args.Error(1)
}

func (m *mockAppointmentRepository) FindAll(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error) {
	args := m.Called(db, filter)
	a, _ := args.Get(0).([]entity.Appointment)
	return a, args.Error(1)
}

func (m *mockAppointmentRepository) UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error) {
	args := m.Called(db, id, from, to)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockAppointmentRepository) DeleteByDoctorID(db *gorm.DB, doctorID uuid.UUID) error {
	args := m.Called(db, doctorID)
	return args.Error(0)
}

type mockUserRepository struct {
	mock.Mock
}

var _ repository.UserRepository = (*mockUserRepository)(nil)

func (m *mockUserRepository) Create(db *gorm.DB, user *entity.User) error {
	args := m.Called(db, user)
	return args.Error(0)
}

func (m *mockUserRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	args := m.Called(db, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepository) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	args := m.Called(db, email)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepository) Update(db *gorm.DB, user *entity.User) error {
	args := m.Called(db, user)
	return args.Error(0)
}

func (m *mockUserRepository) UpdatePassword(db *gorm.DB, id uuid.UUID, passwordHash string) error {
	args := m.Called(db, id, passwordHash)
	return args.Error(0)
}

func (m *mockUserRepository) MarkEmailVerified(db *gorm.DB, id uuid.UUID) error {
	args := m.Called(db, id)
	return args.Error(0)
}

func (m *mockUserRepository) SearchPatients(db *gorm.DB, filter entity.PatientFilter) ([]entity.User, error) {
	args := m.Called(db, filter)
	u, _ := args.Get(0).([]entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	args := m.Called(db, id)
	return args.Error(0)
}

type mockDoctorProfileRepository struct {
	mock.Mock
}

var _ repository.DoctorProfileRepository = (*mockDoctorProfileRepository)(nil)

func (m *mockDoctorProfileRepository) Create(db *gorm.DB, profile *entity.DoctorProfile) error {
	args := m.Called(db, profile)
	return args.Error(0)
}

func (m *mockDoctorProfileRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.DoctorProfile, error) {
	args := m.Called(db, userID)
	p, _ := args.Get(0).(*entity.DoctorProfile)
	return p, args.Error(1)
}

func (m *mockDoctorProfileRepository) FindAll(db *gorm.DB, filter repository.DoctorFilter) ([]entity.DoctorProfile, error) {
	args := m.Called(db, filter)
	p, _ := args.Get(0).([]entity.DoctorProfile)
	return p, args.Error(1)
}

func (m *mockDoctorProfileRepository) Update(db *gorm.DB, profile *entity.DoctorProfile) error {
	args := m.Called(db, profile)
	return args.Error(0)
}

func (m *mockDoctorProfileRepository) Delete(db *gorm.DB, userID uuid.UUID) error {
	args := m.Called(db, userID)
	return args.Error(0)
}

type mockDoctorScheduleRepository struct {
	mock.Mock
}

var _ repository.DoctorScheduleRepository = (*mockDoctorScheduleRepository)(nil)

func (m *mockDoctorScheduleRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) (*entity.DoctorSchedule, error) {
	args := m.Called(db, doctorID)
	s, _ := args.Get(0).(*entity.DoctorSchedule)
	return s, args.Error(1)
}

func (m *mockDoctorScheduleRepository) CreateIfAbsent(db *gorm.DB, schedule *entity.DoctorSchedule) error {
	args := m.Called(db, schedule)
	return args.Error(0)
}

func (m *mockDoctorScheduleRepository) Upsert(db *gorm.DB, schedule *entity.DoctorSchedule) error {
	args := m.Called(db, schedule)
	return args.Error(0)
}

func (m *mockDoctorScheduleRepository) Delete(db *gorm.DB, doctorID uuid.UUID) error {
	args := m.Called(db, doctorID)
	return args.Error(0)
}

type mockReminderRepository struct {
	mock.Mock
}

var _ repository.ReminderRepository = (*mockReminderRepository)(nil)

func (m *mockReminderRepository) Create(db *gorm.DB, reminder *entity.Reminder) error {
	args := m.Called(db, reminder)
	return args.Error(0)
}

func (m *mockReminderRepository) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.Reminder, error) {
	args := m.Called(db, appointmentID)
	r, _ := args.Get(0).(*entity.Reminder)
	return r, args.Error(1)
}

func (m *mockReminderRepository) FindDue(db *gorm.DB, now time.Time, limit int) ([]entity.Reminder, error) {
	args := m.Called(db, now, limit)
	r, _ := args.Get(0).([]entity.Reminder)
	return r, args.Error(1)
}

func (m *mockReminderRepository) Claim(db *gorm.DB, id uuid.UUID, now time.Time) (bool, error) {
	args := m.Called(db, id, now)
	return args.Bool(0), args.Error(1)
}

func (m *mockReminderRepository) MarkSent(db *gorm.DB, id uuid.UUID, sentAt time.Time) (bool, error) {
	args := m.Called(db, id, sentAt)
	return args.Bool(0), args.Error(1)
}

func (m *mockReminderRepository) MarkRetry(db *gorm.DB, id uuid.UUID, nextAttemptAt time.Time, lastError string) (bool, error) {
	args := m.Called(db, id, nextAttemptAt, lastError)
	return args.Bool(0), args.Error(1)
}

func (m *mockReminderRepository) MarkFailed(db *gorm.DB, id uuid.UUID, lastError string) (bool, error) {
	args := m.Called(db, id, lastError)
	return args.Bool(0), args.Error(1)
}

func (m *mockReminderRepository) RequeueStale(db *gorm.DB, claimedBefore time.Time) (int64, error) {
	args := m.Called(db, claimedBefore)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockReminderRepository) DeleteByDoctorID(db *gorm.DB, doctorID uuid.UUID) error {
	args := m.Called(db, doctorID)
	return args.Error(0)
}

type mockReviewRepository struct {
	mock.Mock
}

var _ repository.ReviewRepository = (*mockReviewRepository)(nil)

func (m *mockReviewRepository) Create(db *gorm.DB, review *entity.Review) error {
	args := m.Called(db, review)
	return args.Error(0)
}

func (m *mockReviewRepository) FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) ([]entity.Review, error) {
	args := m.Called(db, doctorID)
	reviews, _ := args.Get(0).([]entity.Review)
	return reviews, args.Error(1)
}

func (m *mockReviewRepository) FindByDoctorAndPatient(db *gorm.DB, doctorID, patientID uuid.UUID) (*entity.Review, error) {
	args := m.Called(db, doctorID, patientID)
	review, _ := args.Get(0).(*entity.Review)
	return review, args.Error(1)
}

func (m *mockReviewRepository) DeleteByDoctorID(db *gorm.DB, doctorID uuid.UUID) error {
	args := m.Called(db, doctorID)
	return args.Error(0)
}

type mockMedicalServiceRepository struct {
	mock.Mock
}

var _ repository.MedicalServiceRepository = (*mockMedicalServiceRepository)(nil)

func (m *mockMedicalServiceRepository) Create(ctx context.Context, s *entity.MedicalService) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockMedicalServiceRepository) FindAll(ctx context.Context, limit, offset int) ([]entity.MedicalService, int64, error) {
	args := m.Called(ctx, limit, offset)
	services, _ := args.Get(0).([]entity.MedicalService)
	return services, args.Get(1).(int64), args.Error(2)
}

func (m *mockMedicalServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.MedicalService, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(*entity.MedicalService)
	return s, args.Error(1)
}

func (m *mockMedicalServiceRepository) Update(ctx context.Context, s *entity.MedicalService) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockMedicalServiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockAuditService struct {
	mock.Mock
}

var _ service.AuditService = (*mockAuditService)(nil)

func (m *mockAuditService) LogCreate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, newValue interface{}) error {
	args := m.Called(ctx, tx, userID, action, entityName, entityID, newValue)
	return args.Error(0)
}

func (m *mockAuditService) LogUpdate(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, oldValue, newValue interface{}) error {
	args := m.Called(ctx, tx, userID, action, entityName, entityID, oldValue, newValue)
	return args.Error(0)
}

func (m *mockAuditService) LogDelete(ctx context.Context, tx *gorm.DB, userID *uuid.UUID, action, entityName, entityID string, oldValue interface{}) error {
	args := m.Called(ctx, tx, userID, action, entityName, entityID, oldValue)
	return args.Error(0)
}

func (m *mockAuditService) LogEvent(ctx context.Context, userID *uuid.UUID, action string, details entity.JSON) error {
	args := m.Called(ctx, userID, action, details)
	return args.Error(0)
}

type mockNotificationService struct {
	mock.Mock
}

var _ service.NotificationService = (*mockNotificationService)(nil)

func (m *mockNotificationService) RenderReminder(data *service.ReminderEmail) (*mailer.Message, error) {
	args := m.Called(data)
	msg, _ := args.Get(0).(*mailer.Message)
	return msg, args.Error(1)
}

func (m *mockNotificationService) SendAppointmentReminder(ctx context.Context, data *service.ReminderEmail) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *mockNotificationService) SendEmailVerification(ctx context.Context, user *entity.User, token string) error {
	args := m.Called(ctx, user, token)
	return args.Error(0)
}

func (m *mockNotificationService) SendPasswordReset(ctx context.Context, user *entity.User, token string) error {
	args := m.Called(ctx, user, token)
	return args.Error(0)
}

type mockReminderUsecase struct {
	mock.Mock
}

var _ ReminderUsecase = (*mockReminderUsecase)(nil)

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

// stubLocker runs fn in place, or refuses when held is set
type stubLocker struct {
	held  bool
	calls int
}

func (l *stubLocker) WithLock(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	l.calls++
	if l.held {
		return cache.ErrLockNotAcquired
	}
	return fn(ctx)
}
