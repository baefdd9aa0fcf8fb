package usecase

import (
	"context"
	"errors"
	"testing"

	"clinic-booking/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type doctorFixture struct {
	users        *mockUserRepository
	doctors      *mockDoctorProfileRepository
	schedules    *mockDoctorScheduleRepository
	appointments *mockAppointmentRepository
	reminders    *mockReminderRepository
	reviews      *mockReviewRepository
	audit        *mockAuditService
	sql          sqlmock.Sqlmock
	uc           *doctorProfileUsecase
}

func newDoctorFixture(t *testing.T) *doctorFixture {
	db, sql := newTestDBWithMock(t)
	f := &doctorFixture{
		users:        new(mockUserRepository),
		doctors:      new(mockDoctorProfileRepository),
		schedules:    new(mockDoctorScheduleRepository),
		appointments: new(mockAppointmentRepository),
		reminders:    new(mockReminderRepository),
		reviews:      new(mockReviewRepository),
		audit:        new(mockAuditService),
		sql:          sql,
	}
	f.uc = &doctorProfileUsecase{
		db:                db,
		log:               newTestLogger(),
		userRepo:          f.users,
		doctorProfileRepo: f.doctors,
		scheduleRepo:      f.schedules,
		appointmentRepo:   f.appointments,
		reminderRepo:      f.reminders,
		reviewRepo:        f.reviews,
		auditService:      f.audit,
	}
	return f
}

func doctorProfile(id uuid.UUID) *entity.DoctorProfile {
	available := true
	return &entity.DoctorProfile{
		UserID:         id,
		Specialization: "Cardiologia",
		Languages:      entity.StringList{"Italiano"},
		IsAvailable:    &available,
		User: entity.User{
			ID:        id,
			FirstName: "Laura",
			LastName:  "Bianchi",
			Role:      entity.RoleDoctor,
		},
	}
}

// expectCascade registers every delete step, recording the order they run in.
// The step named failAt returns boom.
func (f *doctorFixture) expectCascade(doctorID uuid.UUID, order *[]string, failAt string, boom error) {
	steps := []struct {
		name string
		mock *mock.Mock
		call string
	}{
		{"reminders", &f.reminders.Mock, "DeleteByDoctorID"},
		{"appointments", &f.appointments.Mock, "DeleteByDoctorID"},
		{"schedule", &f.schedules.Mock, "Delete"},
		{"reviews", &f.reviews.Mock, "DeleteByDoctorID"},
		{"profile", &f.doctors.Mock, "Delete"},
		{"user", &f.users.Mock, "Delete"},
	}
	for _, step := range steps {
		name := step.name
		var err error
		if name == failAt {
			err = boom
		}
		step.mock.On(step.call, mock.Anything, doctorID).
			Run(func(mock.Arguments) { *order = append(*order, name) }).
			Return(err).Maybe()
	}
}

func TestDeleteDoctor_CascadesInOrder(t *testing.T) {
	f := newDoctorFixture(t)
	doctorID, adminID := uuid.New(), uuid.New()
	var order []string

	f.sql.ExpectBegin()
	f.sql.ExpectCommit()
	f.doctors.On("FindByUserID", mock.Anything, doctorID).Return(doctorProfile(doctorID), nil)
	f.expectCascade(doctorID, &order, "", nil)
	f.audit.On("LogDelete", mock.Anything, mock.Anything, mock.Anything, entity.AuditActionDoctorDelete, "doctor_profile", doctorID.String(), mock.Anything).Return(nil)

	err := f.uc.DeleteDoctor(adminCtx(adminID), doctorID)

	assert.NoError(t, err)
	assert.Equal(t, []string{"reminders", "appointments", "schedule", "reviews", "profile", "user"}, order)
	f.audit.AssertExpectations(t)
}

func TestDeleteDoctor_RollsBackWhenAStepFails(t *testing.T) {
	f := newDoctorFixture(t)
	doctorID := uuid.New()
	boom := errors.New("fk violation")
	var order []string

	f.sql.ExpectBegin()
	f.sql.ExpectRollback()
	f.doctors.On("FindByUserID", mock.Anything, doctorID).Return(doctorProfile(doctorID), nil)
	f.expectCascade(doctorID, &order, "schedule", boom)

	err := f.uc.DeleteDoctor(adminCtx(uuid.New()), doctorID)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"reminders", "appointments", "schedule"}, order)
	f.reviews.AssertNotCalled(t, "DeleteByDoctorID", mock.Anything, mock.Anything)
	f.users.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	f.audit.AssertNotCalled(t, "LogDelete", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestDeleteDoctor_UnknownDoctor(t *testing.T) {
	tests := []struct {
		name    string
		profile *entity.DoctorProfile
	}{
		{name: "no profile", profile: nil},
		{name: "not a doctor", profile: &entity.DoctorProfile{User: entity.User{Role: entity.RolePatient}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newDoctorFixture(t)
			doctorID := uuid.New()

			f.sql.ExpectBegin()
			f.sql.ExpectRollback()
			f.doctors.On("FindByUserID", mock.Anything, doctorID).Return(tt.profile, nil)

			err := f.uc.DeleteDoctor(adminCtx(uuid.New()), doctorID)

			assert.ErrorIs(t, err, ErrDoctorNotFound)
			f.reminders.AssertNotCalled(t, "DeleteByDoctorID", mock.Anything, mock.Anything)
		})
	}
}

func TestGetDoctor_NotFound(t *testing.T) {
	f := newDoctorFixture(t)
	doctorID := uuid.New()
	f.doctors.On("FindByUserID", mock.Anything, doctorID).Return(nil, nil)

	_, err := f.uc.GetDoctor(context.Background(), doctorID)

	assert.ErrorIs(t, err, ErrDoctorNotFound)
}
