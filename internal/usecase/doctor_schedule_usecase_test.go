package usecase

import (
	"context"
	"testing"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type scheduleFixture struct {
	schedules *mockDoctorScheduleRepository
	doctors   *mockDoctorProfileRepository
	audit     *mockAuditService
	sql       sqlmock.Sqlmock
	uc        *doctorScheduleUsecase
}

func newScheduleFixture(t *testing.T) *scheduleFixture {
	db, sql := newTestDBWithMock(t)
	f := &scheduleFixture{
		schedules: new(mockDoctorScheduleRepository),
		doctors:   new(mockDoctorProfileRepository),
		audit:     new(mockAuditService),
		sql:       sql,
	}
	f.uc = &doctorScheduleUsecase{
		db:                db,
		log:               newTestLogger(),
		scheduleRepo:      f.schedules,
		doctorProfileRepo: f.doctors,
		auditService:      f.audit,
	}
	return f
}

func TestGetSchedule_CreatesSkeletonOnFirstRead(t *testing.T) {
	f := newScheduleFixture(t)
	doctorID := uuid.New()

	f.doctors.On("FindByUserID", mock.Anything, doctorID).Return(&entity.DoctorProfile{UserID: doctorID}, nil)
	f.schedules.On("FindByDoctorID", mock.Anything, doctorID).Return(nil, nil).Once()
	f.schedules.On("CreateIfAbsent", mock.Anything, mock.MatchedBy(func(s *entity.DoctorSchedule) bool {
		return s.DoctorID == doctorID && len(s.Slots) == len(entity.OpeningWeekdays)
	})).Return(nil)
	f.schedules.On("FindByDoctorID", mock.Anything, doctorID).Return(&entity.DoctorSchedule{
		DoctorID: doctorID,
		Slots:    entity.NewWeeklySkeleton(),
	}, nil).Once()

	resp, err := f.uc.GetSchedule(context.Background(), doctorID)

	require.NoError(t, err)
	assert.Len(t, resp.Slots, 6)
	assert.Contains(t, resp.Slots, "saturday")
	assert.NotContains(t, resp.Slots, "sunday")
	f.schedules.AssertExpectations(t)
}

func TestGetSchedule_UnknownDoctor(t *testing.T) {
	f := newScheduleFixture(t)
	doctorID := uuid.New()
	f.doctors.On("FindByUserID", mock.Anything, doctorID).Return(nil, nil)

	_, err := f.uc.GetSchedule(context.Background(), doctorID)

	assert.ErrorIs(t, err, ErrDoctorNotFound)
	f.schedules.AssertNotCalled(t, "CreateIfAbsent", mock.Anything, mock.Anything)
}

func TestSaveSchedule_MergesWeekdays(t *testing.T) {
	f := newScheduleFixture(t)
	doctorID, adminID := uuid.New(), uuid.New()

	f.sql.ExpectBegin()
	f.sql.ExpectCommit()
	f.doctors.On("FindByUserID", mock.Anything, doctorID).Return(&entity.DoctorProfile{UserID: doctorID}, nil)
	f.schedules.On("FindByDoctorID", mock.Anything, doctorID).Return(&entity.DoctorSchedule{
		DoctorID: doctorID,
		Slots: entity.WeeklySlots{
			"monday":  {"09:00"},
			"tuesday": {"10:00", "10:30"},
		},
	}, nil)
	f.schedules.On("Upsert", mock.Anything, mock.Anything).Return(nil)
	f.audit.On("LogUpdate", mock.Anything, mock.Anything, mock.Anything, entity.AuditActionScheduleUpdate, "doctor_schedule", doctorID.String(), mock.Anything, mock.Anything).Return(nil)

	resp, err := f.uc.SaveSchedule(adminCtx(adminID), doctorID, &dto.UpdateScheduleRequest{
		Slots: map[string][]string{"monday": {"11:00", "09:30", "11:00"}},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"09:30", "11:00"}, resp.Slots["monday"])
	assert.Equal(t, []string{"10:00", "10:30"}, resp.Slots["tuesday"])
}

func TestSaveSchedule_RejectsInvalidTemplate(t *testing.T) {
	tests := []struct {
		name  string
		slots map[string][]string
	}{
		{name: "unknown weekday", slots: map[string][]string{"funday": {"09:00"}}},
		{name: "malformed label", slots: map[string][]string{"monday": {"9am"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newScheduleFixture(t)

			_, err := f.uc.SaveSchedule(adminCtx(uuid.New()), uuid.New(), &dto.UpdateScheduleRequest{Slots: tt.slots})

			assert.ErrorIs(t, err, ErrInvalidSchedule)
			f.schedules.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		})
	}
}

func TestGetSlotLabels(t *testing.T) {
	f := newScheduleFixture(t)

	labels := f.uc.GetSlotLabels(context.Background()).Labels

	require.Len(t, labels, 16)
	assert.Equal(t, "09:00", labels[0])
	assert.Equal(t, "17:30", labels[len(labels)-1])
	assert.NotContains(t, labels, "13:00")
	assert.NotContains(t, labels, "13:30")
}
