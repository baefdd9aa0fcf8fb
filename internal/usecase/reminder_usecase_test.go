package usecase

import (
	"context"
	"testing"
	"time"

	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newReminderUsecaseForTest(t *testing.T, now time.Time) (*reminderUsecase, *mockReminderRepository, *mockAppointmentRepository) {
	reminders := new(mockReminderRepository)
	appointments := new(mockAppointmentRepository)
	u := &reminderUsecase{
		db:              newTestDB(t),
		log:             newTestLogger(),
		reminderRepo:    reminders,
		appointmentRepo: appointments,
		location:        now.Location(),
		leadTime:        24 * time.Hour,
		now:             func() time.Time { return now },
	}
	return u, reminders, appointments
}

func TestScheduleForAppointment(t *testing.T) {
	loc := mustRome(t)
	appointment := &entity.Appointment{
		ID:     uuid.New(),
		Date:   "2025-06-10",
		Time:   "09:00",
		Status: entity.AppointmentStatusScheduled,
	}

	t.Run("booked more than a day ahead", func(t *testing.T) {
		u, reminders, _ := newReminderUsecaseForTest(t, time.Date(2025, 6, 9, 8, 0, 0, 0, loc))
		reminders.On("FindByAppointmentID", mock.Anything, appointment.ID).Return(nil, nil)
		reminders.On("Create", mock.Anything, mock.AnythingOfType("*entity.Reminder")).Return(nil)

		reminder, err := u.ScheduleForAppointment(context.Background(), appointment)

		require.NoError(t, err)
		require.NotNil(t, reminder)
		assert.True(t, reminder.ScheduledFor.Equal(time.Date(2025, 6, 9, 7, 0, 0, 0, time.UTC)))
		assert.Equal(t, time.UTC, reminder.ScheduledFor.Location())
		assert.Equal(t, entity.ReminderStatusPending, reminder.Status)
		assert.False(t, reminder.Sent)
		assert.Equal(t, appointment.ID, reminder.AppointmentID)
	})

	t.Run("booked less than a day ahead", func(t *testing.T) {
		u, reminders, _ := newReminderUsecaseForTest(t, time.Date(2025, 6, 9, 10, 0, 0, 0, loc))

		reminder, err := u.ScheduleForAppointment(context.Background(), appointment)

		require.NoError(t, err)
		assert.Nil(t, reminder)
		reminders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("existing reminder is returned", func(t *testing.T) {
		u, reminders, _ := newReminderUsecaseForTest(t, time.Date(2025, 6, 9, 8, 0, 0, 0, loc))
		existing := &entity.Reminder{ID: uuid.New(), AppointmentID: appointment.ID}
		reminders.On("FindByAppointmentID", mock.Anything, appointment.ID).Return(existing, nil)

		reminder, err := u.ScheduleForAppointment(context.Background(), appointment)

		require.NoError(t, err)
		assert.Same(t, existing, reminder)
		reminders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("concurrent insert reads back the winner", func(t *testing.T) {
		u, reminders, _ := newReminderUsecaseForTest(t, time.Date(2025, 6, 9, 8, 0, 0, 0, loc))
		winner := &entity.Reminder{ID: uuid.New(), AppointmentID: appointment.ID}
		reminders.On("FindByAppointmentID", mock.Anything, appointment.ID).Return(nil, nil).Once()
		reminders.On("Create", mock.Anything, mock.Anything).
			Return(&pgconn.PgError{Code: "23505", ConstraintName: "uq_reminders_appointment"})
		reminders.On("FindByAppointmentID", mock.Anything, appointment.ID).Return(winner, nil).Once()

		reminder, err := u.ScheduleForAppointment(context.Background(), appointment)

		require.NoError(t, err)
		assert.Same(t, winner, reminder)
	})
}

func TestScheduleReminder(t *testing.T) {
	loc := mustRome(t)
	now := time.Date(2025, 6, 9, 8, 0, 0, 0, loc)
	patientID := uuid.New()
	appointmentID := uuid.New()
	appointment := func() *entity.Appointment {
		return &entity.Appointment{
			ID:        appointmentID,
			PatientID: patientID,
			Date:      "2025-06-10",
			Time:      "09:00",
			Status:    entity.AppointmentStatusScheduled,
			Patient:   &entity.User{ID: patientID, Email: "mario.rossi@example.com"},
		}
	}

	t.Run("owner schedules", func(t *testing.T) {
		u, reminders, appointments := newReminderUsecaseForTest(t, now)
		appointments.On("FindByID", mock.Anything, appointmentID).Return(appointment(), nil)
		reminders.On("FindByAppointmentID", mock.Anything, appointmentID).Return(nil, nil)
		reminders.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := u.ScheduleReminder(patientCtx(patientID), appointmentID)

		require.NoError(t, err)
		assert.True(t, resp.Success)
		require.NotNil(t, resp.ScheduledFor)
		assert.True(t, resp.ScheduledFor.Equal(time.Date(2025, 6, 9, 9, 0, 0, 0, loc)))
	})

	t.Run("admin may schedule for anyone", func(t *testing.T) {
		u, reminders, appointments := newReminderUsecaseForTest(t, now)
		appointments.On("FindByID", mock.Anything, appointmentID).Return(appointment(), nil)
		reminders.On("FindByAppointmentID", mock.Anything, appointmentID).Return(nil, nil)
		reminders.On("Create", mock.Anything, mock.Anything).Return(nil)

		resp, err := u.ScheduleReminder(adminCtx(uuid.New()), appointmentID)

		require.NoError(t, err)
		assert.True(t, resp.Success)
	})

	t.Run("other patient is denied", func(t *testing.T) {
		u, reminders, appointments := newReminderUsecaseForTest(t, now)
		appointments.On("FindByID", mock.Anything, appointmentID).Return(appointment(), nil)

		_, err := u.ScheduleReminder(patientCtx(uuid.New()), appointmentID)

		assert.ErrorIs(t, err, ErrPermissionDenied)
		reminders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("too late still succeeds without reminder", func(t *testing.T) {
		u, _, appointments := newReminderUsecaseForTest(t, time.Date(2025, 6, 9, 20, 0, 0, 0, loc))
		appointments.On("FindByID", mock.Anything, appointmentID).Return(appointment(), nil)

		resp, err := u.ScheduleReminder(patientCtx(patientID), appointmentID)

		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Nil(t, resp.ReminderID)
	})

	t.Run("unknown appointment", func(t *testing.T) {
		u, _, appointments := newReminderUsecaseForTest(t, now)
		appointments.On("FindByID", mock.Anything, appointmentID).Return(nil, nil)

		_, err := u.ScheduleReminder(patientCtx(patientID), appointmentID)

		assert.ErrorIs(t, err, ErrAppointmentNotFound)
	})

	t.Run("patient row missing", func(t *testing.T) {
		u, _, appointments := newReminderUsecaseForTest(t, now)
		a := appointment()
		a.Patient = nil
		appointments.On("FindByID", mock.Anything, appointmentID).Return(a, nil)

		_, err := u.ScheduleReminder(patientCtx(patientID), appointmentID)

		assert.ErrorIs(t, err, ErrPatientNotFound)
	})

	t.Run("no session", func(t *testing.T) {
		u, _, _ := newReminderUsecaseForTest(t, now)

		_, err := u.ScheduleReminder(context.Background(), appointmentID)

		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}
