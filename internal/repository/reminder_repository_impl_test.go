package repository_test

import (
	"testing"
	"time"

	"clinic-booking/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Discard,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, mock
}

func TestReminderRepository_Claim(t *testing.T) {
	repo := repository.NewReminderRepository()
	id := uuid.New()
	now := time.Date(2025, 6, 9, 7, 0, 0, 0, time.UTC)

	t.Run("wins the row", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`UPDATE "reminders" SET .*"attempts"=attempts \+ 1.* WHERE id = \$\d+ AND status = \$\d+ AND sent = \$\d+$`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		claimed, err := repo.Claim(db, id, now)

		require.NoError(t, err)
		assert.True(t, claimed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("already claimed", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec(`UPDATE "reminders" SET`).WillReturnResult(sqlmock.NewResult(0, 0))

		claimed, err := repo.Claim(db, id, now)

		require.NoError(t, err)
		assert.False(t, claimed)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestReminderRepository_MarkSentRequiresSending(t *testing.T) {
	repo := repository.NewReminderRepository()
	db, mock := newMockDB(t)
	mock.ExpectExec(`UPDATE "reminders" SET .*"sent"=.* WHERE id = \$\d+ AND status = \$\d+$`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.MarkSent(db, uuid.New(), time.Now())

	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReminderRepository_FindDue(t *testing.T) {
	repo := repository.NewReminderRepository()
	db, mock := newMockDB(t)
	id := uuid.New()
	appointmentID := uuid.New()
	now := time.Date(2025, 6, 9, 7, 0, 0, 0, time.UTC)

	rows := sqlmock.NewRows([]string{"id", "appointment_id", "scheduled_for", "sent", "status", "attempts"}).
		AddRow(id.String(), appointmentID.String(), now.Add(-time.Minute), false, "pending", 0)
	mock.ExpectQuery(`SELECT \* FROM "reminders" WHERE \(status = \$1 AND sent = \$2 AND scheduled_for <= \$3\) AND \(\(next_attempt_at IS NULL OR next_attempt_at <= \$4\)\) ORDER BY scheduled_for ASC LIMIT`).
		WillReturnRows(rows)

	due, err := repo.FindDue(db, now, 50)

	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, id, due[0].ID)
	assert.Equal(t, appointmentID, due[0].AppointmentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReminderRepository_FindByAppointmentIDMissing(t *testing.T) {
	repo := repository.NewReminderRepository()
	db, mock := newMockDB(t)
	mock.ExpectQuery(`SELECT \* FROM "reminders" WHERE appointment_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	reminder, err := repo.FindByAppointmentID(db, uuid.New())

	require.NoError(t, err)
	assert.Nil(t, reminder)
	assert.NoError(t, mock.ExpectationsWereMet())
}
