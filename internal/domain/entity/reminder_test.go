package entity_test

import (
	"testing"
	"time"

	"clinic-booking/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rome(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Rome")
	require.NoError(t, err)
	return loc
}

func TestReminderTimeFor(t *testing.T) {
	loc := rome(t)
	appointment := &entity.Appointment{Date: "2025-06-10", Time: "09:00"}
	startsAt, err := appointment.StartsAt(loc)
	require.NoError(t, err)

	t.Run("reminder a day before when booked early", func(t *testing.T) {
		now := time.Date(2025, 6, 8, 9, 0, 0, 0, loc)

		at, ok := entity.ReminderTimeFor(startsAt, 24*time.Hour, now)

		assert.True(t, ok)
		assert.True(t, at.Equal(time.Date(2025, 6, 9, 9, 0, 0, 0, loc)))
	})

	t.Run("no reminder when lead time already passed", func(t *testing.T) {
		now := time.Date(2025, 6, 9, 10, 0, 0, 0, loc)

		_, ok := entity.ReminderTimeFor(startsAt, 24*time.Hour, now)

		assert.False(t, ok)
	})

	t.Run("exactly at the reminder time is too late", func(t *testing.T) {
		now := time.Date(2025, 6, 9, 9, 0, 0, 0, loc)

		_, ok := entity.ReminderTimeFor(startsAt, 24*time.Hour, now)

		assert.False(t, ok)
	})
}

func TestReminderBackoff(t *testing.T) {
	base, max := time.Hour, 24*time.Hour

	tests := []struct {
		attempts int
		want     time.Duration
	}{
		{attempts: 0, want: time.Hour},
		{attempts: 1, want: time.Hour},
		{attempts: 2, want: 2 * time.Hour},
		{attempts: 3, want: 4 * time.Hour},
		{attempts: 5, want: 16 * time.Hour},
		{attempts: 6, want: 24 * time.Hour},
		{attempts: 40, want: 24 * time.Hour},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, entity.ReminderBackoff(tt.attempts, base, max), "attempts=%d", tt.attempts)
	}
}

func TestReminder_IsTerminal(t *testing.T) {
	assert.False(t, (&entity.Reminder{Status: entity.ReminderStatusPending}).IsTerminal())
	assert.False(t, (&entity.Reminder{Status: entity.ReminderStatusSending}).IsTerminal())
	assert.True(t, (&entity.Reminder{Status: entity.ReminderStatusSent, Sent: true}).IsTerminal())
	assert.True(t, (&entity.Reminder{Status: entity.ReminderStatusFailed}).IsTerminal())
	// a sent flag wins over a stale status
	assert.True(t, (&entity.Reminder{Status: entity.ReminderStatusPending, Sent: true}).IsTerminal())
}
