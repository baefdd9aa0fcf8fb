package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/infrastructure/mailer"
	"clinic-booking/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureMailer struct {
	sent []*mailer.Message
	err  error
}

func (m *captureMailer) Send(_ context.Context, msg *mailer.Message) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func reminderData(locale string) *service.ReminderEmail {
	return &service.ReminderEmail{
		To:             "mario.rossi@example.com",
		FirstName:      "Mario",
		LastName:       "Rossi",
		Locale:         locale,
		StartsAt:       time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC),
		Time:           "09:00",
		DoctorName:     "Laura Bianchi",
		Specialization: "Cardiologia",
		Location:       "Studio 1",
	}
}

func TestFormatLongDate(t *testing.T) {
	day := time.Date(2025, 6, 9, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, "lunedì 9 giugno 2025", service.FormatLongDate(day, "it-IT"))
	assert.Equal(t, "lunedì 9 giugno 2025", service.FormatLongDate(day, ""))
	assert.Equal(t, "Monday, June 9, 2025", service.FormatLongDate(day, "en-US"))
}

func TestNotificationService_RenderReminder(t *testing.T) {
	svc := service.NewNotificationService(&captureMailer{}, testLogger(), "https://centromedicoplus.it")

	t.Run("italian by default", func(t *testing.T) {
		msg, err := svc.RenderReminder(reminderData("it-IT"))
		require.NoError(t, err)

		assert.Equal(t, service.ReminderSubject, msg.Subject)
		assert.Equal(t, []string{"mario.rossi@example.com"}, msg.To)
		for _, body := range []string{msg.HTMLBody, msg.TextBody} {
			assert.Contains(t, body, "Gentile Mario Rossi")
			assert.Contains(t, body, "lunedì 9 giugno 2025")
			assert.Contains(t, body, "09:00")
			assert.Contains(t, body, "Dr. Laura Bianchi")
			assert.Contains(t, body, "Cardiologia")
			assert.Contains(t, body, "Studio 1")
		}
	})

	t.Run("english recipients", func(t *testing.T) {
		msg, err := svc.RenderReminder(reminderData("en-GB"))
		require.NoError(t, err)

		assert.Contains(t, msg.TextBody, "Dear Mario Rossi")
		assert.Contains(t, msg.TextBody, "Monday, June 9, 2025")
	})

	t.Run("unknown locale falls back to italian", func(t *testing.T) {
		msg, err := svc.RenderReminder(reminderData("ja-JP"))
		require.NoError(t, err)

		assert.Contains(t, msg.TextBody, "Gentile Mario Rossi")
	})
}

func TestNotificationService_SendAppointmentReminder(t *testing.T) {
	m := &captureMailer{}
	svc := service.NewNotificationService(m, testLogger(), "https://centromedicoplus.it")

	require.NoError(t, svc.SendAppointmentReminder(context.Background(), reminderData("it-IT")))
	require.Len(t, m.sent, 1)
	assert.Equal(t, service.ReminderSubject, m.sent[0].Subject)

	failing := service.NewNotificationService(&captureMailer{err: errors.New("smtp down")}, testLogger(), "")
	assert.Error(t, failing.SendAppointmentReminder(context.Background(), reminderData("it-IT")))
}

func TestNotificationService_SendEmailVerification(t *testing.T) {
	m := &captureMailer{}
	svc := service.NewNotificationService(m, testLogger(), "https://centromedicoplus.it")
	user := &entity.User{Email: "mario.rossi@example.com", FirstName: "Mario", LastName: "Rossi"}

	require.NoError(t, svc.SendEmailVerification(context.Background(), user, "abc 123"))
	require.Len(t, m.sent, 1)
	assert.Contains(t, m.sent[0].TextBody, "https://centromedicoplus.it/verify-email?token=abc+123")
}
