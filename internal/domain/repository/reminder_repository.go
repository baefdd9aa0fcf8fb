package repository

import (
	"time"

	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ReminderRepository persists reminders. The Mark* and Claim methods are
// conditional on the current status and report whether a row changed.
type ReminderRepository interface {
	Create(db *gorm.DB, reminder *entity.Reminder) error
	FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.Reminder, error)
	FindDue(db *gorm.DB, now time.Time, limit int) ([]entity.Reminder, error)
	Claim(db *gorm.DB, id uuid.UUID, now time.Time) (bool, error)
	MarkSent(db *gorm.DB, id uuid.UUID, sentAt time.Time) (bool, error)
	MarkRetry(db *gorm.DB, id uuid.UUID, nextAttemptAt time.Time, lastError string) (bool, error)
	MarkFailed(db *gorm.DB, id uuid.UUID, lastError string) (bool, error)
	RequeueStale(db *gorm.DB, claimedBefore time.Time) (int64, error)
	DeleteByDoctorID(db *gorm.DB, doctorID uuid.UUID) error
}
