package repository

import (
	"errors"
	"time"

	"clinic-booking/internal/domain/entity"
	domainRepo "clinic-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type reminderRepository struct{}

func NewReminderRepository() domainRepo.ReminderRepository {
	return &reminderRepository{}
}

func (r *reminderRepository) Create(db *gorm.DB, reminder *entity.Reminder) error {
	return db.Omit("Appointment").Create(reminder).Error
}

func (r *reminderRepository) FindByAppointmentID(db *gorm.DB, appointmentID uuid.UUID) (*entity.Reminder, error) {
	var reminder entity.Reminder
	err := db.Where("appointment_id = ?", appointmentID).First(&reminder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &reminder, nil
}

// FindDue returns pending reminders whose time has come and whose backoff has elapsed
func (r *reminderRepository) FindDue(db *gorm.DB, now time.Time, limit int) ([]entity.Reminder, error) {
	var reminders []entity.Reminder
	query := db.
		Where("status = ? AND sent = ? AND scheduled_for <= ?", entity.ReminderStatusPending, false, now).
		Where("(next_attempt_at IS NULL OR next_attempt_at <= ?)", now).
		Order("scheduled_for ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&reminders).Error; err != nil {
		return nil, err
	}
	return reminders, nil
}

// Claim moves a pending reminder to sending and counts the attempt.
// Only one caller can win the claim for a given row.
func (r *reminderRepository) Claim(db *gorm.DB, id uuid.UUID, now time.Time) (bool, error) {
	result := db.Model(&entity.Reminder{}).
		Where("id = ? AND status = ? AND sent = ?", id, entity.ReminderStatusPending, false).
		Updates(map[string]interface{}{
			"status":     entity.ReminderStatusSending,
			"attempts":   gorm.Expr("attempts + 1"),
			"updated_at": now,
		})
	return result.RowsAffected == 1, result.Error
}

func (r *reminderRepository) MarkSent(db *gorm.DB, id uuid.UUID, sentAt time.Time) (bool, error) {
	result := db.Model(&entity.Reminder{}).
		Where("id = ? AND status = ?", id, entity.ReminderStatusSending).
		Updates(map[string]interface{}{
			"status":     entity.ReminderStatusSent,
			"sent":       true,
			"sent_at":    sentAt,
			"last_error": "",
		})
	return result.RowsAffected == 1, result.Error
}

func (r *reminderRepository) MarkRetry(db *gorm.DB, id uuid.UUID, nextAttemptAt time.Time, lastError string) (bool, error) {
	result := db.Model(&entity.Reminder{}).
		Where("id = ? AND status = ?", id, entity.ReminderStatusSending).
		Updates(map[string]interface{}{
			"status":          entity.ReminderStatusPending,
			"next_attempt_at": nextAttemptAt,
			"last_error":      lastError,
		})
	return result.RowsAffected == 1, result.Error
}

func (r *reminderRepository) MarkFailed(db *gorm.DB, id uuid.UUID, lastError string) (bool, error) {
	result := db.Model(&entity.Reminder{}).
		Where("id = ? AND status = ?", id, entity.ReminderStatusSending).
		Updates(map[string]interface{}{
			"status":     entity.ReminderStatusFailed,
			"last_error": lastError,
		})
	return result.RowsAffected == 1, result.Error
}

// RequeueStale returns reminders stuck in sending since before claimedBefore to pending
func (r *reminderRepository) RequeueStale(db *gorm.DB, claimedBefore time.Time) (int64, error) {
	result := db.Model(&entity.Reminder{}).
		Where("status = ? AND updated_at < ?", entity.ReminderStatusSending, claimedBefore).
		Update("status", entity.ReminderStatusPending)
	return result.RowsAffected, result.Error
}

func (r *reminderRepository) DeleteByDoctorID(db *gorm.DB, doctorID uuid.UUID) error {
	appointmentIDs := db.Model(&entity.Appointment{}).Select("id").Where("doctor_id = ?", doctorID)
	return db.Where("appointment_id IN (?)", appointmentIDs).Delete(&entity.Reminder{}).Error
}
