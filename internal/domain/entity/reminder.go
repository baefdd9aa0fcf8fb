package entity

import (
	"time"

	"github.com/google/uuid"
)

// ReminderStatus tracks delivery of a reminder email.
//
//	pending -> sending -> sent      (terminal)
//	                   -> pending   (retry after backoff)
//	                   -> failed    (terminal, attempts exhausted or nothing to send)
type ReminderStatus string

const (
	ReminderStatusPending ReminderStatus = "pending"
	ReminderStatusSending ReminderStatus = "sending"
	ReminderStatusSent    ReminderStatus = "sent"
	ReminderStatusFailed  ReminderStatus = "failed"
)

// Reminder asks the dispatcher to email the patient ahead of an appointment
type Reminder struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	AppointmentID uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"appointment_id"`
	ScheduledFor  time.Time      `gorm:"type:timestamptz;not null;index" json:"scheduled_for"`
	Sent          bool           `gorm:"not null;default:false" json:"sent"`
	Status        ReminderStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	Attempts      int            `gorm:"not null;default:0" json:"attempts"`
	NextAttemptAt *time.Time     `gorm:"type:timestamptz" json:"next_attempt_at,omitempty"`
	LastError     string         `gorm:"type:text" json:"last_error,omitempty"`
	SentAt        *time.Time     `gorm:"type:timestamptz" json:"sent_at,omitempty"`
	CreatedAt     time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Appointment *Appointment `gorm:"foreignKey:AppointmentID" json:"appointment,omitempty"`
}

func (Reminder) TableName() string {
	return "reminders"
}

// IsTerminal reports whether the reminder will never be attempted again
func (r *Reminder) IsTerminal() bool {
	return r.Sent || r.Status == ReminderStatusSent || r.Status == ReminderStatusFailed
}

// ReminderTimeFor returns when a reminder for an appointment starting at
// startsAt should fire, and whether it is still worth scheduling at now.
func ReminderTimeFor(startsAt time.Time, lead time.Duration, now time.Time) (time.Time, bool) {
	at := startsAt.Add(-lead)
	return at, at.After(now)
}

// ReminderBackoff returns the wait before retry number attempts+1:
// base doubled for every previous attempt, never more than max.
func ReminderBackoff(attempts int, base, max time.Duration) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	d := base
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= max {
			return max
		}
	}
	if d > max {
		return max
	}
	return d
}
