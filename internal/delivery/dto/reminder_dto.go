package dto

import (
	"time"

	"github.com/google/uuid"
)

type ScheduleReminderRequest struct {
	AppointmentID uuid.UUID `json:"appointmentId" validate:"required"`
}

type ScheduleReminderResponse struct {
	Success      bool       `json:"success"`
	ReminderID   *uuid.UUID `json:"reminder_id,omitempty"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
}

// CallableError is the error body of the reminder scheduling endpoint
type CallableError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
