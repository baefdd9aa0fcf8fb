package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

// UpdateScheduleRequest replaces the listed weekdays; weekdays left out keep their slots
type UpdateScheduleRequest struct {
	Slots map[string][]string `json:"slots" validate:"required,dive,keys,weekday,endkeys,dive,timeslot"`
}

// Response DTOs

type DoctorScheduleResponse struct {
	DoctorID  uuid.UUID           `json:"doctor_id"`
	Slots     map[string][]string `json:"slots"`
	UpdatedAt time.Time           `json:"updated_at"`
}

type SlotLabelsResponse struct {
	Labels []string `json:"labels"`
}

type AvailabilityResponse struct {
	DoctorID uuid.UUID `json:"doctor_id"`
	Date     string    `json:"date"`
	Slots    []string  `json:"slots"`
}
