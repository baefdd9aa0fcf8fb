package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" validate:"required"`
	Date     string    `json:"date" validate:"required,isodate"`
	Time     string    `json:"time" validate:"required,timeslot"`
	Notes    string    `json:"notes" validate:"omitempty,max=1000"`
}

// AdminCreateAppointmentRequest books on behalf of a patient
type AdminCreateAppointmentRequest struct {
	PatientID uuid.UUID `json:"patient_id" validate:"required"`
	DoctorID  uuid.UUID `json:"doctor_id" validate:"required"`
	Date      string    `json:"date" validate:"required,isodate"`
	Time      string    `json:"time" validate:"required,timeslot"`
	Notes     string    `json:"notes" validate:"omitempty,max=1000"`
}

type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=completed cancelled"`
}

// Response DTOs

type AppointmentPatientResponse struct {
	ID          uuid.UUID `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	FiscalCode  string    `json:"fiscal_code,omitempty"`
	PhoneNumber string    `json:"phone_number,omitempty"`
}

type AppointmentResponse struct {
	ID             uuid.UUID                   `json:"id"`
	PatientID      uuid.UUID                   `json:"patient_id"`
	DoctorID       uuid.UUID                   `json:"doctor_id"`
	DoctorName     string                      `json:"doctor_name"`
	Specialization string                      `json:"specialization"`
	Date           string                      `json:"date"`
	Time           string                      `json:"time"`
	Status         string                      `json:"status"`
	Location       string                      `json:"location"`
	Notes          string                      `json:"notes,omitempty"`
	Patient        *AppointmentPatientResponse `json:"patient,omitempty"`
	CreatedAt      time.Time                   `json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type CalendarResponse struct {
	Date         string                `json:"date"`
	Appointments []AppointmentResponse `json:"appointments"`
}

type MonthStatsResponse struct {
	Month     string `json:"month"`
	Total     int    `json:"total"`
	Completed int    `json:"completed"`
	Cancelled int    `json:"cancelled"`
	Revenue   string `json:"revenue"`
}

type DoctorStatsResponse struct {
	DoctorName string `json:"doctor_name"`
	Total      int    `json:"total"`
	Completed  int    `json:"completed"`
	Cancelled  int    `json:"cancelled"`
}

type AppointmentStatsResponse struct {
	Total          int                   `json:"total"`
	Completed      int                   `json:"completed"`
	Cancelled      int                   `json:"cancelled"`
	Scheduled      int                   `json:"scheduled"`
	CompletionRate float64               `json:"completion_rate"`
	ByMonth        []MonthStatsResponse  `json:"by_month"`
	ByDoctor       []DoctorStatsResponse `json:"by_doctor"`
}
