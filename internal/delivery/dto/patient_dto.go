package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type UpdatePatientProfileRequest struct {
	FirstName   string `json:"first_name" validate:"required,min=2,max=100"`
	LastName    string `json:"last_name" validate:"required,min=2,max=100"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,min=10,max=20"`
	BirthDate   string `json:"birth_date" validate:"omitempty,isodate"`
	Address     string `json:"address" validate:"omitempty,max=255"`
}

type UpdateMedicalNotesRequest struct {
	MedicalNotes string `json:"medical_notes" validate:"omitempty,max=5000"`
	Allergies    string `json:"allergies" validate:"omitempty,max=2000"`
	Medications  string `json:"medications" validate:"omitempty,max=2000"`
}

// Response DTOs

type PatientProfileResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	FiscalCode   string    `json:"fiscal_code"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	BirthDate    string    `json:"birth_date,omitempty"`
	Address      string    `json:"address,omitempty"`
	MedicalNotes string    `json:"medical_notes,omitempty"`
	Allergies    string    `json:"allergies,omitempty"`
	Medications  string    `json:"medications,omitempty"`
}

type PatientResponse struct {
	ID            uuid.UUID               `json:"id"`
	Email         string                  `json:"email"`
	FirstName     string                  `json:"first_name"`
	LastName      string                  `json:"last_name"`
	FullName      string                  `json:"full_name"`
	EmailVerified bool                    `json:"email_verified"`
	Profile       *PatientProfileResponse `json:"profile,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
}

type PatientListResponse struct {
	Patients []PatientResponse `json:"patients"`
	Total    int               `json:"total"`
}
