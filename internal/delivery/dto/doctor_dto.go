package dto

import (
	"github.com/google/uuid"
)

// Request DTOs

type CreateDoctorRequest struct {
	Email             string   `json:"email" validate:"required,email"`
	Password          string   `json:"password" validate:"omitempty,strongpwd"`
	FirstName         string   `json:"first_name" validate:"required,min=2,max=100"`
	LastName          string   `json:"last_name" validate:"required,min=2,max=100"`
	Specialization    string   `json:"specialization" validate:"required,max=100"`
	Description       string   `json:"description" validate:"omitempty,max=2000"`
	YearsOfExperience int      `json:"years_of_experience" validate:"gte=0,lte=70"`
	Languages         []string `json:"languages" validate:"required,min=1,dive,oneof=Italiano Inglese Francese Spagnolo Tedesco"`
	IsAvailable       *bool    `json:"is_available"`
}

type UpdateDoctorRequest struct {
	Email             string   `json:"email" validate:"omitempty,email"`
	FirstName         string   `json:"first_name" validate:"omitempty,min=2,max=100"`
	LastName          string   `json:"last_name" validate:"omitempty,min=2,max=100"`
	Specialization    string   `json:"specialization" validate:"omitempty,max=100"`
	Description       *string  `json:"description" validate:"omitempty,max=2000"`
	YearsOfExperience *int     `json:"years_of_experience" validate:"omitempty,gte=0,lte=70"`
	Languages         []string `json:"languages" validate:"omitempty,min=1,dive,oneof=Italiano Inglese Francese Spagnolo Tedesco"`
	IsAvailable       *bool    `json:"is_available"`
}

// Response DTOs

type DoctorProfileResponse struct {
	Specialization    string   `json:"specialization"`
	Description       string   `json:"description,omitempty"`
	YearsOfExperience int      `json:"years_of_experience"`
	Languages         []string `json:"languages"`
	IsAvailable       bool     `json:"is_available"`
}

type DoctorResponse struct {
	ID                uuid.UUID `json:"id"`
	Email             string    `json:"email"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	FullName          string    `json:"full_name"`
	Specialization    string    `json:"specialization"`
	Description       string    `json:"description,omitempty"`
	YearsOfExperience int       `json:"years_of_experience"`
	Languages         []string  `json:"languages"`
	IsAvailable       bool      `json:"is_available"`
}

type DoctorListResponse struct {
	Doctors []DoctorResponse `json:"doctors"`
	Total   int              `json:"total"`
}
