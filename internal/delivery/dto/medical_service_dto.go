package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Request DTOs

type CreateMedicalServiceRequest struct {
	Title           string          `json:"title" validate:"required,min=2,max=255"`
	Description     string          `json:"description" validate:"omitempty,max=1000"`
	LongDescription string          `json:"long_description"`
	Includes        []string        `json:"includes" validate:"omitempty,dive,required"`
	Duration        string          `json:"duration" validate:"omitempty,max=50"`
	PriceFrom       decimal.Decimal `json:"price_from" validate:"required"`
}

type UpdateMedicalServiceRequest struct {
	Title           string          `json:"title" validate:"required,min=2,max=255"`
	Description     string          `json:"description" validate:"omitempty,max=1000"`
	LongDescription string          `json:"long_description"`
	Includes        []string        `json:"includes" validate:"omitempty,dive,required"`
	Duration        string          `json:"duration" validate:"omitempty,max=50"`
	PriceFrom       decimal.Decimal `json:"price_from" validate:"required"`
}

// Response DTOs

type MedicalServiceResponse struct {
	ID              uuid.UUID       `json:"id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	LongDescription string          `json:"long_description,omitempty"`
	Includes        []string        `json:"includes"`
	Duration        string          `json:"duration,omitempty"`
	PriceFrom       decimal.Decimal `json:"price_from"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type MedicalServiceListResponse struct {
	Services []MedicalServiceResponse `json:"services"`
}
