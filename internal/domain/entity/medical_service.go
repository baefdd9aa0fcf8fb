package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MedicalService is an entry of the clinic's service catalogue
type MedicalService struct {
	ID              uuid.UUID       `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title           string          `gorm:"type:varchar(255);not null"`
	Description     string          `gorm:"type:text"`
	LongDescription string          `gorm:"type:text"`
	Includes        StringList      `gorm:"type:jsonb;not null"`
	Duration        string          `gorm:"type:varchar(50)"`
	PriceFrom       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CreatedAt       time.Time       `gorm:"autoCreateTime"`
	UpdatedAt       time.Time       `gorm:"autoUpdateTime"`
}

func (MedicalService) TableName() string {
	return "medical_services"
}
