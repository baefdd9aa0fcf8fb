package entity

import (
	"time"

	"github.com/google/uuid"
)

// PatientProfile represents patient-specific profile and medical data
type PatientProfile struct {
	UserID       uuid.UUID  `gorm:"type:uuid;primaryKey" json:"user_id"`
	FiscalCode   string     `gorm:"type:char(16);uniqueIndex;not null" json:"fiscal_code"`
	PhoneNumber  string     `gorm:"type:varchar(20);index" json:"phone_number,omitempty"`
	BirthDate    *time.Time `gorm:"type:date" json:"birth_date,omitempty"`
	Address      string     `gorm:"type:text" json:"address,omitempty"`
	MedicalNotes string     `gorm:"type:text" json:"medical_notes,omitempty"`
	Allergies    string     `gorm:"type:text" json:"allergies,omitempty"`
	Medications  string     `gorm:"type:text" json:"medications,omitempty"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (PatientProfile) TableName() string {
	return "patient_profiles"
}
