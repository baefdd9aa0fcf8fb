package entity

import (
	"time"

	"github.com/google/uuid"
)

// Review is a patient's rating of a doctor, one per (doctor, patient)
type Review struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DoctorID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_reviews_doctor_patient;index" json:"doctor_id"`
	PatientID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_reviews_doctor_patient" json:"patient_id"`
	PatientName string    `gorm:"type:varchar(255);not null" json:"patient_name"`
	Rating      int       `gorm:"not null" json:"rating"`
	Comment     string    `gorm:"type:text" json:"comment,omitempty"`
	Verified    bool      `gorm:"not null;default:false" json:"verified"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (Review) TableName() string {
	return "reviews"
}

// Rating bounds
const (
	MinRating = 1
	MaxRating = 5
)
