package repository

import (
	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(db *gorm.DB, appointment *entity.Appointment) error
	FindByID(db *gorm.DB, id uuid.UUID) (*entity.Appointment, error)
	FindScheduledByDoctorSlot(db *gorm.DB, doctorID uuid.UUID, date, time string) ([]entity.Appointment, error)
	FindScheduledByPatientSlot(db *gorm.DB, patientID uuid.UUID, date, time string) ([]entity.Appointment, error)
	FindScheduledByDoctorAndDate(db *gorm.DB, doctorID uuid.UUID, date string) ([]entity.Appointment, error)
	FindByPatientID(db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	FindAll(db *gorm.DB, filter entity.AppointmentFilter) ([]entity.Appointment, error)
	// UpdateStatus changes status only if the row is still in from; returns affected rows
	UpdateStatus(db *gorm.DB, id uuid.UUID, from, to entity.AppointmentStatus) (int64, error)
	DeleteByDoctorID(db *gorm.DB, doctorID uuid.UUID) error
}
