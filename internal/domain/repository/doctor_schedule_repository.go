package repository

import (
	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorScheduleRepository interface {
	FindByDoctorID(db *gorm.DB, doctorID uuid.UUID) (*entity.DoctorSchedule, error)
	// CreateIfAbsent inserts schedule unless the doctor already has one
	CreateIfAbsent(db *gorm.DB, schedule *entity.DoctorSchedule) error
	Upsert(db *gorm.DB, schedule *entity.DoctorSchedule) error
	Delete(db *gorm.DB, doctorID uuid.UUID) error
}
