package repository

import (
	"errors"

	"clinic-booking/internal/domain/entity"
	domainRepo "clinic-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type userRepository struct{}

func NewUserRepository() domainRepo.UserRepository {
	return &userRepository{}
}

func (r *userRepository) Create(db *gorm.DB, user *entity.User) error {
	return db.Create(user).Error
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*entity.User, error) {
	var user entity.User
	err := db.Where("LOWER(email) = LOWER(?)", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(db *gorm.DB, id uuid.UUID) (*entity.User, error) {
	var user entity.User
	err := db.Preload("PatientProfile").Preload("DoctorProfile").Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(db *gorm.DB, user *entity.User) error {
	return db.Omit("PatientProfile", "DoctorProfile").Save(user).Error
}

func (r *userRepository) UpdatePassword(db *gorm.DB, id uuid.UUID, passwordHash string) error {
	return db.Model(&entity.User{}).Where("id = ?", id).Update("password", passwordHash).Error
}

func (r *userRepository) MarkEmailVerified(db *gorm.DB, id uuid.UUID) error {
	return db.Model(&entity.User{}).Where("id = ?", id).Update("email_verified", true).Error
}

// SearchPatients lists patients, optionally matching name, email or fiscal code
func (r *userRepository) SearchPatients(db *gorm.DB, filter entity.PatientFilter) ([]entity.User, error) {
	var users []entity.User
	query := db.
		Joins("LEFT JOIN patient_profiles ON patient_profiles.user_id = users.id").
		Where("users.role = ?", entity.RolePatient)

	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		query = query.Where(
			"(users.first_name || ' ' || users.last_name) ILIKE ? OR users.email ILIKE ? OR patient_profiles.fiscal_code ILIKE ?",
			like, like, like,
		)
	}

	err := query.Preload("PatientProfile").
		Order("users.last_name ASC, users.first_name ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) Delete(db *gorm.DB, id uuid.UUID) error {
	return db.Where("id = ?", id).Delete(&entity.User{}).Error
}
