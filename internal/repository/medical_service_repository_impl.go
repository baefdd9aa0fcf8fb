package repository

import (
	"context"
	"errors"

	"clinic-booking/internal/domain/entity"
	domainRepo "clinic-booking/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type medicalServiceRepository struct {
	db *gorm.DB
}

func NewMedicalServiceRepository(db *gorm.DB) domainRepo.MedicalServiceRepository {
	return &medicalServiceRepository{db: db}
}

func (r *medicalServiceRepository) Create(ctx context.Context, service *entity.MedicalService) error {
	return r.db.WithContext(ctx).Create(service).Error
}

func (r *medicalServiceRepository) FindAll(ctx context.Context, limit, offset int) ([]entity.MedicalService, int64, error) {
	var services []entity.MedicalService
	var total int64

	if err := r.db.WithContext(ctx).Model(&entity.MedicalService{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).Limit(limit).Offset(offset).Order("title ASC").Find(&services).Error; err != nil {
		return nil, 0, err
	}

	return services, total, nil
}

func (r *medicalServiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.MedicalService, error) {
	var service entity.MedicalService
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&service).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &service, nil
}

func (r *medicalServiceRepository) Update(ctx context.Context, service *entity.MedicalService) error {
	return r.db.WithContext(ctx).Save(service).Error
}

func (r *medicalServiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&entity.MedicalService{}).Error
}
