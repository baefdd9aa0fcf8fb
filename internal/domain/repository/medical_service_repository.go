package repository

import (
	"context"

	"clinic-booking/internal/domain/entity"

	"github.com/google/uuid"
)

type MedicalServiceRepository interface {
	Create(ctx context.Context, service *entity.MedicalService) error
	FindAll(ctx context.Context, limit, offset int) ([]entity.MedicalService, int64, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.MedicalService, error)
	Update(ctx context.Context, service *entity.MedicalService) error
	Delete(ctx context.Context, id uuid.UUID) error
}
