package usecase

import (
	"context"
	"errors"

	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	ErrMedicalServiceNotFound = errors.New("medical service not found")
	ErrInvalidPrice           = errors.New("price must not be negative")
)

type MedicalServiceUsecase interface {
	Create(ctx context.Context, req *dto.CreateMedicalServiceRequest) (*dto.MedicalServiceResponse, error)
	GetAll(ctx context.Context, page, limit int) ([]dto.MedicalServiceResponse, int64, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.MedicalServiceResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *dto.UpdateMedicalServiceRequest) (*dto.MedicalServiceResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type medicalServiceUsecase struct {
	log          *logrus.Logger
	serviceRepo  repository.MedicalServiceRepository
	auditService service.AuditService
}

func NewMedicalServiceUsecase(
	log *logrus.Logger,
	serviceRepo repository.MedicalServiceRepository,
	auditService service.AuditService,
) MedicalServiceUsecase {
	return &medicalServiceUsecase{
		log:          log,
		serviceRepo:  serviceRepo,
		auditService: auditService,
	}
}

func (u *medicalServiceUsecase) Create(ctx context.Context, req *dto.CreateMedicalServiceRequest) (*dto.MedicalServiceResponse, error) {
	if req.PriceFrom.IsNegative() {
		return nil, ErrInvalidPrice
	}

	medicalService := &entity.MedicalService{
		Title:           req.Title,
		Description:     req.Description,
		LongDescription: req.LongDescription,
		Includes:        entity.StringList(req.Includes),
		Duration:        req.Duration,
		PriceFrom:       req.PriceFrom,
	}
	if medicalService.Includes == nil {
		medicalService.Includes = entity.StringList{}
	}

	if err := u.serviceRepo.Create(ctx, medicalService); err != nil {
		u.log.Warnf("Failed to create medical service: %+v", err)
		return nil, err
	}

	u.audit(ctx, entity.AuditActionServiceCreate, medicalService.ID, medicalService.Title)
	return converter.MedicalServiceToResponse(medicalService), nil
}

func (u *medicalServiceUsecase) GetAll(ctx context.Context, page, limit int) ([]dto.MedicalServiceResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}

	offset := (page - 1) * limit

	services, total, err := u.serviceRepo.FindAll(ctx, limit, offset)
	if err != nil {
		u.log.Warnf("Failed to list medical services: %+v", err)
		return nil, 0, err
	}

	return converter.MedicalServicesToResponses(services), total, nil
}

func (u *medicalServiceUsecase) GetByID(ctx context.Context, id uuid.UUID) (*dto.MedicalServiceResponse, error) {
	medicalService, err := u.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if medicalService == nil {
		return nil, ErrMedicalServiceNotFound
	}

	return converter.MedicalServiceToResponse(medicalService), nil
}

func (u *medicalServiceUsecase) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateMedicalServiceRequest) (*dto.MedicalServiceResponse, error) {
	if req.PriceFrom.IsNegative() {
		return nil, ErrInvalidPrice
	}

	medicalService, err := u.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if medicalService == nil {
		return nil, ErrMedicalServiceNotFound
	}

	medicalService.Title = req.Title
	medicalService.Description = req.Description
	medicalService.LongDescription = req.LongDescription
	medicalService.Includes = entity.StringList(req.Includes)
	if medicalService.Includes == nil {
		medicalService.Includes = entity.StringList{}
	}
	medicalService.Duration = req.Duration
	medicalService.PriceFrom = req.PriceFrom

	if err := u.serviceRepo.Update(ctx, medicalService); err != nil {
		u.log.Warnf("Failed to update medical service %s: %+v", id, err)
		return nil, err
	}

	u.audit(ctx, entity.AuditActionServiceUpdate, id, medicalService.Title)
	return converter.MedicalServiceToResponse(medicalService), nil
}

func (u *medicalServiceUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	medicalService, err := u.serviceRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if medicalService == nil {
		return ErrMedicalServiceNotFound
	}

	if err := u.serviceRepo.Delete(ctx, id); err != nil {
		u.log.Warnf("Failed to delete medical service %s: %+v", id, err)
		return err
	}

	u.audit(ctx, entity.AuditActionServiceDelete, id, medicalService.Title)
	return nil
}

func (u *medicalServiceUsecase) audit(ctx context.Context, action string, id uuid.UUID, title string) {
	var actorID *uuid.UUID
	if session, err := sessionFrom(ctx); err == nil {
		actorID = &session.UserID
	}
	_ = u.auditService.LogEvent(ctx, actorID, action, entity.JSON{
		"entity":    "medical_service",
		"entity_id": id.String(),
		"title":     title,
	})
}
