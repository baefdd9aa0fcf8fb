package usecase

import (
	"context"
	"errors"
	"fmt"

	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/delivery/http/middleware"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrInvalidSchedule = errors.New("invalid schedule")
	ErrInvalidTimeSlot = errors.New("invalid time slot, use HH:MM")
)

type DoctorScheduleUsecase interface {
	// GetSchedule returns the doctor's weekly template, creating an empty one on first access
	GetSchedule(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorScheduleResponse, error)
	// SaveSchedule overwrites the weekdays present in req and keeps the others
	SaveSchedule(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateScheduleRequest) (*dto.DoctorScheduleResponse, error)
	GetSlotLabels(ctx context.Context) *dto.SlotLabelsResponse
}

type doctorScheduleUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	scheduleRepo      repository.DoctorScheduleRepository
	doctorProfileRepo repository.DoctorProfileRepository
	auditService      service.AuditService
}

func NewDoctorScheduleUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	scheduleRepo repository.DoctorScheduleRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
) DoctorScheduleUsecase {
	return &doctorScheduleUsecase{
		db:                db,
		log:               log,
		scheduleRepo:      scheduleRepo,
		doctorProfileRepo: doctorProfileRepo,
		auditService:      auditService,
	}
}

func (u *doctorScheduleUsecase) ensureDoctor(db *gorm.DB, doctorID uuid.UUID) error {
	doctor, err := u.doctorProfileRepo.FindByUserID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return err
	}
	if doctor == nil {
		return ErrDoctorNotFound
	}
	return nil
}

func (u *doctorScheduleUsecase) GetSchedule(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorScheduleResponse, error) {
	db := u.db.WithContext(ctx)
	if err := u.ensureDoctor(db, doctorID); err != nil {
		return nil, err
	}

	schedule, err := u.scheduleRepo.FindByDoctorID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find schedule: %+v", err)
		return nil, err
	}
	if schedule != nil {
		return converter.ScheduleToResponse(schedule), nil
	}

	skeleton := &entity.DoctorSchedule{
		DoctorID: doctorID,
		Slots:    entity.NewWeeklySkeleton(),
	}
	if err := u.scheduleRepo.CreateIfAbsent(db, skeleton); err != nil {
		u.log.Warnf("Failed to create schedule skeleton: %+v", err)
		return nil, err
	}

	// A concurrent request may have created the row first; return whatever is stored
	schedule, err = u.scheduleRepo.FindByDoctorID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find schedule: %+v", err)
		return nil, err
	}
	if schedule == nil {
		schedule = skeleton
	}
	return converter.ScheduleToResponse(schedule), nil
}

func (u *doctorScheduleUsecase) SaveSchedule(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateScheduleRequest) (*dto.DoctorScheduleResponse, error) {
	update, err := entity.WeeklySlots(req.Slots).Normalize()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.ensureDoctor(tx, doctorID); err != nil {
		return nil, err
	}

	existing, err := u.scheduleRepo.FindByDoctorID(tx, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find schedule: %+v", err)
		return nil, err
	}

	base := entity.NewWeeklySkeleton()
	var oldSlots entity.WeeklySlots
	if existing != nil {
		base = existing.Slots
		oldSlots = existing.Slots
	}

	schedule := &entity.DoctorSchedule{
		DoctorID: doctorID,
		Slots:    base.Merge(update),
	}
	if err := u.scheduleRepo.Upsert(tx, schedule); err != nil {
		u.log.Warnf("Failed to save schedule: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	actorID, _ := middleware.GetUserIDFromContext(ctx)
	_ = u.auditService.LogUpdate(ctx, nil, &actorID, entity.AuditActionScheduleUpdate, "doctor_schedule", doctorID.String(), oldSlots, schedule.Slots)

	return converter.ScheduleToResponse(schedule), nil
}

func (u *doctorScheduleUsecase) GetSlotLabels(ctx context.Context) *dto.SlotLabelsResponse {
	return &dto.SlotLabelsResponse{Labels: entity.DefaultSlotLabels()}
}
