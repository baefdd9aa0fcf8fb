package usecase

import (
	"context"
	"errors"
	"strings"

	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/delivery/http/middleware"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrDoctorNotFound    = errors.New("doctor not found")
	ErrDoctorEmailExists = errors.New("email already exists")
	ErrDoctorUnavailable = errors.New("doctor is not available for bookings")
)

type DoctorProfileUsecase interface {
	CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error)
	GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error)
	ListDoctors(ctx context.Context, specialization string, onlyAvailable bool) (*dto.DoctorListResponse, error)
	UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error)
	DeleteDoctor(ctx context.Context, doctorID uuid.UUID) error
}

type doctorProfileUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	userRepo          repository.UserRepository
	doctorProfileRepo repository.DoctorProfileRepository
	scheduleRepo      repository.DoctorScheduleRepository
	appointmentRepo   repository.AppointmentRepository
	reminderRepo      repository.ReminderRepository
	reviewRepo        repository.ReviewRepository
	auditService      service.AuditService
}

func NewDoctorProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	scheduleRepo repository.DoctorScheduleRepository,
	appointmentRepo repository.AppointmentRepository,
	reminderRepo repository.ReminderRepository,
	reviewRepo repository.ReviewRepository,
	auditService service.AuditService,
) DoctorProfileUsecase {
	return &doctorProfileUsecase{
		db:                db,
		log:               log,
		userRepo:          userRepo,
		doctorProfileRepo: doctorProfileRepo,
		scheduleRepo:      scheduleRepo,
		appointmentRepo:   appointmentRepo,
		reminderRepo:      reminderRepo,
		reviewRepo:        reviewRepo,
		auditService:      auditService,
	}
}

// CreateDoctor inserts the doctor user and profile in one statement. Without
// a password the doctor is listed and bookable but cannot log in.
func (u *doctorProfileUsecase) CreateDoctor(ctx context.Context, req *dto.CreateDoctorRequest) (*dto.DoctorResponse, error) {
	var passwordHash string
	if req.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			u.log.Warnf("Failed to hash password: %+v", err)
			return nil, err
		}
		passwordHash = string(hashed)
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	doctorProfile := &entity.DoctorProfile{
		Specialization:    strings.TrimSpace(req.Specialization),
		Description:       req.Description,
		YearsOfExperience: req.YearsOfExperience,
		Languages:         entity.StringList(req.Languages),
		IsAvailable:       &available,
		User: entity.User{
			Email:         normalizeEmail(req.Email),
			Password:      passwordHash,
			FirstName:     strings.TrimSpace(req.FirstName),
			LastName:      strings.TrimSpace(req.LastName),
			Role:          entity.RoleDoctor,
			EmailVerified: true,
			Locale:        entity.DefaultLocale,
		},
	}

	if err := u.doctorProfileRepo.Create(u.db.WithContext(ctx), doctorProfile); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrDoctorEmailExists
		}
		u.log.Warnf("Failed to create doctor: %+v", err)
		return nil, err
	}

	response := converter.DoctorProfileToResponse(doctorProfile)
	actorID, _ := middleware.GetUserIDFromContext(ctx)
	_ = u.auditService.LogCreate(ctx, nil, &actorID, entity.AuditActionDoctorCreate, "doctor_profile", doctorProfile.UserID.String(), response)

	return response, nil
}

func (u *doctorProfileUsecase) findDoctor(db *gorm.DB, doctorID uuid.UUID) (*entity.DoctorProfile, error) {
	profile, err := u.doctorProfileRepo.FindByUserID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor profile: %+v", err)
		return nil, err
	}
	if profile == nil || !profile.User.IsDoctor() {
		return nil, ErrDoctorNotFound
	}
	return profile, nil
}

func (u *doctorProfileUsecase) GetDoctor(ctx context.Context, doctorID uuid.UUID) (*dto.DoctorResponse, error) {
	profile, err := u.findDoctor(u.db.WithContext(ctx), doctorID)
	if err != nil {
		return nil, err
	}
	return converter.DoctorProfileToResponse(profile), nil
}

func (u *doctorProfileUsecase) ListDoctors(ctx context.Context, specialization string, onlyAvailable bool) (*dto.DoctorListResponse, error) {
	profiles, err := u.doctorProfileRepo.FindAll(u.db.WithContext(ctx), repository.DoctorFilter{
		Specialization: strings.TrimSpace(specialization),
		OnlyAvailable:  onlyAvailable,
	})
	if err != nil {
		u.log.Warnf("Failed to find doctor profiles: %+v", err)
		return nil, err
	}

	return &dto.DoctorListResponse{
		Doctors: converter.DoctorProfilesToResponses(profiles),
		Total:   len(profiles),
	}, nil
}

func (u *doctorProfileUsecase) UpdateDoctor(ctx context.Context, doctorID uuid.UUID, req *dto.UpdateDoctorRequest) (*dto.DoctorResponse, error) {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.findDoctor(tx, doctorID)
	if err != nil {
		return nil, err
	}
	oldValue := converter.DoctorProfileToResponse(profile)

	if req.Email != "" {
		profile.User.Email = normalizeEmail(req.Email)
	}
	if req.FirstName != "" {
		profile.User.FirstName = strings.TrimSpace(req.FirstName)
	}
	if req.LastName != "" {
		profile.User.LastName = strings.TrimSpace(req.LastName)
	}
	if req.Specialization != "" {
		profile.Specialization = strings.TrimSpace(req.Specialization)
	}
	if req.Description != nil {
		profile.Description = *req.Description
	}
	if req.YearsOfExperience != nil {
		profile.YearsOfExperience = *req.YearsOfExperience
	}
	if len(req.Languages) > 0 {
		profile.Languages = entity.StringList(req.Languages)
	}
	if req.IsAvailable != nil {
		available := *req.IsAvailable
		profile.IsAvailable = &available
	}

	if err := u.doctorProfileRepo.Update(tx, profile); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrDoctorEmailExists
		}
		u.log.Warnf("Failed to update doctor profile: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	newValue := converter.DoctorProfileToResponse(profile)
	actorID, _ := middleware.GetUserIDFromContext(ctx)
	_ = u.auditService.LogUpdate(ctx, nil, &actorID, entity.AuditActionDoctorUpdate, "doctor_profile", doctorID.String(), oldValue, newValue)

	return newValue, nil
}

// DeleteDoctor removes the doctor and everything hanging off it in one
// transaction: reminders, appointments, schedule, reviews, profile, user.
func (u *doctorProfileUsecase) DeleteDoctor(ctx context.Context, doctorID uuid.UUID) error {
	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	profile, err := u.findDoctor(tx, doctorID)
	if err != nil {
		return err
	}
	oldValue := converter.DoctorProfileToResponse(profile)

	steps := []struct {
		name string
		run  func(*gorm.DB, uuid.UUID) error
	}{
		{"reminders", u.reminderRepo.DeleteByDoctorID},
		{"appointments", u.appointmentRepo.DeleteByDoctorID},
		{"schedule", u.scheduleRepo.Delete},
		{"reviews", u.reviewRepo.DeleteByDoctorID},
		{"profile", u.doctorProfileRepo.Delete},
		{"user", u.userRepo.Delete},
	}
	for _, step := range steps {
		if err := step.run(tx, doctorID); err != nil {
			u.log.Warnf("Failed to delete doctor %s %s: %+v", doctorID, step.name, err)
			return err
		}
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return err
	}

	actorID, _ := middleware.GetUserIDFromContext(ctx)
	_ = u.auditService.LogDelete(ctx, nil, &actorID, entity.AuditActionDoctorDelete, "doctor_profile", doctorID.String(), oldValue)

	return nil
}
