package usecase

import (
	"context"
	"strings"
	"time"

	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type PatientProfileUsecase interface {
	GetProfile(ctx context.Context) (*dto.PatientResponse, error)
	// UpdateProfile edits contact data; fiscal code and email stay fixed
	UpdateProfile(ctx context.Context, req *dto.UpdatePatientProfileRequest) (*dto.PatientResponse, error)
	UpdateMedicalNotes(ctx context.Context, req *dto.UpdateMedicalNotesRequest) (*dto.PatientResponse, error)
}

type patientProfileUsecase struct {
	db                 *gorm.DB
	log                *logrus.Logger
	userRepo           repository.UserRepository
	patientProfileRepo repository.PatientProfileRepository
	auditService       service.AuditService
}

func NewPatientProfileUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientProfileRepo repository.PatientProfileRepository,
	auditService service.AuditService,
) PatientProfileUsecase {
	return &patientProfileUsecase{
		db:                 db,
		log:                log,
		userRepo:           userRepo,
		patientProfileRepo: patientProfileRepo,
		auditService:       auditService,
	}
}

// loadPatient returns the caller's user row with a non-nil profile
func (u *patientProfileUsecase) loadPatient(ctx context.Context, db *gorm.DB) (*entity.User, error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByID(db, session.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user: %+v", err)
		return nil, err
	}
	if user == nil || !user.IsPatient() || user.PatientProfile == nil {
		return nil, ErrPatientNotFound
	}
	return user, nil
}

func (u *patientProfileUsecase) GetProfile(ctx context.Context) (*dto.PatientResponse, error) {
	user, err := u.loadPatient(ctx, u.db.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	return converter.PatientToResponse(user), nil
}

func (u *patientProfileUsecase) UpdateProfile(ctx context.Context, req *dto.UpdatePatientProfileRequest) (*dto.PatientResponse, error) {
	var birthDate *time.Time
	if req.BirthDate != "" {
		parsed, err := time.Parse(entity.DateLayout, req.BirthDate)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		birthDate = &parsed
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user, err := u.loadPatient(ctx, tx)
	if err != nil {
		return nil, err
	}
	oldValue := converter.PatientToResponse(user)

	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)
	profile := user.PatientProfile
	profile.PhoneNumber = req.PhoneNumber
	profile.Address = req.Address
	if birthDate != nil {
		profile.BirthDate = birthDate
	}

	if err := u.userRepo.Update(tx, user); err != nil {
		u.log.Warnf("Failed to update user: %+v", err)
		return nil, err
	}
	if err := u.patientProfileRepo.Update(tx, profile); err != nil {
		u.log.Warnf("Failed to update patient profile: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	newValue := converter.PatientToResponse(user)
	_ = u.auditService.LogUpdate(ctx, nil, &user.ID, entity.AuditActionProfileUpdate, "patient_profile", user.ID.String(), oldValue, newValue)

	return newValue, nil
}

func (u *patientProfileUsecase) UpdateMedicalNotes(ctx context.Context, req *dto.UpdateMedicalNotesRequest) (*dto.PatientResponse, error) {
	db := u.db.WithContext(ctx)
	user, err := u.loadPatient(ctx, db)
	if err != nil {
		return nil, err
	}

	profile := user.PatientProfile
	profile.MedicalNotes = req.MedicalNotes
	profile.Allergies = req.Allergies
	profile.Medications = req.Medications

	if err := u.patientProfileRepo.Update(db, profile); err != nil {
		u.log.Warnf("Failed to update medical notes: %+v", err)
		return nil, err
	}

	// Medical content stays out of the audit trail
	_ = u.auditService.LogEvent(ctx, &user.ID, entity.AuditActionMedicalNotesUpdate, entity.JSON{"patient_id": user.ID.String()})

	return converter.PatientToResponse(user), nil
}
