package usecase

import (
	"context"
	"errors"
	"strings"

	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/service"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrReviewAlreadyExists = errors.New("you have already reviewed this doctor")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
)

type ReviewUsecase interface {
	ListDoctorReviews(ctx context.Context, doctorID uuid.UUID) (*dto.ReviewListResponse, error)
	CreateReview(ctx context.Context, doctorID uuid.UUID, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error)
}

type reviewUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	reviewRepo        repository.ReviewRepository
	userRepo          repository.UserRepository
	doctorProfileRepo repository.DoctorProfileRepository
	auditService      service.AuditService
}

func NewReviewUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	reviewRepo repository.ReviewRepository,
	userRepo repository.UserRepository,
	doctorProfileRepo repository.DoctorProfileRepository,
	auditService service.AuditService,
) ReviewUsecase {
	return &reviewUsecase{
		db:                db,
		log:               log,
		reviewRepo:        reviewRepo,
		userRepo:          userRepo,
		doctorProfileRepo: doctorProfileRepo,
		auditService:      auditService,
	}
}

// ListDoctorReviews returns reviews newest first with the average rating
func (u *reviewUsecase) ListDoctorReviews(ctx context.Context, doctorID uuid.UUID) (*dto.ReviewListResponse, error) {
	reviews, err := u.reviewRepo.FindByDoctorID(u.db.WithContext(ctx), doctorID)
	if err != nil {
		u.log.Warnf("Failed to find reviews for doctor %s: %+v", doctorID, err)
		return nil, err
	}
	return converter.ReviewsToListResponse(reviews), nil
}

func (u *reviewUsecase) CreateReview(ctx context.Context, doctorID uuid.UUID, req *dto.CreateReviewRequest) (*dto.ReviewResponse, error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}
	if req.Rating < entity.MinRating || req.Rating > entity.MaxRating {
		return nil, ErrInvalidRating
	}

	db := u.db.WithContext(ctx)

	doctor, err := u.doctorProfileRepo.FindByUserID(db, doctorID)
	if err != nil {
		u.log.Warnf("Failed to find doctor: %+v", err)
		return nil, err
	}
	if doctor == nil {
		return nil, ErrDoctorNotFound
	}

	patient, err := u.userRepo.FindByID(db, session.UserID)
	if err != nil {
		u.log.Warnf("Failed to find patient: %+v", err)
		return nil, err
	}
	if patient == nil || !patient.IsPatient() {
		return nil, ErrPatientNotFound
	}

	existing, err := u.reviewRepo.FindByDoctorAndPatient(db, doctorID, patient.ID)
	if err != nil {
		u.log.Warnf("Failed to check existing review: %+v", err)
		return nil, err
	}
	if existing != nil {
		return nil, ErrReviewAlreadyExists
	}

	review := &entity.Review{
		DoctorID:    doctorID,
		PatientID:   patient.ID,
		PatientName: patient.FullName(),
		Rating:      req.Rating,
		Comment:     strings.TrimSpace(req.Comment),
		Verified:    true,
	}
	if err := u.reviewRepo.Create(db, review); err != nil {
		if isDuplicateKeyError(err, "uq_reviews_doctor_patient") {
			return nil, ErrReviewAlreadyExists
		}
		u.log.Warnf("Failed to create review: %+v", err)
		return nil, err
	}

	response := converter.ReviewToResponse(review)
	_ = u.auditService.LogCreate(ctx, nil, &patient.ID, entity.AuditActionReviewCreate, "review", review.ID.String(), response)

	return response, nil
}
