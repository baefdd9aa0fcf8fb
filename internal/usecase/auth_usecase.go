package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"clinic-booking/config"
	"clinic-booking/internal/converter"
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/delivery/http/middleware"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/domain/repository"
	"clinic-booking/internal/service"
	"clinic-booking/pkg/jwt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists      = errors.New("email already exists")
	ErrFiscalCodeAlreadyExists = errors.New("fiscal code already exists")
	ErrInvalidCredentials      = errors.New("invalid email or password")
	ErrInvalidToken            = errors.New("invalid or expired token")
	ErrTokenRevoked            = errors.New("token has been revoked")
	ErrUserNotFound            = errors.New("user not found")
	ErrUserInactive            = errors.New("user account is disabled")
	ErrEmailNotVerified        = errors.New("email address has not been verified")
	ErrInvalidDateFormat       = errors.New("invalid date format, use YYYY-MM-DD")
	ErrUnauthenticated         = errors.New("authentication required")
)

const (
	emailVerificationTTL = 24 * time.Hour
	passwordResetTTL     = time.Hour
)

type AuthUsecase interface {
	RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error)
	VerifyEmail(ctx context.Context, token string) error
	ResendVerification(ctx context.Context, email string) error
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error)
	GetCurrentUser(ctx context.Context) (*dto.UserResponse, error)
	RequestPasswordReset(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
	EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error
}

type authUsecase struct {
	db                  *gorm.DB
	log                 *logrus.Logger
	userRepo            repository.UserRepository
	patientProfileRepo  repository.PatientProfileRepository
	jwtService          *jwt.JWTService
	sessionStore        service.SessionStore
	notificationService service.NotificationService
	auditService        service.AuditService
}

func NewAuthUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	userRepo repository.UserRepository,
	patientProfileRepo repository.PatientProfileRepository,
	jwtService *jwt.JWTService,
	sessionStore service.SessionStore,
	notificationService service.NotificationService,
	auditService service.AuditService,
) AuthUsecase {
	return &authUsecase{
		db:                  db,
		log:                 log,
		userRepo:            userRepo,
		patientProfileRepo:  patientProfileRepo,
		jwtService:          jwtService,
		sessionStore:        sessionStore,
		notificationService: notificationService,
		auditService:        auditService,
	}
}

// sessionFrom returns the authenticated caller or ErrUnauthenticated
func sessionFrom(ctx context.Context) (*middleware.Session, error) {
	s, ok := middleware.GetSessionFromContext(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}
	return s, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *authUsecase) RegisterPatient(ctx context.Context, req *dto.RegisterPatientRequest) (*dto.UserResponse, error) {
	birthDate, err := time.Parse(entity.DateLayout, req.BirthDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return nil, err
	}

	locale := req.Locale
	if locale == "" {
		locale = entity.DefaultLocale
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	user := &entity.User{
		Email:     normalizeEmail(req.Email),
		Password:  string(hashedPassword),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Role:      entity.RolePatient,
		Locale:    locale,
	}

	if err := u.userRepo.Create(tx, user); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil, ErrEmailAlreadyExists
		}
		u.log.Warnf("Failed to create user: %+v", err)
		return nil, err
	}

	profile := &entity.PatientProfile{
		UserID:      user.ID,
		FiscalCode:  strings.ToUpper(req.FiscalCode),
		PhoneNumber: req.PhoneNumber,
		BirthDate:   &birthDate,
		Address:     req.Address,
	}

	if err := u.patientProfileRepo.Create(tx, profile); err != nil {
		if isDuplicateKeyError(err, "fiscal_code") {
			return nil, ErrFiscalCodeAlreadyExists
		}
		u.log.Warnf("Failed to create patient profile: %+v", err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	user.PatientProfile = profile
	u.sendVerification(ctx, user)
	_ = u.auditService.LogCreate(ctx, nil, &user.ID, entity.AuditActionUserRegister, "user", user.ID.String(), map[string]interface{}{
		"email": user.Email,
		"role":  user.Role,
	})

	return converter.UserToResponse(user), nil
}

// sendVerification is fail-open: the account exists even if the email never leaves
func (u *authUsecase) sendVerification(ctx context.Context, user *entity.User) {
	token, err := u.sessionStore.IssueActionToken(ctx, service.ActionEmailVerification, user.ID, emailVerificationTTL)
	if err != nil {
		u.log.Warnf("Failed to issue verification token for %s: %+v", user.ID, err)
		return
	}
	if err := u.notificationService.SendEmailVerification(ctx, user, token); err != nil {
		u.log.Warnf("Failed to send verification email to %s: %+v", user.Email, err)
	}
}

func (u *authUsecase) VerifyEmail(ctx context.Context, token string) error {
	userID, err := u.sessionStore.ConsumeActionToken(ctx, service.ActionEmailVerification, token)
	if err != nil {
		if errors.Is(err, service.ErrActionTokenNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), userID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := u.userRepo.MarkEmailVerified(u.db.WithContext(ctx), userID); err != nil {
		u.log.Warnf("Failed to mark email verified: %+v", err)
		return err
	}

	_ = u.auditService.LogEvent(ctx, &userID, entity.AuditActionUserVerifyEmail, entity.JSON{"email": user.Email})
	return nil
}

// ResendVerification never reveals whether the address is registered
func (u *authUsecase) ResendVerification(ctx context.Context, email string) error {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), normalizeEmail(email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return err
	}
	if user == nil || user.EmailVerified {
		return nil
	}

	u.sendVerification(ctx, user)
	return nil
}

func (u *authUsecase) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), normalizeEmail(req.Email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil, err
	}
	if user == nil || !user.CanLogin() {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	if !user.Active() {
		return nil, ErrUserInactive
	}
	if !user.EmailVerified {
		return nil, ErrEmailNotVerified
	}

	tokens, err := u.issueTokens(ctx, user.ID, user.Email, user.Role)
	if err != nil {
		return nil, err
	}

	_ = u.auditService.LogEvent(ctx, &user.ID, entity.AuditActionUserLogin, entity.JSON{"email": user.Email})

	return &dto.LoginResponse{
		TokenResponse: *tokens,
		User:          converter.UserToResponse(user),
	}, nil
}

func (u *authUsecase) issueTokens(ctx context.Context, userID uuid.UUID, email string, role entity.Role) (*dto.TokenResponse, error) {
	accessToken, accessTokenID, err := u.jwtService.GenerateAccessToken(userID, email, role.String())
	if err != nil {
		u.log.Warnf("Failed to generate access token: %+v", err)
		return nil, err
	}

	refreshToken, refreshTokenID, err := u.jwtService.GenerateRefreshToken(userID, email, role.String())
	if err != nil {
		u.log.Warnf("Failed to generate refresh token: %+v", err)
		return nil, err
	}

	if err := u.sessionStore.StoreTokenPair(ctx, userID, accessTokenID, u.jwtService.GetAccessExpiry(), refreshTokenID, u.jwtService.GetRefreshExpiry()); err != nil {
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(u.jwtService.GetAccessExpiry().Seconds()),
	}, nil
}

// Logout revokes the current access token and, when it belongs to the same user, the given refresh token
func (u *authUsecase) Logout(ctx context.Context, refreshToken string) error {
	session, err := sessionFrom(ctx)
	if err != nil {
		return err
	}

	var refreshTokenID string
	if refreshToken != "" {
		claims, err := u.jwtService.ValidateTokenOfType(refreshToken, jwt.RefreshToken)
		if err == nil && claims.UserID == session.UserID {
			refreshTokenID = claims.TokenID
		}
	}

	if err := u.sessionStore.RevokeTokens(ctx, session.UserID, session.TokenID, refreshTokenID); err != nil {
		return err
	}

	_ = u.auditService.LogEvent(ctx, &session.UserID, entity.AuditActionUserLogout, nil)
	return nil
}

func (u *authUsecase) RefreshToken(ctx context.Context, req *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	claims, err := u.jwtService.ValidateTokenOfType(req.RefreshToken, jwt.RefreshToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	consumed, err := u.sessionStore.ConsumeRefreshToken(ctx, claims.UserID, claims.TokenID)
	if err != nil {
		return nil, err
	}
	if !consumed {
		return nil, ErrTokenRevoked
	}

	// Role and active flag may have changed since the token was issued
	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), claims.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	if !user.Active() {
		return nil, ErrUserInactive
	}

	return u.issueTokens(ctx, user.ID, user.Email, user.Role)
}

func (u *authUsecase) GetCurrentUser(ctx context.Context) (*dto.UserResponse, error) {
	session, err := sessionFrom(ctx)
	if err != nil {
		return nil, err
	}

	user, err := u.userRepo.FindByID(u.db.WithContext(ctx), session.UserID)
	if err != nil {
		u.log.Warnf("Failed to find user by ID: %+v", err)
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return converter.UserToResponse(user), nil
}

// RequestPasswordReset always succeeds from the caller's point of view
func (u *authUsecase) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), normalizeEmail(email))
	if err != nil {
		u.log.Warnf("Failed to find user by email: %+v", err)
		return nil
	}
	if user == nil || !user.CanLogin() {
		return nil
	}

	token, err := u.sessionStore.IssueActionToken(ctx, service.ActionPasswordReset, user.ID, passwordResetTTL)
	if err != nil {
		u.log.Warnf("Failed to issue password reset token: %+v", err)
		return nil
	}
	if err := u.notificationService.SendPasswordReset(ctx, user, token); err != nil {
		u.log.Warnf("Failed to send password reset email to %s: %+v", user.Email, err)
	}
	return nil
}

func (u *authUsecase) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	userID, err := u.sessionStore.ConsumeActionToken(ctx, service.ActionPasswordReset, req.Token)
	if err != nil {
		if errors.Is(err, service.ErrActionTokenNotFound) {
			return ErrInvalidToken
		}
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		u.log.Warnf("Failed to hash password: %+v", err)
		return err
	}

	if err := u.userRepo.UpdatePassword(u.db.WithContext(ctx), userID, string(hashedPassword)); err != nil {
		u.log.Warnf("Failed to update password: %+v", err)
		return err
	}

	if err := u.sessionStore.RevokeAllUserTokens(ctx, userID); err != nil {
		u.log.Warnf("Failed to revoke sessions after password reset: %+v", err)
	}

	_ = u.auditService.LogEvent(ctx, &userID, entity.AuditActionUserPasswordReset, nil)
	return nil
}

// EnsureAdmin creates the configured administrator when it does not exist yet
func (u *authUsecase) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) error {
	if cfg.Email == "" || cfg.Password == "" {
		u.log.Info("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seeding")
		return nil
	}

	existing, err := u.userRepo.FindByEmail(u.db.WithContext(ctx), normalizeEmail(cfg.Email))
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(cfg.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &entity.User{
		Email:         normalizeEmail(cfg.Email),
		Password:      string(hashedPassword),
		FirstName:     cfg.FirstName,
		LastName:      cfg.LastName,
		Role:          entity.RoleAdmin,
		EmailVerified: true,
		Locale:        entity.DefaultLocale,
	}
	if err := u.userRepo.Create(u.db.WithContext(ctx), admin); err != nil {
		if isDuplicateKeyError(err, "email") {
			return nil
		}
		return err
	}

	u.log.Infof("Admin account %s created", admin.Email)
	return nil
}
