package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinic-booking/config"
	deliveryHttp "clinic-booking/internal/delivery/http"
	"clinic-booking/internal/delivery/http/handler"
	"clinic-booking/internal/delivery/http/middleware"
	"clinic-booking/internal/delivery/scheduler"
	"clinic-booking/internal/infrastructure/assistant"
	"clinic-booking/internal/infrastructure/cache"
	"clinic-booking/internal/infrastructure/database"
	"clinic-booking/internal/infrastructure/mailer"
	"clinic-booking/internal/repository"
	"clinic-booking/internal/service"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/jwt"
	"clinic-booking/pkg/validator"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App holds all dependencies for the application
type App struct {
	Config      *config.Config
	DB          *gorm.DB
	RedisClient *redis.Client
	Server      *http.Server
	ReminderJob *scheduler.ReminderJob
}

// New creates a new App instance with all dependencies initialized
func New() (*App, error) {
	app := &App{}

	// Setup logger
	setupLogger()

	cfg, db, redisClient, err := connect()
	if err != nil {
		return nil, err
	}
	app.Config = cfg
	app.DB = db
	app.RedisClient = redisClient

	// Initialize all layers
	deps := newDependencies(cfg, db, redisClient)
	app.Server = initializeServer(cfg, deps)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := deps.authUsecase.EnsureAdmin(ctx, cfg.Admin); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to seed admin user: %w", err)
	}

	if cfg.Reminder.DispatchEnabled {
		app.ReminderJob = scheduler.NewReminderJob(deps.reminderDispatchUsecase, cfg.Reminder, cfg.App.Location(), deps.log)
	}

	return app, nil
}

// NewReminderJob builds only what the standalone dispatcher needs
func NewReminderJob() (*App, error) {
	setupLogger()

	cfg, db, redisClient, err := connect()
	if err != nil {
		return nil, err
	}

	deps := newDependencies(cfg, db, redisClient)
	return &App{
		Config:      cfg,
		DB:          db,
		RedisClient: redisClient,
		ReminderJob: scheduler.NewReminderJob(deps.reminderDispatchUsecase, cfg.Reminder, cfg.App.Location(), deps.log),
	}, nil
}

// setupLogger configures the logrus logger
func setupLogger() {
	logrus.SetFormatter(&logrus.JSONFormatter{})
	logrus.SetOutput(os.Stdout)
	logrus.SetLevel(logrus.InfoLevel)
}

// connect loads configuration and opens the database and Redis connections
func connect() (*config.Config, *gorm.DB, *redis.Client, error) {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logrus.Info("Configuration loaded successfully")

	// Initialize database
	db, err := database.NewPostgresConnection(cfg.DB, cfg.App)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logrus.Info("Database connected successfully")

	if cfg.DB.AutoMigrate {
		if err := database.RunMigrations(db); err != nil {
			return nil, nil, nil, err
		}
	}

	// Initialize Redis
	redisClient, err := cache.NewRedisClient(context.Background(), cfg.Redis)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logrus.Info("Redis connected successfully")

	return cfg, db, redisClient, nil
}

type dependencies struct {
	log                     *logrus.Logger
	jwtService              *jwt.JWTService
	sessionStore            service.SessionStore
	authUsecase             usecase.AuthUsecase
	doctorProfileUsecase    usecase.DoctorProfileUsecase
	doctorScheduleUsecase   usecase.DoctorScheduleUsecase
	patientProfileUsecase   usecase.PatientProfileUsecase
	appointmentUsecase      usecase.AppointmentUsecase
	adminAppointmentUsecase usecase.AdminAppointmentUsecase
	reminderUsecase         usecase.ReminderUsecase
	reminderDispatchUsecase usecase.ReminderDispatchUsecase
	reviewUsecase           usecase.ReviewUsecase
	medicalServiceUsecase   usecase.MedicalServiceUsecase
	auditLogUsecase         usecase.AuditLogUsecase
	assistantUsecase        usecase.AssistantUsecase
}

func newDependencies(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *dependencies {
	// Initialize logger
	log := logrus.StandardLogger()

	// Initialize JWT service
	jwtService := jwt.NewJWTService(cfg.JWT)

	// Initialize repositories
	userRepo := repository.NewUserRepository()
	doctorProfileRepo := repository.NewDoctorProfileRepository()
	patientProfileRepo := repository.NewPatientProfileRepository()
	doctorScheduleRepo := repository.NewDoctorScheduleRepository()
	appointmentRepo := repository.NewAppointmentRepository()
	reminderRepo := repository.NewReminderRepository()
	reviewRepo := repository.NewReviewRepository()
	auditLogRepo := repository.NewAuditLogRepository()
	medicalServiceRepo := repository.NewMedicalServiceRepository(db)

	// Initialize services
	sessionStore := service.NewSessionStore(redisClient, log)
	auditService := service.NewAuditService(db, log, auditLogRepo)
	notificationService := service.NewNotificationService(mailer.New(cfg.SMTP, cfg.App, log), log, cfg.App.BaseURL)
	exportService := service.NewExportService()
	locker := cache.NewRedisLocker(redisClient, cfg.Reminder.LockTTL)

	// Initialize usecases
	reminderUsecase := usecase.NewReminderUsecase(db, log, reminderRepo, appointmentRepo, cfg.App, cfg.Reminder)

	return &dependencies{
		log:                     log,
		jwtService:              jwtService,
		sessionStore:            sessionStore,
		authUsecase:             usecase.NewAuthUsecase(db, log, userRepo, patientProfileRepo, jwtService, sessionStore, notificationService, auditService),
		doctorProfileUsecase:    usecase.NewDoctorProfileUsecase(db, log, userRepo, doctorProfileRepo, doctorScheduleRepo, appointmentRepo, reminderRepo, reviewRepo, auditService),
		doctorScheduleUsecase:   usecase.NewDoctorScheduleUsecase(db, log, doctorScheduleRepo, doctorProfileRepo, auditService),
		patientProfileUsecase:   usecase.NewPatientProfileUsecase(db, log, userRepo, patientProfileRepo, auditService),
		appointmentUsecase:      usecase.NewAppointmentUsecase(db, log, appointmentRepo, userRepo, doctorProfileRepo, doctorScheduleRepo, reminderUsecase, auditService, cfg.App, cfg.Booking),
		adminAppointmentUsecase: usecase.NewAdminAppointmentUsecase(db, log, appointmentRepo, userRepo, exportService, auditService, cfg.App, cfg.Booking),
		reminderUsecase:         reminderUsecase,
		reminderDispatchUsecase: usecase.NewReminderDispatchUsecase(db, log, reminderRepo, appointmentRepo, notificationService, locker, cfg.App, cfg.Reminder),
		reviewUsecase:           usecase.NewReviewUsecase(db, log, reviewRepo, userRepo, doctorProfileRepo, auditService),
		medicalServiceUsecase:   usecase.NewMedicalServiceUsecase(log, medicalServiceRepo, auditService),
		auditLogUsecase:         usecase.NewAuditLogUsecase(db, log, auditLogRepo),
		assistantUsecase:        usecase.NewAssistantUsecase(log, assistant.NewClient(cfg.Assistant)),
	}
}

// initializeServer creates and configures the HTTP server
func initializeServer(cfg *config.Config, deps *dependencies) *http.Server {
	// Initialize validator
	customValidator := validator.NewValidator()

	// Initialize handlers
	authHandler := handler.NewAuthHandler(deps.authUsecase, customValidator)
	doctorHandler := handler.NewDoctorHandler(deps.doctorProfileUsecase, deps.appointmentUsecase, customValidator)
	doctorScheduleHandler := handler.NewDoctorScheduleHandler(deps.doctorScheduleUsecase, customValidator)
	patientHandler := handler.NewPatientHandler(deps.patientProfileUsecase, deps.appointmentUsecase, customValidator)
	appointmentHandler := handler.NewAppointmentHandler(deps.appointmentUsecase, deps.adminAppointmentUsecase, customValidator, deps.log)
	reminderHandler := handler.NewReminderHandler(deps.reminderUsecase, customValidator, deps.log)
	reviewHandler := handler.NewReviewHandler(deps.reviewUsecase, customValidator)
	medicalServiceHandler := handler.NewMedicalServiceHandler(deps.medicalServiceUsecase, customValidator)
	auditLogHandler := handler.NewAuditLogHandler(deps.auditLogUsecase)
	assistantHandler := handler.NewAssistantHandler(deps.assistantUsecase, customValidator)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(deps.jwtService, deps.sessionStore)
	corsMiddleware := middleware.NewCORSMiddleware(cfg.App.CORSOrigins)
	loggingMiddleware := middleware.NewLoggingMiddleware(deps.log)

	// Initialize router
	router := deliveryHttp.NewRouter(
		authHandler,
		doctorHandler,
		doctorScheduleHandler,
		patientHandler,
		appointmentHandler,
		reminderHandler,
		reviewHandler,
		medicalServiceHandler,
		auditLogHandler,
		assistantHandler,
		authMiddleware,
		corsMiddleware,
		loggingMiddleware,
	)
	httpRouter := router.Setup()

	// Create server
	serverAddr := fmt.Sprintf(":%s", cfg.App.Port)
	return &http.Server{
		Addr:              serverAddr,
		Handler:           httpRouter,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Run starts the HTTP server and handles graceful shutdown
func (app *App) Run() {
	if app.ReminderJob != nil {
		if err := app.ReminderJob.Start(); err != nil {
			logrus.Fatalf("Failed to start reminder dispatcher: %v", err)
		}
	}

	// Start server in goroutine
	go func() {
		logrus.Infof("Server starting on port %s", app.Config.App.Port)
		logrus.Infof("Environment: %s", app.Config.App.Env)
		if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	app.waitForShutdown()
}

// waitForShutdown blocks until an interrupt signal is received
func (app *App) waitForShutdown() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown HTTP server gracefully
	if err := app.Server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	if app.ReminderJob != nil {
		app.ReminderJob.Stop(ctx)
	}

	// Close connections
	app.Close()

	logrus.Info("Server shutdown complete")
}

// Close closes all connections (database, redis, etc.)
func (app *App) Close() {
	// Close database connection
	if app.DB != nil {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}

	// Close Redis connection
	if app.RedisClient != nil {
		app.RedisClient.Close()
	}
}
