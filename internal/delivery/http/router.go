package http

import (
	"net/http"

	"clinic-booking/internal/delivery/http/handler"
	"clinic-booking/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router                *mux.Router
	authHandler           *handler.AuthHandler
	doctorHandler         *handler.DoctorHandler
	doctorScheduleHandler *handler.DoctorScheduleHandler
	patientHandler        *handler.PatientHandler
	appointmentHandler    *handler.AppointmentHandler
	reminderHandler       *handler.ReminderHandler
	reviewHandler         *handler.ReviewHandler
	medicalServiceHandler *handler.MedicalServiceHandler
	auditLogHandler       *handler.AuditLogHandler
	assistantHandler      *handler.AssistantHandler
	authMiddleware        *middleware.AuthMiddleware
	corsMiddleware        *middleware.CORSMiddleware
	loggingMiddleware     *middleware.LoggingMiddleware
}

func NewRouter(
	authHandler *handler.AuthHandler,
	doctorHandler *handler.DoctorHandler,
	doctorScheduleHandler *handler.DoctorScheduleHandler,
	patientHandler *handler.PatientHandler,
	appointmentHandler *handler.AppointmentHandler,
	reminderHandler *handler.ReminderHandler,
	reviewHandler *handler.ReviewHandler,
	medicalServiceHandler *handler.MedicalServiceHandler,
	auditLogHandler *handler.AuditLogHandler,
	assistantHandler *handler.AssistantHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	loggingMiddleware *middleware.LoggingMiddleware,
) *Router {
	return &Router{
		router:                mux.NewRouter(),
		authHandler:           authHandler,
		doctorHandler:         doctorHandler,
		doctorScheduleHandler: doctorScheduleHandler,
		patientHandler:        patientHandler,
		appointmentHandler:    appointmentHandler,
		reminderHandler:       reminderHandler,
		reviewHandler:         reviewHandler,
		medicalServiceHandler: medicalServiceHandler,
		auditLogHandler:       auditLogHandler,
		assistantHandler:      assistantHandler,
		authMiddleware:        authMiddleware,
		corsMiddleware:        corsMiddleware,
		loggingMiddleware:     loggingMiddleware,
	}
}

func (r *Router) Setup() *mux.Router {
	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", r.authHandler.RegisterPatient).Methods(http.MethodPost)
	auth.HandleFunc("/verify-email", r.authHandler.VerifyEmail).Methods(http.MethodPost)
	auth.HandleFunc("/resend-verification", r.authHandler.ResendVerification).Methods(http.MethodPost)
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)
	auth.HandleFunc("/password/forgot", r.authHandler.ForgotPassword).Methods(http.MethodPost)
	auth.HandleFunc("/password/reset", r.authHandler.ResetPassword).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Public catalogue
	api.HandleFunc("/doctors", r.doctorHandler.ListDoctors).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}/availability", r.doctorHandler.GetAvailability).Methods(http.MethodGet)
	api.HandleFunc("/doctors/{id}/reviews", r.reviewHandler.ListDoctorReviews).Methods(http.MethodGet)
	api.HandleFunc("/services", r.medicalServiceHandler.GetAll).Methods(http.MethodGet)
	api.HandleFunc("/services/{id}", r.medicalServiceHandler.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/schedule/slot-labels", r.doctorScheduleHandler.GetSlotLabels).Methods(http.MethodGet)
	api.HandleFunc("/assistant/chat", r.assistantHandler.Chat).Methods(http.MethodPost)

	// Any authenticated caller; ownership is checked by the usecase
	reminders := api.PathPrefix("/reminders").Subrouter()
	reminders.Use(r.authMiddleware.Authenticate)
	reminders.Use(middleware.RequireAdminOrPatient)
	reminders.HandleFunc("/schedule", r.reminderHandler.ScheduleReminder).Methods(http.MethodPost)

	// Patient routes
	patientActions := api.NewRoute().Subrouter()
	patientActions.Use(r.authMiddleware.Authenticate)
	patientActions.Use(middleware.RequirePatient)
	patientActions.HandleFunc("/appointments", r.appointmentHandler.CreateAppointment).Methods(http.MethodPost)
	patientActions.HandleFunc("/doctors/{id}/reviews", r.reviewHandler.CreateReview).Methods(http.MethodPost)

	patient := api.PathPrefix("/patient").Subrouter()
	patient.Use(r.authMiddleware.Authenticate)
	patient.Use(middleware.RequirePatient)
	patient.HandleFunc("/profile", r.patientHandler.GetProfile).Methods(http.MethodGet)
	patient.HandleFunc("/profile", r.patientHandler.UpdateProfile).Methods(http.MethodPut)
	patient.HandleFunc("/medical-notes", r.patientHandler.UpdateMedicalNotes).Methods(http.MethodPut)
	patient.HandleFunc("/appointments", r.patientHandler.GetMyAppointments).Methods(http.MethodGet)
	patient.HandleFunc("/appointments/{id}/cancel", r.patientHandler.CancelMyAppointment).Methods(http.MethodPost)

	// Admin routes (protected - admin only)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireAdmin)

	// Doctor management (admin)
	admin.HandleFunc("/doctors", r.doctorHandler.CreateDoctor).Methods(http.MethodPost)
	admin.HandleFunc("/doctors", r.doctorHandler.ListDoctors).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.GetDoctor).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.UpdateDoctor).Methods(http.MethodPut)
	admin.HandleFunc("/doctors/{id}", r.doctorHandler.DeleteDoctor).Methods(http.MethodDelete)

	// Schedule management (admin)
	admin.HandleFunc("/doctors/{id}/schedule", r.doctorScheduleHandler.GetSchedule).Methods(http.MethodGet)
	admin.HandleFunc("/doctors/{id}/schedule", r.doctorScheduleHandler.SaveSchedule).Methods(http.MethodPut)

	// Appointments (admin)
	admin.HandleFunc("/appointments", r.appointmentHandler.ListAppointments).Methods(http.MethodGet)
	admin.HandleFunc("/appointments", r.appointmentHandler.CreateAppointmentForPatient).Methods(http.MethodPost)
	admin.HandleFunc("/appointments/export", r.appointmentHandler.Export).Methods(http.MethodGet)
	admin.HandleFunc("/appointments/{id}/status", r.appointmentHandler.UpdateStatus).Methods(http.MethodPatch)
	admin.HandleFunc("/calendar", r.appointmentHandler.Calendar).Methods(http.MethodGet)
	admin.HandleFunc("/patients", r.appointmentHandler.SearchPatients).Methods(http.MethodGet)
	admin.HandleFunc("/stats", r.appointmentHandler.Stats).Methods(http.MethodGet)

	// Services catalogue (admin)
	admin.HandleFunc("/services", r.medicalServiceHandler.Create).Methods(http.MethodPost)
	admin.HandleFunc("/services/{id}", r.medicalServiceHandler.Update).Methods(http.MethodPut)
	admin.HandleFunc("/services/{id}", r.medicalServiceHandler.Delete).Methods(http.MethodDelete)

	// Audit trail (admin)
	admin.HandleFunc("/audit-logs", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	admin.HandleFunc("/audit-logs/{id}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	r.router.Use(r.loggingMiddleware.Handle)
	// Add CORS middleware
	r.router.Use(r.corsMiddleware.Handle)

	return r.router
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}
