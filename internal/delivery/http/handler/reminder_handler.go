package handler

import (
	"encoding/json"
	"net/http"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/response"
	"clinic-booking/pkg/validator"

	"github.com/sirupsen/logrus"
)

// Error codes returned by the reminder scheduling endpoint
const (
	CodeUnauthenticated  = "unauthenticated"
	CodeNotFound         = "not-found"
	CodePermissionDenied = "permission-denied"
	CodeInvalidArgument  = "invalid-argument"
	CodeInternal         = "internal"
)

type ReminderHandler struct {
	reminderUsecase usecase.ReminderUsecase
	validator       *validator.CustomValidator
	log             *logrus.Logger
}

func NewReminderHandler(reminderUsecase usecase.ReminderUsecase, validator *validator.CustomValidator, log *logrus.Logger) *ReminderHandler {
	return &ReminderHandler{
		reminderUsecase: reminderUsecase,
		validator:       validator,
		log:             log,
	}
}

func callableError(w http.ResponseWriter, status int, code, message string) {
	response.Error(w, status, message, dto.CallableError{Code: code, Message: message})
}

// ScheduleReminder answers {success: true} or a callable error code
func (h *ReminderHandler) ScheduleReminder(w http.ResponseWriter, r *http.Request) {
	var req dto.ScheduleReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		callableError(w, http.StatusBadRequest, CodeInvalidArgument, "Invalid request body")
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		callableError(w, http.StatusBadRequest, CodeInvalidArgument, "appointmentId is required")
		return
	}

	result, err := h.reminderUsecase.ScheduleReminder(r.Context(), req.AppointmentID)
	if err != nil {
		switch err {
		case usecase.ErrUnauthenticated:
			callableError(w, http.StatusUnauthorized, CodeUnauthenticated, "User must be authenticated")
		case usecase.ErrAppointmentNotFound:
			callableError(w, http.StatusNotFound, CodeNotFound, "Appointment not found")
		case usecase.ErrPatientNotFound:
			callableError(w, http.StatusNotFound, CodeNotFound, "Patient not found")
		case usecase.ErrPermissionDenied:
			callableError(w, http.StatusForbidden, CodePermissionDenied, "Not allowed to schedule reminders for this appointment")
		default:
			h.log.Warnf("Failed to schedule reminder for appointment %s: %+v", req.AppointmentID, err)
			callableError(w, http.StatusInternalServerError, CodeInternal, "Failed to schedule reminder")
		}
		return
	}

	response.JSON(w, http.StatusOK, result)
}
