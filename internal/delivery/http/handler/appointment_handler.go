package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/service"
	"clinic-booking/internal/usecase"
	"clinic-booking/pkg/response"
	"clinic-booking/pkg/validator"

	"github.com/sirupsen/logrus"
)

type AppointmentHandler struct {
	appointmentUsecase      usecase.AppointmentUsecase
	adminAppointmentUsecase usecase.AdminAppointmentUsecase
	validator               *validator.CustomValidator
	log                     *logrus.Logger
}

func NewAppointmentHandler(
	appointmentUsecase usecase.AppointmentUsecase,
	adminAppointmentUsecase usecase.AdminAppointmentUsecase,
	validator *validator.CustomValidator,
	log *logrus.Logger,
) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase:      appointmentUsecase,
		adminAppointmentUsecase: adminAppointmentUsecase,
		validator:               validator,
		log:                     log,
	}
}

// Messages shown to patients when a booking collides
const (
	msgSlotUnavailable  = "Questo orario non è più disponibile. Seleziona un altro orario."
	msgPatientSlotTaken = "Hai già un appuntamento prenotato in questo orario."
)

// writeBookingError maps booking failures. Slot conflicts carry the
// Italian message shown to patients.
func writeBookingError(w http.ResponseWriter, err error) {
	switch err {
	case usecase.ErrUnauthenticated:
		response.Unauthorized(w, "Unauthorized")
	case usecase.ErrSlotUnavailable:
		response.Conflict(w, msgSlotUnavailable)
	case usecase.ErrPatientSlotTaken:
		response.Conflict(w, msgPatientSlotTaken)
	case usecase.ErrInvalidDateFormat, usecase.ErrInvalidTimeSlot, usecase.ErrAppointmentInPast, usecase.ErrSlotNotOffered:
		response.BadRequest(w, err.Error())
	case usecase.ErrDoctorUnavailable:
		response.Conflict(w, err.Error())
	case usecase.ErrDoctorNotFound:
		response.NotFound(w, "Doctor not found")
	case usecase.ErrPatientNotFound:
		response.NotFound(w, "Patient not found")
	default:
		response.InternalServerError(w, "Failed to create appointment")
	}
}

// CreateAppointment books a slot for the logged-in patient
func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.CreateAppointment(r.Context(), &req)
	if err != nil {
		writeBookingError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

// CreateAppointmentForPatient books on behalf of a patient (admin)
func (h *AppointmentHandler) CreateAppointmentForPatient(w http.ResponseWriter, r *http.Request) {
	var req dto.AdminCreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.CreateAppointmentForPatient(r.Context(), &req)
	if err != nil {
		writeBookingError(w, err)
		return
	}

	response.Success(w, http.StatusCreated, "Appointment booked successfully", appointment)
}

func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.adminAppointmentUsecase.ListAppointments(r.Context(), appointmentFilterFromQuery(r))
	if err != nil {
		switch err {
		case usecase.ErrInvalidStatus, usecase.ErrInvalidDateFormat:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to get appointments")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	appointmentID, ok := parseIDParam(r, "id")
	if !ok {
		response.Error(w, http.StatusBadRequest, "Invalid appointment ID", nil)
		return
	}

	var req dto.UpdateAppointmentStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.adminAppointmentUsecase.UpdateStatus(r.Context(), appointmentID, entity.AppointmentStatus(req.Status))
	if err != nil {
		switch err {
		case usecase.ErrUnauthenticated:
			response.Unauthorized(w, "Unauthorized")
		case usecase.ErrAppointmentNotFound:
			response.NotFound(w, "Appointment not found")
		case usecase.ErrInvalidStatusTransition, usecase.ErrAppointmentNotScheduled:
			response.Conflict(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to update appointment status")
		}
		return
	}

	response.Success(w, http.StatusOK, "Appointment status updated successfully", appointment)
}

func (h *AppointmentHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date == "" {
		response.BadRequest(w, "Query parameter date is required")
		return
	}

	calendar, err := h.adminAppointmentUsecase.Calendar(r.Context(), date)
	if err != nil {
		if err == usecase.ErrInvalidDateFormat {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalServerError(w, "Failed to get calendar")
		return
	}

	response.Success(w, http.StatusOK, "Calendar retrieved successfully", calendar)
}

func (h *AppointmentHandler) SearchPatients(w http.ResponseWriter, r *http.Request) {
	patients, err := h.adminAppointmentUsecase.SearchPatients(r.Context(), r.URL.Query().Get("search"))
	if err != nil {
		response.InternalServerError(w, "Failed to search patients")
		return
	}

	response.Success(w, http.StatusOK, "Patients retrieved successfully", patients)
}

func (h *AppointmentHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.adminAppointmentUsecase.Stats(r.Context(), appointmentFilterFromQuery(r))
	if err != nil {
		switch err {
		case usecase.ErrInvalidStatus, usecase.ErrInvalidDateFormat:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to compute statistics")
		}
		return
	}

	response.Success(w, http.StatusOK, "Statistics retrieved successfully", stats)
}

// Export streams the filtered appointments as ?format=csv|xlsx. The file is
// built in memory so a failure can still be reported as JSON.
func (h *AppointmentHandler) Export(w http.ResponseWriter, r *http.Request) {
	format := service.ExportFormat(r.URL.Query().Get("format"))
	if format == "" {
		format = service.ExportFormatCSV
	}

	var buf bytes.Buffer
	fileName, err := h.adminAppointmentUsecase.Export(r.Context(), appointmentFilterFromQuery(r), format, &buf)
	if err != nil {
		switch err {
		case usecase.ErrInvalidExportFormat, usecase.ErrInvalidStatus, usecase.ErrInvalidDateFormat:
			response.BadRequest(w, err.Error())
		default:
			response.InternalServerError(w, "Failed to export appointments")
		}
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.log.Warnf("Failed to write export response: %+v", err)
	}
}
