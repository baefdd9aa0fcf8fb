package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
	"clinic-booking/internal/service"
)

// AppointmentToResponse converts an Appointment entity, including the patient when preloaded
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:             appointment.ID,
		PatientID:      appointment.PatientID,
		DoctorID:       appointment.DoctorID,
		DoctorName:     appointment.DoctorName,
		Specialization: appointment.Specialization,
		Date:           appointment.Date,
		Time:           appointment.Time,
		Status:         string(appointment.Status),
		Location:       appointment.Location,
		Notes:          appointment.Notes,
		CreatedAt:      appointment.CreatedAt,
		UpdatedAt:      appointment.UpdatedAt,
	}

	if p := appointment.Patient; p != nil {
		response.Patient = &dto.AppointmentPatientResponse{
			ID:        p.ID,
			FirstName: p.FirstName,
			LastName:  p.LastName,
			Email:     p.Email,
		}
		if p.PatientProfile != nil {
			response.Patient.FiscalCode = p.PatientProfile.FiscalCode
			response.Patient.PhoneNumber = p.PatientProfile.PhoneNumber
		}
	}

	return response
}

func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

func AppointmentStatsToResponse(stats *service.AppointmentStats) *dto.AppointmentStatsResponse {
	if stats == nil {
		return nil
	}

	response := &dto.AppointmentStatsResponse{
		Total:          stats.Total,
		Completed:      stats.Completed,
		Cancelled:      stats.Cancelled,
		Scheduled:      stats.Scheduled,
		CompletionRate: stats.CompletionRate,
		ByMonth:        make([]dto.MonthStatsResponse, len(stats.ByMonth)),
		ByDoctor:       make([]dto.DoctorStatsResponse, len(stats.ByDoctor)),
	}
	for i, m := range stats.ByMonth {
		response.ByMonth[i] = dto.MonthStatsResponse{
			Month:     m.Month,
			Total:     m.Total,
			Completed: m.Completed,
			Cancelled: m.Cancelled,
			Revenue:   m.Revenue.StringFixed(2),
		}
	}
	for i, d := range stats.ByDoctor {
		response.ByDoctor[i] = dto.DoctorStatsResponse{
			DoctorName: d.DoctorName,
			Total:      d.Total,
			Completed:  d.Completed,
			Cancelled:  d.Cancelled,
		}
	}
	return response
}
