package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
)

func MedicalServiceToResponse(s *entity.MedicalService) *dto.MedicalServiceResponse {
	if s == nil {
		return nil
	}

	includes := []string(s.Includes)
	if includes == nil {
		includes = []string{}
	}

	return &dto.MedicalServiceResponse{
		ID:              s.ID,
		Title:           s.Title,
		Description:     s.Description,
		LongDescription: s.LongDescription,
		Includes:        includes,
		Duration:        s.Duration,
		PriceFrom:       s.PriceFrom,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

func MedicalServicesToResponses(services []entity.MedicalService) []dto.MedicalServiceResponse {
	responses := make([]dto.MedicalServiceResponse, len(services))
	for i := range services {
		responses[i] = *MedicalServiceToResponse(&services[i])
	}
	return responses
}
