package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
)

// DoctorProfileToResponse converts a DoctorProfile entity to DoctorResponse DTO
func DoctorProfileToResponse(profile *entity.DoctorProfile) *dto.DoctorResponse {
	if profile == nil {
		return nil
	}

	languages := []string(profile.Languages)
	if languages == nil {
		languages = []string{}
	}

	return &dto.DoctorResponse{
		ID:                profile.UserID,
		Email:             profile.User.Email,
		FirstName:         profile.User.FirstName,
		LastName:          profile.User.LastName,
		FullName:          profile.User.FullName(),
		Specialization:    profile.Specialization,
		Description:       profile.Description,
		YearsOfExperience: profile.YearsOfExperience,
		Languages:         languages,
		IsAvailable:       profile.Available(),
	}
}

// DoctorProfilesToResponses converts a slice of DoctorProfile entities to slice of DoctorResponse DTOs
func DoctorProfilesToResponses(profiles []entity.DoctorProfile) []dto.DoctorResponse {
	responses := make([]dto.DoctorResponse, len(profiles))
	for i := range profiles {
		responses[i] = *DoctorProfileToResponse(&profiles[i])
	}
	return responses
}

// DoctorProfileToProfileResponse is the nested form used inside UserResponse
func DoctorProfileToProfileResponse(profile *entity.DoctorProfile) *dto.DoctorProfileResponse {
	if profile == nil {
		return nil
	}
	return &dto.DoctorProfileResponse{
		Specialization:    profile.Specialization,
		Description:       profile.Description,
		YearsOfExperience: profile.YearsOfExperience,
		Languages:         []string(profile.Languages),
		IsAvailable:       profile.Available(),
	}
}
