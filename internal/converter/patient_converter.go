package converter

import (
	"clinic-booking/internal/delivery/dto"
	"clinic-booking/internal/domain/entity"
)

func PatientProfileToResponse(profile *entity.PatientProfile) *dto.PatientProfileResponse {
	if profile == nil {
		return nil
	}

	response := &dto.PatientProfileResponse{
		UserID:       profile.UserID,
		FiscalCode:   profile.FiscalCode,
		PhoneNumber:  profile.PhoneNumber,
		Address:      profile.Address,
		MedicalNotes: profile.MedicalNotes,
		Allergies:    profile.Allergies,
		Medications:  profile.Medications,
	}
	if profile.BirthDate != nil {
		response.BirthDate = profile.BirthDate.Format(entity.DateLayout)
	}
	return response
}

// PatientToResponse converts a patient User, with its profile if loaded
func PatientToResponse(user *entity.User) *dto.PatientResponse {
	if user == nil {
		return nil
	}
	return &dto.PatientResponse{
		ID:            user.ID,
		Email:         user.Email,
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		FullName:      user.FullName(),
		EmailVerified: user.EmailVerified,
		Profile:       PatientProfileToResponse(user.PatientProfile),
		CreatedAt:     user.CreatedAt,
	}
}

func PatientsToResponses(users []entity.User) []dto.PatientResponse {
	responses := make([]dto.PatientResponse, len(users))
	for i := range users {
		responses[i] = *PatientToResponse(&users[i])
	}
	return responses
}
