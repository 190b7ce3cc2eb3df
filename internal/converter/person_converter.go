package converter

import (
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
)

// PersonToResponse converts a Person entity and its loaded profile to PersonResponse DTO
func PersonToResponse(person *entity.Person) *dto.PersonResponse {
	if person == nil {
		return nil
	}

	response := &dto.PersonResponse{
		ID:             person.ID,
		GivenNames:     person.GivenNames,
		FamilyNames:    person.FamilyNames,
		FullName:       person.FullName(),
		DocumentType:   string(person.DocumentType),
		DocumentNumber: person.DocumentNumber,
		Email:          person.Email,
		Phone:          person.Phone,
		Role:           string(person.Role),
		CreatedAt:      person.CreatedAt,
		UpdatedAt:      person.UpdatedAt,
	}

	switch profile := person.Profile().(type) {
	case *entity.ClientProfile:
		response.ClientProfile = ClientProfileToResponse(profile)
	case *entity.ProfessionalProfile:
		response.ProfessionalProfile = &dto.ProfessionalProfileResponse{
			MessagingHandle: profile.MessagingHandle,
			Title:           profile.Title,
		}
	}

	return response
}

// PersonsToResponses converts a slice of Person entities to slice of PersonResponse DTOs
func PersonsToResponses(persons []entity.Person) []dto.PersonResponse {
	responses := make([]dto.PersonResponse, len(persons))
	for i := range persons {
		responses[i] = *PersonToResponse(&persons[i])
	}
	return responses
}

func ClientProfileToResponse(profile *entity.ClientProfile) *dto.ClientProfileResponse {
	if profile == nil {
		return nil
	}
	return &dto.ClientProfileResponse{
		Age:                 profile.Age,
		GuardianName:        profile.GuardianName,
		Neighborhood:        profile.Neighborhood,
		Address:             profile.Address,
		ReferredBySchool:    profile.ReferredBySchool,
		SchoolName:          profile.SchoolName,
		ConversationStateID: profile.ConversationStateID,
	}
}

// PersonToSummary returns nil for a person that was not loaded
func PersonToSummary(person *entity.Person) *dto.PersonSummary {
	if person == nil || person.ID == 0 {
		return nil
	}
	return &dto.PersonSummary{
		ID:       person.ID,
		FullName: person.FullName(),
		Phone:    person.Phone,
	}
}
