package converter

import (
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
)

// ServiceToResponse converts a Service entity to ServiceResponse DTO
func ServiceToResponse(service *entity.Service) *dto.ServiceResponse {
	if service == nil {
		return nil
	}

	return &dto.ServiceResponse{
		ID:              service.ID,
		Name:            service.Name,
		Description:     service.Description,
		BotBookable:     service.BotBookable,
		DurationMinutes: service.DurationMinutes,
		Price:           service.Price,
		CreatedAt:       service.CreatedAt,
		UpdatedAt:       service.UpdatedAt,
	}
}

// ServicesToResponses converts a slice of Service entities to slice of ServiceResponse DTOs
func ServicesToResponses(services []entity.Service) []dto.ServiceResponse {
	responses := make([]dto.ServiceResponse, len(services))
	for i := range services {
		responses[i] = *ServiceToResponse(&services[i])
	}
	return responses
}

func ServiceProviderToResponse(edge *entity.ServiceProvider) *dto.ServiceProviderResponse {
	if edge == nil {
		return nil
	}
	return &dto.ServiceProviderResponse{
		ID:             edge.ID,
		ServiceID:      edge.ServiceID,
		ProfessionalID: edge.ProfessionalID,
		CreatedAt:      edge.CreatedAt,
	}
}
