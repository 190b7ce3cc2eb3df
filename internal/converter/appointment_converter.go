package converter

import (
	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/domain/entity"
)

// AppointmentToResponse converts an Appointment entity to AppointmentResponse DTO
func AppointmentToResponse(appointment *entity.Appointment) *dto.AppointmentResponse {
	if appointment == nil {
		return nil
	}

	response := &dto.AppointmentResponse{
		ID:               appointment.ID,
		ClientID:         appointment.ClientID,
		ServiceID:        appointment.ServiceID,
		ProfessionalID:   appointment.ProfessionalID,
		StartAt:          appointment.StartAt,
		EndAt:            appointment.EndAt,
		CalendarEventID:  appointment.CalendarEventID,
		CalendarEventURL: appointment.CalendarEventURL,
		Notes:            appointment.Notes,
		Status:           string(appointment.Status()),
		CurrentStatus:    StatusEventToResponse(appointment.CurrentStatus),
		Client:           PersonToSummary(&appointment.Client),
		Professional:     PersonToSummary(appointment.Professional),
		CreatedAt:        appointment.CreatedAt,
		UpdatedAt:        appointment.UpdatedAt,
	}

	// Include service info if loaded
	if appointment.Service.ID != 0 {
		response.Service = &dto.ServiceSummary{
			ID:              appointment.Service.ID,
			Name:            appointment.Service.Name,
			DurationMinutes: appointment.Service.DurationMinutes,
		}
	}

	return response
}

// AppointmentsToResponses converts a slice of Appointment entities to slice of AppointmentResponse DTOs
func AppointmentsToResponses(appointments []entity.Appointment) []dto.AppointmentResponse {
	responses := make([]dto.AppointmentResponse, len(appointments))
	for i := range appointments {
		responses[i] = *AppointmentToResponse(&appointments[i])
	}
	return responses
}

func StatusEventToResponse(event *entity.StatusEvent) *dto.StatusEventResponse {
	if event == nil {
		return nil
	}
	return &dto.StatusEventResponse{
		ID:            event.ID,
		AppointmentID: event.AppointmentID,
		Status:        string(event.Status),
		CreatedAt:     event.CreatedAt,
	}
}

func StatusEventsToResponses(events []entity.StatusEvent) []dto.StatusEventResponse {
	responses := make([]dto.StatusEventResponse, len(events))
	for i := range events {
		responses[i] = *StatusEventToResponse(&events[i])
	}
	return responses
}
