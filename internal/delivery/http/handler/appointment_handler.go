package handler

import (
	"net/http"

	"clinic-scheduler/internal/delivery/dto"
	"clinic-scheduler/internal/usecase"
	"clinic-scheduler/pkg/response"
	"clinic-scheduler/pkg/validator"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	statusUsecase      usecase.AppointmentStatusUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(
	appointmentUsecase usecase.AppointmentUsecase,
	statusUsecase usecase.AppointmentStatusUsecase,
	validator *validator.CustomValidator,
) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		statusUsecase:      statusUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err, "Failed to create appointment")
		return
	}

	response.Success(w, http.StatusCreated, "Appointment created successfully", appointment)
}

func (h *AppointmentHandler) UpdateAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	var req dto.UpdateAppointmentRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	appointment, err := h.appointmentUsecase.Update(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to update appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment updated successfully", appointment)
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	appointment, err := h.appointmentUsecase.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get appointment")
		return
	}

	response.Success(w, http.StatusOK, "Appointment retrieved successfully", appointment)
}

// ListAppointments supports ?from=&to= (YYYY-MM-DD, inclusive), ?client_id=,
// ?professional_id=, ?service_id= and ?status=
func (h *AppointmentHandler) ListAppointments(w http.ResponseWriter, r *http.Request) {
	query, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	appointments, err := h.appointmentUsecase.List(r.Context(), query)
	if err != nil {
		writeError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) TodayAppointments(w http.ResponseWriter, r *http.Request) {
	query, ok := h.parseQuery(w, r)
	if !ok {
		return
	}

	appointments, err := h.appointmentUsecase.Today(r.Context(), query)
	if err != nil {
		writeError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	history, err := h.appointmentUsecase.History(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get status history")
		return
	}

	response.Success(w, http.StatusOK, "Status history retrieved successfully", history)
}

func (h *AppointmentHandler) GetCurrentStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	status, err := h.statusUsecase.CurrentStatus(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to get status")
		return
	}

	response.Success(w, http.StatusOK, "Status retrieved successfully", status)
}

func (h *AppointmentHandler) Transition(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		response.BadRequest(w, "Invalid appointment ID")
		return
	}

	var req dto.TransitionRequest
	if !decodeAndValidate(w, r, h.validator, &req) {
		return
	}

	event, err := h.statusUsecase.Transition(r.Context(), id, &req)
	if err != nil {
		writeError(w, err, "Failed to change status")
		return
	}

	response.Success(w, http.StatusCreated, "Status changed successfully", event)
}

func (h *AppointmentHandler) parseQuery(w http.ResponseWriter, r *http.Request) (*dto.AppointmentQuery, bool) {
	values := r.URL.Query()
	query := &dto.AppointmentQuery{
		FromDate: values.Get("from"),
		ToDate:   values.Get("to"),
		Status:   values.Get("status"),
	}

	var err error
	if query.ClientID, err = queryID(r, "client_id"); err != nil {
		response.BadRequest(w, "Invalid client_id")
		return nil, false
	}
	if query.ProfessionalID, err = queryID(r, "professional_id"); err != nil {
		response.BadRequest(w, "Invalid professional_id")
		return nil, false
	}
	if query.ServiceID, err = queryID(r, "service_id"); err != nil {
		response.BadRequest(w, "Invalid service_id")
		return nil, false
	}

	if err := h.validator.Validate(query); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return nil, false
	}
	return query, true
}
