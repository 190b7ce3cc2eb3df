package dto

import "time"

// Request DTOs

type CreateAppointmentRequest struct {
	ClientID         uint      `json:"client_id" validate:"required,min=1"`
	ServiceID        uint      `json:"service_id" validate:"required,min=1"`
	ProfessionalID   *uint     `json:"professional_id" validate:"omitempty,min=1"`
	StartAt          time.Time `json:"start_at" validate:"required"`
	EndAt            time.Time `json:"end_at" validate:"required"`
	Notes            string    `json:"notes" validate:"omitempty"`
	CalendarEventID  *string   `json:"calendar_event_id" validate:"omitempty,max=255"`
	CalendarEventURL *string   `json:"calendar_event_url" validate:"omitempty,max=255"`
}

// UpdateAppointmentRequest changes only the fields present in the body.
// UnassignProfessional clears the professional and wins over ProfessionalID.
type UpdateAppointmentRequest struct {
	ClientID             *uint      `json:"client_id" validate:"omitempty,min=1"`
	ServiceID            *uint      `json:"service_id" validate:"omitempty,min=1"`
	ProfessionalID       *uint      `json:"professional_id" validate:"omitempty,min=1"`
	UnassignProfessional bool       `json:"unassign_professional"`
	StartAt              *time.Time `json:"start_at"`
	EndAt                *time.Time `json:"end_at"`
	CalendarEventID      *string    `json:"calendar_event_id" validate:"omitempty,max=255"`
	CalendarEventURL     *string    `json:"calendar_event_url" validate:"omitempty,max=255"`
}

// AppointmentQuery filters listings. Dates are calendar days (YYYY-MM-DD) in the
// clinic's time zone and both bounds are inclusive.
type AppointmentQuery struct {
	FromDate       string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	ToDate         string `json:"to" validate:"omitempty,datetime=2006-01-02"`
	ClientID       *uint  `json:"client_id"`
	ProfessionalID *uint  `json:"professional_id"`
	ServiceID      *uint  `json:"service_id"`
	Status         string `json:"status"`
}

type TransitionRequest struct {
	Status string `json:"status" validate:"required"`
	Notes  string `json:"notes" validate:"omitempty"`
}

// Response DTOs

type PersonSummary struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
}

type ServiceSummary struct {
	ID              uint   `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"duration_minutes"`
}

type StatusEventResponse struct {
	ID            uint      `json:"id"`
	AppointmentID uint      `json:"appointment_id"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

type AppointmentResponse struct {
	ID               uint                 `json:"id"`
	ClientID         uint                 `json:"client_id"`
	ServiceID        uint                 `json:"service_id"`
	ProfessionalID   *uint                `json:"professional_id,omitempty"`
	StartAt          time.Time            `json:"start_at"`
	EndAt            time.Time            `json:"end_at"`
	CalendarEventID  *string              `json:"calendar_event_id,omitempty"`
	CalendarEventURL *string              `json:"calendar_event_url,omitempty"`
	Notes            string               `json:"notes"`
	Status           string               `json:"status"`
	CurrentStatus    *StatusEventResponse `json:"current_status,omitempty"`
	Client           *PersonSummary       `json:"client,omitempty"`
	Service          *ServiceSummary      `json:"service,omitempty"`
	Professional     *PersonSummary       `json:"professional,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

type StatusHistoryResponse struct {
	AppointmentID uint                  `json:"appointment_id"`
	Events        []StatusEventResponse `json:"events"`
	Total         int                   `json:"total"`
}

type CurrentStatusResponse struct {
	AppointmentID uint   `json:"appointment_id"`
	Status        string `json:"status"`
}
