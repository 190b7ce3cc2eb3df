package entity

import "time"

// AppointmentFilter is a domain-level filter for querying appointments.
// Used by repository layer to avoid coupling with delivery DTOs.
type AppointmentFilter struct {
	StartFrom      *time.Time // start_at >= StartFrom
	StartBefore    *time.Time // start_at < StartBefore
	ClientID       *uint
	ProfessionalID *uint
	ServiceID      *uint
	Status         AppointmentStatus // current status, empty for any
}
