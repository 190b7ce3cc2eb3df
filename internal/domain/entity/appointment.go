package entity

import "time"

// AppointmentStatus is one step of the appointment lifecycle
type AppointmentStatus string

const (
	StatusScheduled                 AppointmentStatus = "scheduled"
	StatusProfessionalNotified      AppointmentStatus = "professional_notified"
	StatusPending24hConfirmation    AppointmentStatus = "pending_24h_confirmation"
	StatusReminder24hSent           AppointmentStatus = "reminder_24h_sent"
	StatusFirstConfirmed            AppointmentStatus = "first_confirmed"
	StatusPendingSecondConfirmation AppointmentStatus = "pending_second_confirmation"
	StatusReminderSent              AppointmentStatus = "reminder_sent"
	StatusSecondConfirmed           AppointmentStatus = "second_confirmed"
	StatusAgentInformed             AppointmentStatus = "agent_informed"
	StatusCompleted                 AppointmentStatus = "completed"
	StatusCancelled                 AppointmentStatus = "cancelled"
	StatusNoShow                    AppointmentStatus = "no_show"

	// StatusUnset is reported when an appointment has no status event yet.
	// It is never a valid transition target.
	StatusUnset AppointmentStatus = "unset"
)

// AppointmentStatuses lists the closed status set in lifecycle order
var AppointmentStatuses = []AppointmentStatus{
	StatusScheduled,
	StatusProfessionalNotified,
	StatusPending24hConfirmation,
	StatusReminder24hSent,
	StatusFirstConfirmed,
	StatusPendingSecondConfirmation,
	StatusReminderSent,
	StatusSecondConfirmed,
	StatusAgentInformed,
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// IsValid reports whether s belongs to the closed status set
func (s AppointmentStatus) IsValid() bool {
	for _, status := range AppointmentStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// Appointment is a scheduled service instance for a client
type Appointment struct {
	ID                   uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientID             uint      `gorm:"not null;index:idx_appointments_client_start,priority:1" json:"client_id"`
	ServiceID            uint      `gorm:"not null;index:idx_appointments_service_start,priority:1" json:"service_id"`
	ProfessionalID       *uint     `gorm:"index:idx_appointments_professional_start,priority:1" json:"professional_id,omitempty"`
	StartAt              time.Time `gorm:"not null;index;index:idx_appointments_client_start,priority:2;index:idx_appointments_service_start,priority:2;index:idx_appointments_professional_start,priority:2" json:"start_at"`
	EndAt                time.Time `gorm:"not null" json:"end_at"`
	CalendarEventID      *string   `gorm:"type:varchar(255);index" json:"calendar_event_id,omitempty"`
	CalendarEventURL     *string   `gorm:"type:varchar(255)" json:"calendar_event_url,omitempty"`
	Notes                string    `gorm:"type:text;not null;default:''" json:"notes"`
	CurrentStatusEventID *uint     `gorm:"index" json:"current_status_event_id,omitempty"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	Client        Person        `gorm:"foreignKey:ClientID;constraint:OnDelete:CASCADE" json:"client,omitempty"`
	Service       Service       `gorm:"foreignKey:ServiceID;constraint:OnDelete:CASCADE" json:"service,omitempty"`
	Professional  *Person       `gorm:"foreignKey:ProfessionalID;constraint:OnDelete:SET NULL" json:"professional,omitempty"`
	CurrentStatus *StatusEvent  `gorm:"foreignKey:CurrentStatusEventID;constraint:OnDelete:SET NULL" json:"current_status,omitempty"`
	History       []StatusEvent `gorm:"foreignKey:AppointmentID;constraint:OnDelete:CASCADE" json:"history,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// Status returns the current status, or StatusUnset when no event is attached
func (a *Appointment) Status() AppointmentStatus {
	if a.CurrentStatus == nil {
		return StatusUnset
	}
	return a.CurrentStatus.Status
}

// IsCancelled checks if the current status is cancelled
func (a *Appointment) IsCancelled() bool {
	return a.Status() == StatusCancelled
}

// Overlaps reports whether the half-open window [start, end) intersects the appointment
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.StartAt.Before(end) && start.Before(a.EndAt)
}
